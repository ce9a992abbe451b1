// Package trackcode генерирует короткие трек-коды для новых заказов.
package trackcode

import (
	"strings"

	"github.com/google/uuid"
)

const prefix = "TC"

// Generate возвращает код вида TC + 8 шестнадцатеричных символов случайного
// UUID в верхнем регистре. Уникальность не проверяется заранее: на это есть
// UNIQUE-ограничение по track_code в хранилище, коллизия видна как ошибка
// вставки.
func Generate() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:8])
}
