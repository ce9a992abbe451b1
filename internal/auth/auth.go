// Package auth единственная проверка прав: администратор или нет.
package auth

// Guard сравнивает идентификатор пользователя Telegram с одним настроенным
// администратором. Ролей и иерархии нет.
type Guard struct {
	adminID int64
}

func NewGuard(adminID int64) *Guard {
	return &Guard{adminID: adminID}
}

func (g *Guard) IsAdmin(userID int64) bool {
	return userID == g.adminID
}
