// Package staging держит незакоммиченный товар между текстовой командой
// и загрузкой фото.
package staging

import "sync"

// Record данные товара, ожидающего фото.
type Record struct {
	OrderID     int64
	Name        string
	Description string
	Quantity    int
}

// Slot единственная на процесс ячейка ожидающего товара. Повторный Set до
// прихода фото молча перезаписывает предыдущую запись (last-write-wins):
// администратор один, сериализация конкурентных постановок не нужна. Мьютекс
// здесь только ради целостности памяти, протокольные гонки остаются
// принятым ограничением. Содержимое не переживает рестарт процесса.
type Slot struct {
	mu  sync.Mutex
	rec *Record
}

func NewSlot() *Slot {
	return &Slot{}
}

func (s *Slot) Set(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
}

// Take возвращает запись и очищает ячейку.
func (s *Slot) Take() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return Record{}, false
	}
	rec := *s.rec
	s.rec = nil
	return rec, true
}

// Restore кладёт запись обратно после неудачного коммита, чтобы админ мог
// повторить отправку фото.
func (s *Slot) Restore(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
}

func (s *Slot) Peek() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return Record{}, false
	}
	return *s.rec, true
}

func (s *Slot) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec == nil
}
