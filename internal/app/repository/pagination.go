package repository

import "gorm.io/gorm"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page - параметры постраничного вывода
type Page struct {
	Number int
	Size   int
}

func NewPage(number, size int) Page {
	if number <= 0 {
		number = 1
	}
	switch {
	case size > MaxPageSize:
		size = MaxPageSize
	case size <= 0:
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Scope применяет offset и limit к запросу
func (p Page) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((p.Number - 1) * p.Size).Limit(p.Size)
	}
}

func (p Page) TotalPages(totalRows int64) int {
	if totalRows <= 0 {
		return 0
	}
	return int((totalRows + int64(p.Size) - 1) / int64(p.Size))
}
