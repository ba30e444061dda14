package entities

import "fmt"

// Book is a single catalog entry.
type Book struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Title  string  `gorm:"uniqueIndex;size:250;not null" json:"title"`
	Author string  `gorm:"size:250;not null" json:"author"`
	Rating float64 `gorm:"not null" json:"rating"`
}

func (Book) TableName() string {
	return "books"
}

func (b Book) String() string {
	return fmt.Sprintf("<Book: %s, %s>", b.Title, b.Author)
}
