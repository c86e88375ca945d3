package model

import "time"

// Book is a catalog entry. Count is the number of physical copies that are
// currently on the shelf; it moves by one with every borrow and return.
type Book struct {
	ID              uint   `gorm:"primaryKey"`
	Title           string `gorm:"not null;index"`
	Author          string `gorm:"not null"`
	Article         string `gorm:"not null"`
	YearPublication int    `gorm:"not null;index"`
	Count           int    `gorm:"not null;default:0;check:chk_books_count,count >= 0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
