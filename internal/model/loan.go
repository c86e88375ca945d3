package model

import "time"

// Loan records one copy of a book held by a reader. A nil ReturnDate means
// the copy is still out. Only one open loan may exist per reader and book.
type Loan struct {
	ID           uint       `gorm:"primaryKey"`
	ReaderID     uint       `gorm:"not null;index;uniqueIndex:idx_loans_open_pair,where:return_date IS NULL"`
	BookID       uint       `gorm:"not null;index;uniqueIndex:idx_loans_open_pair,where:return_date IS NULL"`
	Book         Book       `gorm:"constraint:OnDelete:RESTRICT"`
	BorrowedDate time.Time  `gorm:"not null"`
	ReturnDate   *time.Time `gorm:"index"`
}

func (l Loan) IsOpen() bool {
	return l.ReturnDate == nil
}
