package model

import "time"

type Reader struct {
	ID            uint      `gorm:"primaryKey"`
	LastName      string    `gorm:"not null;index"`
	Name          string    `gorm:"not null"`
	MiddleName    string    `gorm:"not null"`
	DayOfBirthday time.Time `gorm:"not null"`
	Loans         []Loan    `gorm:"foreignKey:ReaderID;constraint:OnDelete:RESTRICT"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
