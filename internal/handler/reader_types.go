package handler

import (
	"time"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type CreateReaderRequest struct {
	LastName      string     `json:"last_name" binding:"required" example:"Ivanov"`
	Name          string     `json:"name" binding:"required" example:"Ivan"`
	MiddleName    string     `json:"middle_name" binding:"required" example:"Ivanovich"`
	DayOfBirthday model.Date `json:"day_of_birthday" swaggertype:"string" example:"1990-05-17"`
}

type UpdateReaderRequest struct {
	ID            uint       `json:"id" binding:"required" example:"1"`
	LastName      string     `json:"last_name" example:"Ivanov"`
	Name          string     `json:"name" example:"Ivan"`
	MiddleName    string     `json:"middle_name" example:"Ivanovich"`
	DayOfBirthday model.Date `json:"day_of_birthday" swaggertype:"string" example:"1990-05-17"`
}

type Loan struct {
	ID           uint       `json:"id"`
	ReaderID     uint       `json:"reader_id"`
	BookID       uint       `json:"book_id"`
	Book         *Book      `json:"book,omitempty"`
	BorrowedDate time.Time  `json:"borrowed_date"`
	ReturnDate   *time.Time `json:"return_date"`
	Returned     bool       `json:"returned"`
}

type Reader struct {
	ID            uint       `json:"id"`
	LastName      string     `json:"last_name"`
	Name          string     `json:"name"`
	MiddleName    string     `json:"middle_name"`
	DayOfBirthday model.Date `json:"day_of_birthday" swaggertype:"string" example:"1990-05-17"`
	Loans         []Loan     `json:"loans"`
}

type ReaderResponse struct {
	Data Reader `json:"data"`
}

type LoanActionResponse struct {
	Message string `json:"message"`
	Data    Loan   `json:"data"`
}

type ListLoansResponse struct {
	Data []Loan `json:"data"`
}
