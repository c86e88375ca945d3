package service

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a caller-facing failure. Code is stable and machine readable,
// Message is meant for humans.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeInvalidBook        = "INVALID_BOOK"
	CodeInvalidReader      = "INVALID_READER"
	CodeIDMismatch         = "ID_MISMATCH"
	CodeInvalidTitle       = "INVALID_TITLE"
	CodeInvalidYear        = "INVALID_YEAR"
	CodeBookNotFound       = "BOOK_NOT_FOUND"
	CodeReaderNotFound     = "READER_NOT_FOUND"
	CodeLoanNotFound       = "LOAN_NOT_FOUND"
	CodeNoBorrowedBooks    = "NO_BORROWED_BOOKS"
	CodeNoAvailableBooks   = "NO_AVAILABLE_BOOKS"
	CodeNoBooksFound       = "NO_BOOKS_FOUND"
	CodeNoCopiesAvailable  = "NO_COPIES_AVAILABLE"
	CodeAlreadyBorrowed    = "ALREADY_BORROWED"
	CodeBookHasOpenLoans   = "BOOK_HAS_OPEN_LOANS"
	CodeReaderHasOpenLoans = "READER_HAS_OPEN_LOANS"
)

func validationError(code, msg string) error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

func notFoundError(code, msg string) error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func conflictError(code, msg string) error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

var (
	ErrIDMismatch        = validationError(CodeIDMismatch, "id mismatch")
	ErrBookNotFound      = notFoundError(CodeBookNotFound, "book not found")
	ErrReaderNotFound    = notFoundError(CodeReaderNotFound, "reader not found")
	ErrLoanNotFound      = notFoundError(CodeLoanNotFound, "book was not borrowed or is already returned")
	ErrNoCopiesAvailable = conflictError(CodeNoCopiesAvailable, "no copies available")
	ErrAlreadyBorrowed   = conflictError(CodeAlreadyBorrowed, "reader already holds this book")
)

// KindOf returns the kind of a service error anywhere in err's chain, or 0.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
