package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseIDParam reads a positive integer path parameter and writes a 400 when
// it is malformed.
func parseIDParam(c *gin.Context, name, code, message string) (uint, bool) {
	id, ok := parseID(c.Param(name))
	if !ok {
		writeError(c, http.StatusBadRequest, code, message)
		return 0, false
	}
	return id, true
}

// locationFor builds the URL of the get-by-id route for a created resource,
// relative to the route that created it.
func locationFor(c *gin.Context, id uint) string {
	base := strings.TrimSuffix(c.FullPath(), "/")
	return base + "/" + strconv.FormatUint(uint64(id), 10)
}

func toBook(b model.Book) Book {
	return Book{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Article:         b.Article,
		YearPublication: b.YearPublication,
		Count:           b.Count,
	}
}

func toBookResponse(b model.Book) BookResponse {
	return BookResponse{Data: toBook(b)}
}

func toListBooksResponse(books []model.Book) ListBooksResponse {
	data := make([]Book, 0, len(books))
	for _, b := range books {
		data = append(data, toBook(b))
	}
	return ListBooksResponse{Data: data}
}

func toLoan(l model.Loan) Loan {
	loan := Loan{
		ID:           l.ID,
		ReaderID:     l.ReaderID,
		BookID:       l.BookID,
		BorrowedDate: l.BorrowedDate,
		ReturnDate:   l.ReturnDate,
		Returned:     !l.IsOpen(),
	}
	if l.Book.ID != 0 {
		b := toBook(l.Book)
		loan.Book = &b
	}
	return loan
}

func toReader(r model.Reader) Reader {
	loans := make([]Loan, 0, len(r.Loans))
	for _, l := range r.Loans {
		loans = append(loans, toLoan(l))
	}

	return Reader{
		ID:            r.ID,
		LastName:      r.LastName,
		Name:          r.Name,
		MiddleName:    r.MiddleName,
		DayOfBirthday: model.Date{Time: r.DayOfBirthday},
		Loans:         loans,
	}
}
