package handler

type CreateBookRequest struct {
	Title           string `json:"title" binding:"required" example:"C# Programming"`
	Author          string `json:"author" binding:"required" example:"Andrew Troelsen"`
	Article         string `json:"article" binding:"required" example:"CS-0001"`
	YearPublication int    `json:"year_publication" binding:"required,gt=0" example:"2021"`
	Count           int    `json:"count" binding:"required,gt=0" example:"3"`
}

// UpdateBookRequest replaces every mutable field. ID must match the path.
type UpdateBookRequest struct {
	ID              uint   `json:"id" binding:"required" example:"1"`
	Title           string `json:"title" binding:"required" example:"C# Programming"`
	Author          string `json:"author" binding:"required" example:"Andrew Troelsen"`
	Article         string `json:"article" binding:"required" example:"CS-0001"`
	YearPublication int    `json:"year_publication" binding:"required,gt=0" example:"2021"`
	Count           int    `json:"count" binding:"gte=0" example:"3"`
}

type Book struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Article         string `json:"article"`
	YearPublication int    `json:"year_publication"`
	Count           int    `json:"count"`
}

type BookResponse struct {
	Data Book `json:"data"`
}

type ListBooksResponse struct {
	Data []Book `json:"data"`
}
