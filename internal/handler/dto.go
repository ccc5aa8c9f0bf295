package handler

import (
	"time"

	"bookswap/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Balance     int    `json:"balance"`
	CreatedAt   string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Balance:     u.Balance,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// BookDTO is the JSON representation of a book.
type BookDTO struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Year      int    `json:"year"`
	Available bool   `json:"available"`
	DonorID   string `json:"donorId,omitempty"`
	DonatedAt string `json:"donatedAt"`
}

func toBookDTO(b domain.Book) BookDTO {
	return BookDTO{
		ISBN:      b.ISBN,
		Title:     b.Title,
		Author:    b.Author,
		Year:      b.Year,
		Available: b.Available,
		DonorID:   b.DonorID,
		DonatedAt: b.DonatedAt.Format(time.RFC3339),
	}
}

func toBookDTOs(books []domain.Book) []BookDTO {
	dtos := make([]BookDTO, len(books))
	for i, b := range books {
		dtos[i] = toBookDTO(b)
	}
	return dtos
}

// LoanDTO is the JSON representation of a loan.
type LoanDTO struct {
	ID         string  `json:"id"`
	ISBN       string  `json:"isbn"`
	UserID     string  `json:"userId"`
	BorrowedAt string  `json:"borrowedAt"`
	DueAt      string  `json:"dueAt"`
	ReturnedAt *string `json:"returnedAt"`
	Status     string  `json:"status"`
	Overdue    bool    `json:"overdue"`
}

func toLoanDTO(l *domain.Loan) LoanDTO {
	dto := LoanDTO{
		ID:         l.ID,
		ISBN:       l.ISBN,
		UserID:     l.UserID,
		BorrowedAt: l.BorrowedAt.Format(time.RFC3339),
		DueAt:      l.DueAt.Format(time.RFC3339),
		Status:     l.Status,
		Overdue:    l.Overdue(time.Now().UTC()),
	}
	if l.ReturnedAt != nil {
		t := l.ReturnedAt.Format(time.RFC3339)
		dto.ReturnedAt = &t
	}
	return dto
}

// NotificationDTO is the JSON representation of a notification.
type NotificationDTO struct {
	ID        int64  `json:"id"`
	EventKind string `json:"eventKind"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
	Read      bool   `json:"read"`
}

func toNotificationDTO(n domain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		EventKind: n.EventKind,
		Message:   n.Message,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		Read:      n.Read,
	}
}

func toNotificationDTOs(notifications []domain.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = toNotificationDTO(n)
	}
	return dtos
}
