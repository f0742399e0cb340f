package httpserver

import (
	"time"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// itemRequest is the body of create and update. Missing optional fields
// decode to "".
type itemRequest struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	URL      string `json:"url"`
	Password string `json:"password"`
	Notes    string `json:"notes"`
}

func (r itemRequest) fields() models.VaultFields {
	return models.VaultFields{
		Title:    r.Title,
		Username: r.Username,
		URL:      r.URL,
		Password: r.Password,
		Notes:    r.Notes,
	}
}

type itemResponse struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	URL       string    `json:"url"`
	Password  string    `json:"password"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toItemResponse(it models.DecryptedItem) itemResponse {
	return itemResponse{
		ID:        it.ID,
		Title:     it.Title,
		Username:  it.Username,
		URL:       it.URL,
		Password:  it.Password,
		Notes:     it.Notes,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type generatorQuery struct {
	Length    *int  `form:"length"`
	Uppercase *bool `form:"uppercase"`
	Numbers   *bool `form:"numbers"`
	Symbols   *bool `form:"symbols"`
}
