package userservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/bloglist/internal/common"
)

type UserService struct {
	m      *UserModel
	mb     common.MessageProducer
	c      *common.Cache
	logger *slog.Logger
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Password Password `json:"-"`
	// Blogs holds the owned blog projections in creation order.
	Blogs     []BlogSummary `json:"blogs"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Version   int           `json:"version"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte
}

// BlogSummary is the projection of an owned blog embedded in user responses.
type BlogSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Likes int    `json:"likes"`
}

// UserCreatedEvent is the payload published on the user exchange after a
// successful registration.
type UserCreatedEvent struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
