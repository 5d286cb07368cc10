package blogservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/bloglist/internal/common"
)

type Blog struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	// Owner is nil when the blog has no owner reference or the owning
	// user row no longer exists.
	Owner     *Owner    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// Owner is the minimal projection of the owning user returned on read paths.
type Owner struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// Stats is the summary computed over every stored blog.
type Stats struct {
	TotalLikes int   `json:"total_likes"`
	Favorite   *Blog `json:"favorite"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
