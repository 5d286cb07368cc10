package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrNotFound          = errors.New("user not found")
)

func newUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

// uniqueViolation reports whether err is a violation of the named unique constraint.
func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *UserModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		u.Username,
		u.Name,
		u.Email,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case uniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		default:
			return err
		}
	}

	u.Blogs = []BlogSummary{}

	return nil
}

func (m *UserModel) getUserById(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, username, name, email, created_at, updated_at, version
		FROM users
		WHERE id = $1`

	var u User
	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	if err := m.resolveBlogs(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// getUsers returns every user with their owned blog projections resolved.
func (m *UserModel) getUsers(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, username, name, email, created_at, updated_at, version
		FROM users
		ORDER BY id ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt, &u.Version)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		if err := m.resolveBlogs(ctx, &users[i]); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// resolveBlogs populates the owned blog projections following the order of the
// user's blog_ids list.
func (m *UserModel) resolveBlogs(ctx context.Context, u *User) error {
	query := `
		SELECT b.id, b.title, b.url, b.likes
		FROM blogs b
		JOIN users u ON b.id = ANY(u.blog_ids)
		WHERE u.id = $1
		ORDER BY array_position(u.blog_ids, b.id)`

	rows, err := m.db.QueryContext(ctx, query, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	u.Blogs = []BlogSummary{}
	for rows.Next() {
		var b BlogSummary
		err := rows.Scan(&b.ID, &b.Title, &b.URL, &b.Likes)
		if err != nil {
			return err
		}
		u.Blogs = append(u.Blogs, b)
	}

	return rows.Err()
}
