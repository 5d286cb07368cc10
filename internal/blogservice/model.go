package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrOwnerNotFound  = errors.New("owner does not exist")
	ErrEditConflict   = errors.New("edit conflict")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError reports whether err is a violation of the named foreign key constraint.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// insert persists the blog and appends its id to the owner's blog_ids list in
// a single transaction, so a concurrent creation for the same owner cannot
// lose the append.
func (m *BlogModel) insert(ctx context.Context, blog *Blog, ownerID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO blogs (title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at, version`

	err = tx.QueryRowContext(ctx, query, blog.Title, blog.Author, blog.URL, blog.Likes, ownerID).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case ForeignKeyError(err, "blogs_user_id_fkey"):
			return ErrOwnerNotFound
		default:
			return err
		}
	}

	query = `
		UPDATE users
		SET blog_ids = array_append(blog_ids, $1), updated_at = now(), version = version + 1
		WHERE id = $2`

	res, err := tx.ExecContext(ctx, query, blog.ID, ownerID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if rows != 1 {
		_ = tx.Rollback()
		return ErrOwnerNotFound
	}

	return tx.Commit()
}

// getBlogById joins the users table to resolve the owner projection.
func (m *BlogModel) getBlogById(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.created_at, b.updated_at, b.version, u.id, u.username, u.name
		FROM blogs b
		LEFT JOIN users u ON b.user_id = u.id
		WHERE b.id = $1`

	row := m.db.QueryRowContext(ctx, query, id)

	blog, err := scanBlog(row.Scan)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

// getBlogs returns every blog in creation order with the owner projection resolved.
func (m *BlogModel) getBlogs(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.created_at, b.updated_at, b.version, u.id, u.username, u.name
		FROM blogs b
		LEFT JOIN users u ON b.user_id = u.id
		ORDER BY b.id ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows.Scan)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// updateBlog replaces the mutable fields of the record, guarded by the
// version the caller read. A version mismatch means a concurrent write (or
// delete) landed first. The owner reference is left untouched.
func (m *BlogModel) updateBlog(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4, updated_at = now(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING created_at, updated_at, version`

	err := m.db.QueryRowContext(ctx, query, blog.Title, blog.Author, blog.URL, blog.Likes, blog.ID, blog.Version).Scan(&blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

// deleteBlog removes the record and unlinks it from the owner's blog_ids list
// in the same transaction. Deleting an absent id is a no-op.
func (m *BlogModel) deleteBlog(ctx context.Context, id int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		DELETE FROM blogs
		WHERE id = $1
		RETURNING user_id`

	var ownerID sql.NullInt64
	err = tx.QueryRowContext(ctx, query, id).Scan(&ownerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_ = tx.Rollback()
			return nil
		default:
			_ = tx.Rollback()
			return err
		}
	}

	if ownerID.Valid {
		query = `
			UPDATE users
			SET blog_ids = array_remove(blog_ids, $1), updated_at = now(), version = version + 1
			WHERE id = $2`

		_, err = tx.ExecContext(ctx, query, id, ownerID.Int64)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// scanBlog scans one joined row, tolerating a missing owner row.
func scanBlog(scan func(dest ...any) error) (*Blog, error) {
	var blog Blog
	var ownerID sql.NullInt64
	var ownerUsername, ownerName sql.NullString

	err := scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version, &ownerID, &ownerUsername, &ownerName)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		blog.Owner = &Owner{
			ID:       int(ownerID.Int64),
			Username: ownerUsername.String,
			Name:     ownerName.String,
		}
	}

	return &blog, nil
}
