package blogservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/bloglist/internal/common"
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: c}
}

type CreateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
	UserID int    `json:"user_id"`
}

type UpdateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

// CreateBlog validates and persists a new blog and links it to its owner. The
// owner must be supplied explicitly; a request without one fails validation
// before any write happens. A missing like count is normalized to zero.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateURL(v, req.URL)
	validateAuthor(v, req.Author)
	validateInt(v, req.UserID, "user_id")
	if req.Likes != nil {
		validateLikes(v, *req.Likes)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := &Blog{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
	}
	if req.Likes != nil {
		blog.Likes = *req.Likes
	}

	err := s.m.insert(ctx, blog, req.UserID)
	if err != nil {
		return nil, err
	}

	s.invalidate(blog.ID)

	// re-read to resolve the owner projection on the returned record
	return s.m.getBlogById(ctx, blog.ID)
}

// GetBlogByID returns a blog by its ID or ErrRecordNotFound.
func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyBlog(id)); ok {
		return cached.(*Blog), nil
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlog(id), blog)

	return blog, nil
}

// GetBlogs returns every blog in creation order.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	if cached, ok := s.c.Get(common.CacheKeyBlogs()); ok {
		return cached.([]Blog), nil
	}

	blogs, err := s.m.getBlogs(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlogs(), blogs)

	return blogs, nil
}

// GetStats computes the like summary over every stored blog.
func (s *BlogService) GetStats(ctx context.Context) (*Stats, error) {
	if cached, ok := s.c.Get(common.CacheKeyBlogStats()); ok {
		return cached.(*Stats), nil
	}

	blogs, err := s.m.getBlogs(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalLikes: TotalLikes(blogs),
		Favorite:   FavoriteBlog(blogs),
	}

	s.c.Set(common.CacheKeyBlogStats(), stats)

	return stats, nil
}

// UpdateBlog replaces the title, author, url, and likes of the record with the
// given id. A missing like count is normalized to zero. The owner reference is
// never touched by an update.
func (s *BlogService) UpdateBlog(ctx context.Context, id int, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateTitle(v, req.Title)
	validateURL(v, req.URL)
	validateAuthor(v, req.Author)
	if req.Likes != nil {
		validateLikes(v, *req.Likes)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	// Read the stored version first so the update only lands if no other
	// write slipped in between.
	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	blog.Title = req.Title
	blog.Author = req.Author
	blog.URL = req.URL
	blog.Likes = 0
	if req.Likes != nil {
		blog.Likes = *req.Likes
	}

	if err := s.m.updateBlog(ctx, blog); err != nil {
		return nil, err
	}

	s.invalidate(id)

	return s.m.getBlogById(ctx, id)
}

// DeleteBlog removes the blog with the given id. Deleting an id that does not
// exist is not an error.
func (s *BlogService) DeleteBlog(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.deleteBlog(ctx, id)
	if err != nil {
		return err
	}

	s.invalidate(id)

	return nil
}

func (s *BlogService) invalidate(id int) {
	s.c.Delete(common.CacheKeyBlog(id))
	s.c.Delete(common.CacheKeyBlogs())
	s.c.Delete(common.CacheKeyBlogStats())
	s.c.Delete(common.CacheKeyUsers())
}
