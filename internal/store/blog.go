package store

import (
	"database/sql"
	"fmt"
	"time"

	"parishcms/internal/models"
)

const blogCols = `bp.id, bp.slug, bp.title, bp.content, bp.excerpt, bp.featured_image,
	bp.author_id, bp.status, bp.published_at, bp.meta_title, bp.meta_description,
	bp.created_at, bp.updated_at, u.name AS author_name`

// BlogFilter narrows a blog post listing. PublishedOnly wins over Status:
// anonymous callers always see published rows regardless of the filter.
type BlogFilter struct {
	PublishedOnly bool
	Status        models.Status // optional, authenticated callers only
	Limit         int
	Offset        int
}

// BlogStore handles all blog-post database operations.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

func scanBlogPost(row interface{ Scan(...any) error }) (*models.BlogPost, error) {
	p := &models.BlogPost{}
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.AuthorID, &p.Status, &p.PublishedAt, &p.MetaTitle, &p.MetaDescription,
		&p.CreatedAt, &p.UpdatedAt, &p.AuthorName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns posts matching the filter, newest first, with the author name
// joined in.
func (s *BlogStore) List(f BlogFilter) ([]models.BlogPost, error) {
	query := `SELECT ` + blogCols + ` FROM blog_posts bp LEFT JOIN users u ON bp.author_id = u.id`
	args := []any{}

	switch {
	case f.PublishedOnly:
		query += ` WHERE bp.status = 'published'`
	case f.Status != "":
		query += ` WHERE bp.status = $1`
		args = append(args, f.Status)
	}

	query += fmt.Sprintf(` ORDER BY bp.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		var p models.BlogPost
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Title, &p.Content, &p.Excerpt, &p.FeaturedImage,
			&p.AuthorID, &p.Status, &p.PublishedAt, &p.MetaTitle, &p.MetaDescription,
			&p.CreatedAt, &p.UpdatedAt, &p.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Count returns the number of posts matching the filter, ignoring paging.
func (s *BlogStore) Count(f BlogFilter) (int, error) {
	query := `SELECT COUNT(*) FROM blog_posts`
	args := []any{}

	switch {
	case f.PublishedOnly:
		query += ` WHERE status = 'published'`
	case f.Status != "":
		query += ` WHERE status = $1`
		args = append(args, f.Status)
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count blog posts: %w", err)
	}
	return count, nil
}

// FindByID retrieves a post by id regardless of status. Returns nil if not found.
func (s *BlogStore) FindByID(id int64) (*models.BlogPost, error) {
	p, err := scanBlogPost(s.db.QueryRow(
		`SELECT `+blogCols+` FROM blog_posts bp LEFT JOIN users u ON bp.author_id = u.id WHERE bp.id = $1`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("find blog post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by slug regardless of status. Returns nil if not found.
func (s *BlogStore) FindBySlug(slug string) (*models.BlogPost, error) {
	p, err := scanBlogPost(s.db.QueryRow(
		`SELECT `+blogCols+` FROM blog_posts bp LEFT JOIN users u ON bp.author_id = u.id WHERE bp.slug = $1`, slug,
	))
	if err != nil {
		return nil, fmt.Errorf("find blog post by slug: %w", err)
	}
	return p, nil
}

// SlugExists reports whether a slug is already taken by a different post.
// Pass excludeID = 0 when creating.
func (s *BlogStore) SlugExists(slug string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("blog slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new post. If it is created already published, the
// published_at timestamp is set now.
func (s *BlogStore) Create(p *models.BlogPost) (*models.BlogPost, error) {
	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	result := &models.BlogPost{AuthorName: p.AuthorName}
	err := s.db.QueryRow(`
		INSERT INTO blog_posts (slug, title, content, excerpt, featured_image,
		                        author_id, status, published_at, meta_title, meta_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, slug, title, content, excerpt, featured_image, author_id,
		          status, published_at, meta_title, meta_description, created_at, updated_at
	`, p.Slug, p.Title, p.Content, p.Excerpt, p.FeaturedImage,
		p.AuthorID, p.Status, p.PublishedAt, p.MetaTitle, p.MetaDescription,
	).Scan(
		&result.ID, &result.Slug, &result.Title, &result.Content, &result.Excerpt,
		&result.FeaturedImage, &result.AuthorID, &result.Status, &result.PublishedAt,
		&result.MetaTitle, &result.MetaDescription, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post. The first transition into published sets
// published_at; later edits never change it.
func (s *BlogStore) Update(p *models.BlogPost) error {
	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	_, err := s.db.Exec(`
		UPDATE blog_posts SET
			slug = $1, title = $2, content = $3, excerpt = $4, featured_image = $5,
			status = $6, published_at = $7, meta_title = $8, meta_description = $9,
			updated_at = NOW()
		WHERE id = $10
	`, p.Slug, p.Title, p.Content, p.Excerpt, p.FeaturedImage,
		p.Status, p.PublishedAt, p.MetaTitle, p.MetaDescription, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update blog post: %w", err)
	}
	return nil
}

// Delete removes a post by id. Returns false if no row was deleted.
func (s *BlogStore) Delete(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete blog post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete blog post: %w", err)
	}
	return n > 0, nil
}
