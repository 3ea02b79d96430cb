package database

import (
	"context"
	"fmt"

	"portfolio/models"
)

const (
	postColumns = `id, title, category, excerpt, content, tags, cover_image_url, cover_image_path,
	status, read_time, created_at, updated_at`

	postSearchDocument = "title || ' ' || excerpt || ' ' || content"
)

// ListPosts returns posts newest first. A non-empty search switches to
// full-text matching over title, excerpt and content.
func (db *DB) ListPosts(ctx context.Context, params models.ListParams, search string) ([]models.BlogPost, int64, error) {
	defer db.timed("ListPosts", "status", params.Status, "category", params.Category, "search", search)()

	limit, offset := Page(params.Limit, params.Offset)

	qb := NewQueryBuilder()
	if params.Status != "" {
		qb.AddCondition("status", params.Status)
	}
	if params.Category != "" {
		qb.AddCondition("category", params.Category)
	}
	if params.Tag != "" {
		qb.AddArrayContains("tags", params.Tag)
	}
	if search != "" {
		tsQuery, err := NewSearchQueryParser().Parse(search)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		qb.AddFullTextSearch(postSearchDocument, tsQuery)
	}

	// SAFETY: all user input is parameterized; the WHERE clause only holds column names.
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM blog_posts
		%s
		ORDER BY created_at DESC, id
		%s
	`, postColumns, qb.WhereClause(), qb.Paginate(limit, offset))

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (db *DB) GetPost(ctx context.Context, id string) (*models.BlogPost, error) {
	defer db.timed("GetPost", "id", id)()

	query := fmt.Sprintf(`SELECT %s, 0 FROM blog_posts WHERE id = $1`, postColumns)

	post, _, err := scanPost(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "get post")
	}
	return post, nil
}

func (db *DB) CreatePost(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	defer db.timed("CreatePost", "id", p.ID)()

	query := fmt.Sprintf(`
		INSERT INTO blog_posts (id, title, category, excerpt, content, tags, cover_image_url,
			cover_image_path, status, read_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, 0
	`, postColumns)

	created, _, err := scanPost(db.Pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Category, p.Excerpt, p.Content, nonNilTags(p.Tags),
		p.CoverImageURL, p.CoverImagePath, p.Status, p.ReadTime,
	))
	if err != nil {
		return nil, mapError(err, "create post")
	}

	db.logger.Info("post created", "id", created.ID)
	return created, nil
}

func (db *DB) UpdatePost(ctx context.Context, id string, p *models.BlogPost) (*models.BlogPost, error) {
	defer db.timed("UpdatePost", "id", id)()

	query := fmt.Sprintf(`
		UPDATE blog_posts SET
			title = $2, category = $3, excerpt = $4, content = $5, tags = $6,
			cover_image_url = $7, cover_image_path = $8, status = $9, read_time = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s, 0
	`, postColumns)

	updated, _, err := scanPost(db.Pool.QueryRow(ctx, query,
		id, p.Title, p.Category, p.Excerpt, p.Content, nonNilTags(p.Tags),
		p.CoverImageURL, p.CoverImagePath, p.Status, p.ReadTime,
	))
	if err != nil {
		return nil, mapError(err, "update post")
	}

	db.logger.Info("post updated", "id", id)
	return updated, nil
}

// UpsertPost inserts a post or replaces the existing one with the same id.
// created_at is set from the argument when non-zero so imports keep their dates.
func (db *DB) UpsertPost(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	defer db.timed("UpsertPost", "id", p.ID)()

	query := fmt.Sprintf(`
		INSERT INTO blog_posts (id, title, category, excerpt, content, tags, cover_image_url,
			cover_image_path, status, read_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()))
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, category = EXCLUDED.category, excerpt = EXCLUDED.excerpt,
			content = EXCLUDED.content, tags = EXCLUDED.tags,
			cover_image_url = EXCLUDED.cover_image_url, cover_image_path = EXCLUDED.cover_image_path,
			status = EXCLUDED.status, read_time = EXCLUDED.read_time, updated_at = NOW()
		RETURNING %s, 0
	`, postColumns)

	var createdAt any
	if !p.CreatedAt.IsZero() {
		createdAt = p.CreatedAt
	}

	post, _, err := scanPost(db.Pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Category, p.Excerpt, p.Content, nonNilTags(p.Tags),
		p.CoverImageURL, p.CoverImagePath, p.Status, p.ReadTime, createdAt,
	))
	if err != nil {
		return nil, mapError(err, "upsert post")
	}
	return post, nil
}

func (db *DB) DeletePost(ctx context.Context, id string) (*models.BlogPost, error) {
	defer db.timed("DeletePost", "id", id)()

	query := fmt.Sprintf(`DELETE FROM blog_posts WHERE id = $1 RETURNING %s, 0`, postColumns)

	deleted, _, err := scanPost(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "delete post")
	}

	db.logger.Info("post deleted", "id", id)
	return deleted, nil
}

// Helper functions

func scanPost(row rowScanner) (*models.BlogPost, int64, error) {
	var p models.BlogPost
	var total int64
	err := row.Scan(
		&p.ID, &p.Title, &p.Category, &p.Excerpt, &p.Content, &p.Tags, &p.CoverImageURL,
		&p.CoverImagePath, &p.Status, &p.ReadTime, &p.CreatedAt, &p.UpdatedAt, &total,
	)
	if err != nil {
		return nil, 0, err
	}
	return &p, total, nil
}

func scanPosts(rows rowsScanner) ([]models.BlogPost, int64, error) {
	posts := []models.BlogPost{}
	var total int64

	for rows.Next() {
		post, t, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		total = t
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, total, nil
}
