package database

import (
	"context"
	"fmt"

	"portfolio/models"
)

const projectColumns = `id, title, category, description, full_description, client, timeline, role,
	tags, cover_image_url, cover_image_path, status, created_at, updated_at`

// ListProjects returns projects newest first with the total number of matches.
// Empty filters match everything.
func (db *DB) ListProjects(ctx context.Context, params models.ListParams) ([]models.Project, int64, error) {
	defer db.timed("ListProjects", "status", params.Status, "category", params.Category, "tag", params.Tag)()

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

	// SAFETY: all user input is parameterized; the WHERE clause only holds column names.
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM projects
		%s
		ORDER BY created_at DESC, id
		%s
	`, projectColumns, qb.WhereClause(), qb.Paginate(limit, offset))

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (db *DB) GetProject(ctx context.Context, id string) (*models.Project, error) {
	defer db.timed("GetProject", "id", id)()

	query := fmt.Sprintf(`SELECT %s, 0 FROM projects WHERE id = $1`, projectColumns)

	project, _, err := scanProject(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "get project")
	}
	return project, nil
}

func (db *DB) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	defer db.timed("CreateProject", "id", p.ID)()

	query := fmt.Sprintf(`
		INSERT INTO projects (id, title, category, description, full_description, client, timeline,
			role, tags, cover_image_url, cover_image_path, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s, 0
	`, projectColumns)

	created, _, err := scanProject(db.Pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Category, p.Description, p.FullDescription, p.Client, p.Timeline,
		p.Role, nonNilTags(p.Tags), p.CoverImageURL, p.CoverImagePath, p.Status,
	))
	if err != nil {
		return nil, mapError(err, "create project")
	}

	db.logger.Info("project created", "id", created.ID)
	return created, nil
}

// UpdateProject overwrites every editable field of an existing project.
func (db *DB) UpdateProject(ctx context.Context, id string, p *models.Project) (*models.Project, error) {
	defer db.timed("UpdateProject", "id", id)()

	query := fmt.Sprintf(`
		UPDATE projects SET
			title = $2, category = $3, description = $4, full_description = $5, client = $6,
			timeline = $7, role = $8, tags = $9, cover_image_url = $10, cover_image_path = $11,
			status = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING %s, 0
	`, projectColumns)

	updated, _, err := scanProject(db.Pool.QueryRow(ctx, query,
		id, p.Title, p.Category, p.Description, p.FullDescription, p.Client, p.Timeline,
		p.Role, nonNilTags(p.Tags), p.CoverImageURL, p.CoverImagePath, p.Status,
	))
	if err != nil {
		return nil, mapError(err, "update project")
	}

	db.logger.Info("project updated", "id", id)
	return updated, nil
}

// DeleteProject removes a project and returns the deleted row so callers can
// clean up its stored cover image.
func (db *DB) DeleteProject(ctx context.Context, id string) (*models.Project, error) {
	defer db.timed("DeleteProject", "id", id)()

	query := fmt.Sprintf(`DELETE FROM projects WHERE id = $1 RETURNING %s, 0`, projectColumns)

	deleted, _, err := scanProject(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "delete project")
	}

	db.logger.Info("project deleted", "id", id)
	return deleted, nil
}

// Helper functions

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func scanProject(row rowScanner) (*models.Project, int64, error) {
	var p models.Project
	var total int64
	err := row.Scan(
		&p.ID, &p.Title, &p.Category, &p.Description, &p.FullDescription, &p.Client,
		&p.Timeline, &p.Role, &p.Tags, &p.CoverImageURL, &p.CoverImagePath, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &total,
	)
	if err != nil {
		return nil, 0, err
	}
	return &p, total, nil
}

func scanProjects(rows rowsScanner) ([]models.Project, int64, error) {
	projects := []models.Project{}
	var total int64

	for rows.Next() {
		project, t, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		total = t
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, total, nil
}
