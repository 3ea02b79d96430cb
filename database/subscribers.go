package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"portfolio/models"
)

// Subscribe adds an email to the newsletter. created is false when the address
// was already active; an unsubscribed address is reactivated and reported as created.
func (db *DB) Subscribe(ctx context.Context, email string) (*models.Subscriber, bool, error) {
	defer db.timed("Subscribe", "email", email)()

	// The conditional DO UPDATE yields no row when the address is already active.
	query := `
		INSERT INTO newsletter_subscribers (email, status)
		VALUES ($1, 'active')
		ON CONFLICT (email) DO UPDATE
			SET status = 'active', subscribed_at = NOW()
			WHERE newsletter_subscribers.status <> 'active'
		RETURNING email, subscribed_at, status
	`

	var sub models.Subscriber
	err := db.Pool.QueryRow(ctx, query, email).Scan(&sub.Email, &sub.SubscribedAt, &sub.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := db.GetSubscriber(ctx, email)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to subscribe: %w", err)
	}

	db.logger.Info("subscriber added", "email", email)
	return &sub, true, nil
}

func (db *DB) GetSubscriber(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := db.Pool.QueryRow(ctx,
		`SELECT email, subscribed_at, status FROM newsletter_subscribers WHERE email = $1`, email,
	).Scan(&sub.Email, &sub.SubscribedAt, &sub.Status)
	if err != nil {
		return nil, mapError(err, "get subscriber")
	}
	return &sub, nil
}

func (db *DB) Unsubscribe(ctx context.Context, email string) error {
	defer db.timed("Unsubscribe", "email", email)()

	result, err := db.Pool.Exec(ctx,
		`UPDATE newsletter_subscribers SET status = 'unsubscribed' WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListSubscribers(ctx context.Context, params models.ListParams) ([]models.Subscriber, int64, error) {
	defer db.timed("ListSubscribers", "status", params.Status)()

	limit, offset := Page(params.Limit, params.Offset)

	qb := NewQueryBuilder()
	if params.Status != "" {
		qb.AddCondition("status", params.Status)
	}

	query := fmt.Sprintf(`
		SELECT email, subscribed_at, status, COUNT(*) OVER() AS total_count
		FROM newsletter_subscribers
		%s
		ORDER BY subscribed_at DESC, email
		%s
	`, qb.WhereClause(), qb.Paginate(limit, offset))

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	subs := []models.Subscriber{}
	var total int64
	for rows.Next() {
		var s models.Subscriber
		if err := rows.Scan(&s.Email, &s.SubscribedAt, &s.Status, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating subscribers: %w", err)
	}

	return subs, total, nil
}

func (db *DB) DeleteSubscriber(ctx context.Context, email string) error {
	defer db.timed("DeleteSubscriber", "email", email)()

	result, err := db.Pool.Exec(ctx, `DELETE FROM newsletter_subscribers WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ImportSubscribers inserts addresses in one round-trip, skipping ones that
// already exist. It returns how many were new.
func (db *DB) ImportSubscribers(ctx context.Context, emails []string) (int, error) {
	if len(emails) == 0 {
		return 0, nil
	}

	defer db.timed("ImportSubscribers", "count", len(emails))()

	query := `
		INSERT INTO newsletter_subscribers (email, status)
		VALUES ($1, 'active')
		ON CONFLICT (email) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, email := range emails {
		batch.Queue(query, email)
	}

	results := db.Pool.SendBatch(ctx, batch)
	defer func() {
		_ = results.Close()
	}()

	inserted := 0
	for i := 0; i < len(emails); i++ {
		tag, err := results.Exec()
		if err != nil {
			return inserted, &BatchInsertError{FailedIndex: i, Total: len(emails), Err: err}
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// Stats gathers the admin dashboard counters in one query.
func (db *DB) Stats(ctx context.Context) (*models.Stats, error) {
	defer db.timed("Stats")()

	query := `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM blog_posts WHERE status = 'published'),
			(SELECT COUNT(*) FROM blog_posts WHERE status = 'draft'),
			(SELECT COUNT(*) FROM messages WHERE NOT read),
			(SELECT COUNT(*) FROM newsletter_subscribers WHERE status = 'active')
	`

	var s models.Stats
	err := db.Pool.QueryRow(ctx, query).Scan(
		&s.Projects, &s.PublishedPosts, &s.DraftPosts, &s.UnreadMessages, &s.ActiveSubscribers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return &s, nil
}
