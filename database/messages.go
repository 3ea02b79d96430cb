package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"portfolio/models"
)

const messageColumns = `id, name, email, subject, message, read, created_at`

func (db *DB) ListMessages(ctx context.Context, params models.ListParams) ([]models.Message, int64, error) {
	defer db.timed("ListMessages", "unread", params.Unread)()

	limit, offset := Page(params.Limit, params.Offset)

	qb := NewQueryBuilder()
	if params.Unread {
		qb.AddCondition("read", false)
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM messages
		%s
		ORDER BY created_at DESC, id
		%s
	`, messageColumns, qb.WhereClause(), qb.Paginate(limit, offset))

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	var total int64
	for rows.Next() {
		msg, t, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		total = t
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, total, nil
}

func (db *DB) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	defer db.timed("GetMessage", "id", id)()

	query := fmt.Sprintf(`SELECT %s, 0 FROM messages WHERE id = $1`, messageColumns)

	msg, _, err := scanMessage(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "get message")
	}
	return msg, nil
}

func (db *DB) CreateMessage(ctx context.Context, m *models.Message) (*models.Message, error) {
	defer db.timed("CreateMessage", "email", m.Email)()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO messages (id, name, email, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, 0
	`, messageColumns)

	created, _, err := scanMessage(db.Pool.QueryRow(ctx, query, m.ID, m.Name, m.Email, m.Subject, m.Message))
	if err != nil {
		return nil, mapError(err, "create message")
	}

	db.logger.Info("message stored", "id", created.ID)
	return created, nil
}

func (db *DB) MarkMessageRead(ctx context.Context, id uuid.UUID, read bool) (*models.Message, error) {
	defer db.timed("MarkMessageRead", "id", id, "read", read)()

	query := fmt.Sprintf(`UPDATE messages SET read = $2 WHERE id = $1 RETURNING %s, 0`, messageColumns)

	msg, _, err := scanMessage(db.Pool.QueryRow(ctx, query, id, read))
	if err != nil {
		return nil, mapError(err, "update message")
	}
	return msg, nil
}

func (db *DB) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	defer db.timed("DeleteMessage", "id", id)()

	result, err := db.Pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	db.logger.Info("message deleted", "id", id)
	return nil
}

func scanMessage(row rowScanner) (*models.Message, int64, error) {
	var m models.Message
	var total int64
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.CreatedAt, &total)
	if err != nil {
		return nil, 0, err
	}
	return &m, total, nil
}
