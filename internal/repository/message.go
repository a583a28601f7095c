package repository

import (
	"context"
	"fmt"

	"dating-backend/internal/models"
	"dating-backend/internal/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageSelect = `
	SELECT msg.id, msg.sender_id, s.username, msg.recipient_id, r.username,
		msg.content, msg.sender_deleted, msg.recipient_deleted, msg.sent_at
	FROM messages msg
	JOIN members s ON s.id = msg.sender_id
	JOIN members r ON r.id = msg.recipient_id
`

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.SenderID, &m.SenderUsername, &m.RecipientID, &m.RecipientUsername,
		&m.Content, &m.SenderDeleted, &m.RecipientDeleted, &m.SentAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	return &m, nil
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, content, sender_deleted, recipient_deleted, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.SenderID, m.RecipientID, m.Content, m.SenderDeleted, m.RecipientDeleted, m.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	return scanMessage(r.db.QueryRow(ctx, messageSelect+` WHERE msg.id = $1`, id))
}

// MessageFilter selects one party's view of their messages. A party never
// sees a message they have deleted themselves, regardless of the other
// party's flag.
type MessageFilter struct {
	MemberID  string
	Container string // "outbox" or anything else meaning inbox
}

func (f MessageFilter) whereClause() string {
	if f.Container == "outbox" {
		return `WHERE msg.sender_id = $1 AND NOT msg.sender_deleted`
	}
	return `WHERE msg.recipient_id = $1 AND NOT msg.recipient_deleted`
}

// ListForMember retrieves a page of one party's messages plus the total count
func (r *MessageRepository) ListForMember(ctx context.Context, f MessageFilter, limit, offset int) ([]*models.Message, int, error) {
	where := f.whereClause()

	countQuery := `SELECT count(*) FROM messages msg ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, f.MemberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := messageSelect + where + ` ORDER BY msg.sent_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, f.MemberID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, total, nil
}

// Thread retrieves the conversation between two members as seen by the
// first one, oldest first.
func (r *MessageRepository) Thread(ctx context.Context, memberID, otherID string) ([]*models.Message, error) {
	query := messageSelect + `
		WHERE (msg.sender_id = $1 AND msg.recipient_id = $2 AND NOT msg.sender_deleted)
		   OR (msg.sender_id = $2 AND msg.recipient_id = $1 AND NOT msg.recipient_deleted)
		ORDER BY msg.sent_at
	`
	rows, err := r.db.Query(ctx, query, memberID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message thread: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// MarkDeleted sets one party's deleted flag on a message
func (r *MessageRepository) MarkDeleted(ctx context.Context, id string, bySender bool) error {
	query := `UPDATE messages SET recipient_deleted = TRUE WHERE id = $1`
	if bySender {
		query = `UPDATE messages SET sender_deleted = TRUE WHERE id = $1`
	}
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark message deleted: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete permanently removes a message
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
