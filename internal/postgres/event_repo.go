package postgres

import (
	"context"
	"fmt"

	"github.com/playverse/room-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// insertEvent вызывается только из транзакций действий модерации.
func insertEvent(ctx context.Context, tx pgx.Tx, ev *domain.ModerationEvent) error {
	meta := ev.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return tx.QueryRow(ctx, `
		INSERT INTO room_moderation_events
			(room_id, moderator_id, target_user_id, action, reason, metadata, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		RETURNING id, created_at
	`, ev.RoomID, ev.ModeratorID, ev.TargetUserID, ev.Action, ev.Reason, meta, ev.ExpiresAt).
		Scan(&ev.ID, &ev.CreatedAt)
}

type EventDetailedRow struct {
	domain.ModerationEvent
	ModeratorName *string
	TargetName    *string
}

// List — журнал комнаты, новые сверху, с display-именами модератора и цели.
func (r *EventRepository) List(ctx context.Context, roomID string, limit int, cursorStr string) ([]EventDetailedRow, string, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", err)
	}

	const q = `
		SELECT e.id, e.room_id, e.moderator_id, e.target_user_id, e.action,
		       e.reason, e.metadata, e.expires_at, e.is_active, e.created_at,
		       m.display_name, t.display_name
		FROM room_moderation_events AS e
		LEFT JOIN users AS m ON m.id = e.moderator_id
		LEFT JOIN users AS t ON t.id = e.target_user_id
		WHERE e.room_id = $1
		  AND (
		    $2::timestamptz IS NULL
		    OR e.created_at < $2
		    OR (e.created_at = $2 AND e.id < $3::bigint)
		  )
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $4
	`

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, q, roomID, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var out []EventDetailedRow
	for rows.Next() {
		var row EventDetailedRow
		if err := rows.Scan(&row.ID, &row.RoomID, &row.ModeratorID, &row.TargetUserID,
			&row.Action, &row.Reason, &row.Metadata, &row.ExpiresAt, &row.IsActive,
			&row.CreatedAt, &row.ModeratorName, &row.TargetName); err != nil {
			return nil, "", err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var next string
	if len(out) == limit {
		last := out[len(out)-1]
		if c, e := EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: fmt.Sprint(last.ID)}); e == nil {
			next = c
		}
	}
	return out, next, nil
}
