package postgres

import (
	"context"
	"errors"

	"github.com/playverse/room-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BanRepository struct {
	db *pgxpool.Pool
}

func NewBanRepository(db *pgxpool.Pool) *BanRepository {
	return &BanRepository{db: db}
}

// Active — действующий бан пользователя в комнате. Истечение проверяется
// здесь же: просроченный бан не авторитетен, хотя строка остаётся.
func (r *BanRepository) Active(ctx context.Context, roomID string, userID int64) (*domain.RoomBan, error) {
	var b domain.RoomBan
	err := r.db.QueryRow(ctx, `
		SELECT id, room_id, user_id, banned_by, duration, expires_at, reason,
		       is_active, lifted_by, lifted_at, created_at
		FROM room_bans
		WHERE room_id=$1 AND user_id=$2 AND is_active
		  AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC
		LIMIT 1
	`, roomID, userID).Scan(
		&b.ID, &b.RoomID, &b.UserID, &b.BannedBy, &b.Duration, &b.ExpiresAt,
		&b.Reason, &b.IsActive, &b.LiftedBy, &b.LiftedAt, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBanNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BanRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.RoomBan, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, user_id, banned_by, duration, expires_at, reason,
		       is_active, lifted_by, lifted_at, created_at
		FROM room_bans
		WHERE room_id=$1
		ORDER BY created_at DESC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bans []domain.RoomBan
	for rows.Next() {
		var b domain.RoomBan
		if err := rows.Scan(&b.ID, &b.RoomID, &b.UserID, &b.BannedBy, &b.Duration,
			&b.ExpiresAt, &b.Reason, &b.IsActive, &b.LiftedBy, &b.LiftedAt, &b.CreatedAt); err != nil {
			return nil, err
		}
		bans = append(bans, b)
	}
	return bans, rows.Err()
}
