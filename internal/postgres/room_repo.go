package postgres

import (
	"context"
	"errors"

	"github.com/playverse/room-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create — комната, строка владельца (role=owner, место 1), занятое место 1
// и нулевая строка аналитики в одной транзакции.
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO rooms (id, owner_id, max_seats, visibility, is_locked, current_users)
		VALUES ($1, $2, $3, $4, false, 1)
		RETURNING created_at, updated_at
	`, room.ID, room.OwnerID, room.MaxSeats, room.Visibility).
		Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return err
	}
	room.CurrentUsers = 1

	if _, err := tx.Exec(ctx, `
		INSERT INTO room_users (room_id, user_id, role, seat_number, status, is_active)
		VALUES ($1, $2, $3, 1, $4, true)
	`, room.ID, room.OwnerID, domain.RoleOwner, domain.MemberActive); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO room_mic_control (room_id, seat_number, status, occupant_id)
		VALUES ($1, 1, $2, $3)
	`, room.ID, domain.SeatOccupied, room.OwnerID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO room_analytics (room_id, total_joins, total_messages, peak_users)
		VALUES ($1, 0, 0, 0)
	`, room.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *RoomRepository) Get(ctx context.Context, id string) (*domain.Room, error) {
	var rm domain.Room
	query := `
		SELECT id, owner_id, max_seats, visibility, is_locked, current_users, created_at, updated_at
		FROM rooms WHERE id=$1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rm.ID, &rm.OwnerID, &rm.MaxSeats, &rm.Visibility,
		&rm.IsLocked, &rm.CurrentUsers, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) List(ctx context.Context, limit int, cursorStr string) ([]domain.Room, string, error) {
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", err
	}

	query := `
		SELECT id, owner_id, max_seats, visibility, is_locked, current_users, created_at, updated_at
		FROM rooms
		WHERE visibility = 'public'
		  AND ($1::timestamptz IS NULL OR created_at < $1
		       OR (created_at = $1 AND id < $2))
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, query, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.OwnerID, &rm.MaxSeats, &rm.Visibility,
			&rm.IsLocked, &rm.CurrentUsers, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, "", err
		}
		rooms = append(rooms, rm)
	}

	var nextCursor string
	if len(rooms) == limit {
		last := rooms[len(rooms)-1]
		nextCursor, _ = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return rooms, nextCursor, rows.Err()
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n)
	return n, err
}

// MaxSequence — максимальный числовой суффикс кода комнаты для префикса.
// 0, если комнат с таким префиксом ещё нет.
func (r *RoomRepository) MaxSequence(ctx context.Context, prefix string) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(substring(id FROM '[0-9]+$')::bigint), 0)
		FROM rooms
		WHERE id LIKE $1 || '%'
	`, prefix).Scan(&seq)
	return seq, err
}

func (r *RoomRepository) CodeExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}
