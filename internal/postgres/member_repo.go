package postgres

import (
	"context"
	"errors"

	"github.com/playverse/room-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Get(ctx context.Context, roomID string, userID int64) (*domain.RoomUser, error) {
	var ru domain.RoomUser
	err := r.db.QueryRow(ctx, `
		SELECT room_id, user_id, role, seat_number, is_mic_on, is_invited_to_mic,
		       status, is_active, message_count, joined_at
		FROM room_users
		WHERE room_id=$1 AND user_id=$2
	`, roomID, userID).Scan(
		&ru.RoomID, &ru.UserID, &ru.Role, &ru.SeatNumber, &ru.IsMicOn,
		&ru.IsInvitedToMic, &ru.Status, &ru.IsActive, &ru.MessageCount, &ru.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotInRoom
		}
		return nil, err
	}
	return &ru, nil
}

// Join — защищён от гонок по местам и вместимости: строка комнаты
// блокируется FOR UPDATE, параллельные Join по той же комнате будут ждать.
// seat == nil — берём первое свободное место 1..max_seats (или без места,
// если все свободные заблокированы).
func (r *MemberRepository) Join(ctx context.Context, roomID string, userID int64, seat *int) (*domain.RoomUser, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var maxSeats int
	if err := tx.QueryRow(ctx, `SELECT max_seats FROM rooms WHERE id=$1 FOR UPDATE`, roomID).
		Scan(&maxSeats); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM room_users WHERE room_id=$1 AND user_id=$2)`,
		roomID, userID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyJoined
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM room_users WHERE room_id=$1 AND is_active`, roomID).
		Scan(&count); err != nil {
		return nil, err
	}
	if count >= maxSeats {
		return nil, domain.ErrRoomFull
	}

	if seat != nil {
		if err := checkSeatClaimable(ctx, tx, roomID, *seat, userID); err != nil {
			return nil, err
		}
	} else {
		seat, err = firstFreeSeat(ctx, tx, roomID, maxSeats)
		if err != nil {
			return nil, err
		}
	}

	ru := &domain.RoomUser{
		RoomID:     roomID,
		UserID:     userID,
		Role:       domain.RoleMember,
		SeatNumber: seat,
		Status:     domain.MemberActive,
		IsActive:   true,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO room_users (room_id, user_id, role, seat_number, status, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING joined_at
	`, roomID, userID, ru.Role, seat, ru.Status).Scan(&ru.JoinedAt); err != nil {
		return nil, err
	}

	if seat != nil {
		if err := occupySeat(ctx, tx, roomID, *seat, userID); err != nil {
			return nil, err
		}
	}

	if err := recountUsers(ctx, tx, roomID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE room_analytics SET total_joins = total_joins + 1 WHERE room_id=$1`,
		roomID); err != nil {
		return nil, err
	}

	return ru, tx.Commit(ctx)
}

// Leave удаляет строку членства целиком (не soft-delete) и пересчитывает
// current_users по активным строкам.
func (r *MemberRepository) Leave(ctx context.Context, roomID string, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx,
		`DELETE FROM room_users WHERE room_id=$1 AND user_id=$2`, roomID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}

	if err := freeSeatsOfUser(ctx, tx, roomID, userID); err != nil {
		return err
	}
	if err := recountUsers(ctx, tx, roomID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SwitchSeat меняет место самого участника. seat == nil — встать с места.
func (r *MemberRepository) SwitchSeat(ctx context.Context, roomID string, userID int64, seat *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// сериализуем смену мест внутри комнаты
	if _, err := tx.Exec(ctx, `SELECT 1 FROM rooms WHERE id=$1 FOR UPDATE`, roomID); err != nil {
		return err
	}

	var member bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM room_users WHERE room_id=$1 AND user_id=$2 AND is_active)`,
		roomID, userID).Scan(&member); err != nil {
		return err
	}
	if !member {
		return domain.ErrNotInRoom
	}

	if seat != nil {
		if err := checkSeatClaimable(ctx, tx, roomID, *seat, userID); err != nil {
			return err
		}
	}

	if err := freeSeatsOfUser(ctx, tx, roomID, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE room_users SET seat_number=$3 WHERE room_id=$1 AND user_id=$2`,
		roomID, userID, seat); err != nil {
		return err
	}
	if seat != nil {
		if err := occupySeat(ctx, tx, roomID, *seat, userID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *MemberRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.RoomUser, error) {
	rows, err := r.db.Query(ctx, `
		SELECT room_id, user_id, role, seat_number, is_mic_on, is_invited_to_mic,
		       status, is_active, message_count, joined_at
		FROM room_users
		WHERE room_id=$1 AND is_active
		ORDER BY joined_at ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.RoomUser
	for rows.Next() {
		var ru domain.RoomUser
		if err := rows.Scan(&ru.RoomID, &ru.UserID, &ru.Role, &ru.SeatNumber, &ru.IsMicOn,
			&ru.IsInvitedToMic, &ru.Status, &ru.IsActive, &ru.MessageCount, &ru.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, ru)
	}
	return list, rows.Err()
}
