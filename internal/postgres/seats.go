package postgres

import (
	"context"
	"errors"

	"github.com/playverse/room-service/internal/domain"

	"github.com/jackc/pgx/v5"
)

// Хелперы по местам. Все работают внутри транзакции вызывающего:
// отдельного read-then-write окна между проверкой и записью нет.

// ensureSeat лениво материализует строку room_mic_control для места.
func ensureSeat(ctx context.Context, tx pgx.Tx, roomID string, seat int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO room_mic_control (room_id, seat_number, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_id, seat_number) DO NOTHING
	`, roomID, seat, domain.SeatAvailable)
	return err
}

// checkSeatClaimable — может ли userID занять место: не занято другим
// активным участником, не locked, invited_only только по приглашению.
func checkSeatClaimable(ctx context.Context, tx pgx.Tx, roomID string, seat int, userID int64) error {
	var holder int64
	err := tx.QueryRow(ctx, `
		SELECT user_id FROM room_users
		WHERE room_id=$1 AND seat_number=$2 AND is_active AND user_id <> $3
	`, roomID, seat, userID).Scan(&holder)
	if err == nil {
		return domain.ErrSeatTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var status domain.SeatStatus
	var occupant *int64
	var invited []int64
	err = tx.QueryRow(ctx, `
		SELECT status, occupant_id, invited_users FROM room_mic_control
		WHERE room_id=$1 AND seat_number=$2
		FOR UPDATE
	`, roomID, seat).Scan(&status, &occupant, &invited)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil // строки ещё нет — место свободно
	}
	if err != nil {
		return err
	}

	switch status {
	case domain.SeatLocked:
		return domain.ErrSeatLocked
	case domain.SeatOccupied:
		if occupant == nil || *occupant != userID {
			return domain.ErrSeatTaken
		}
	case domain.SeatInvitedOnly:
		for _, id := range invited {
			if id == userID {
				return nil
			}
		}
		return domain.ErrSeatTaken
	}
	return nil
}

// firstFreeSeat сканирует места 1..maxSeats и возвращает первое незанятое.
// nil — свободных номеров нет (все заняты или заблокированы), участник
// входит без места.
func firstFreeSeat(ctx context.Context, tx pgx.Tx, roomID string, maxSeats int) (*int, error) {
	taken := make(map[int]bool, maxSeats)

	rows, err := tx.Query(ctx, `
		SELECT seat_number FROM room_users
		WHERE room_id=$1 AND is_active AND seat_number IS NOT NULL
	`, roomID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, err
		}
		taken[n] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx, `
		SELECT seat_number FROM room_mic_control
		WHERE room_id=$1 AND status <> $2
	`, roomID, domain.SeatAvailable)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, err
		}
		taken[n] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for n := 1; n <= maxSeats; n++ {
		if !taken[n] {
			return &n, nil
		}
	}
	return nil, nil
}

func occupySeat(ctx context.Context, tx pgx.Tx, roomID string, seat int, userID int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO room_mic_control (room_id, seat_number, status, occupant_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, seat_number) DO UPDATE
		SET status=$3, occupant_id=$4, updated_at=now()
	`, roomID, seat, domain.SeatOccupied, userID)
	return err
}

func freeSeat(ctx context.Context, tx pgx.Tx, roomID string, seat int) error {
	_, err := tx.Exec(ctx, `
		UPDATE room_mic_control
		SET status=$3, occupant_id=NULL, updated_at=now()
		WHERE room_id=$1 AND seat_number=$2
	`, roomID, seat, domain.SeatAvailable)
	return err
}

// freeSeatsOfUser освобождает все места, где пользователь числится occupant.
func freeSeatsOfUser(ctx context.Context, tx pgx.Tx, roomID string, userID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE room_mic_control
		SET status=$3, occupant_id=NULL, updated_at=now()
		WHERE room_id=$1 AND occupant_id=$2
	`, roomID, userID, domain.SeatAvailable)
	return err
}

// recountUsers — current_users всегда равен числу активных строк членства.
func recountUsers(ctx context.Context, tx pgx.Tx, roomID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE rooms
		SET current_users = (SELECT COUNT(*) FROM room_users WHERE room_id=$1 AND is_active),
		    updated_at = now()
		WHERE id=$1
	`, roomID)
	return err
}
