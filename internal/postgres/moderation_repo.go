package postgres

import (
	"context"
	"time"

	"github.com/playverse/room-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModerationRepository — по одной транзакции на действие модерации.
// Запись в журнал (room_moderation_events) идёт в той же транзакции:
// журнал — требование комплаенса, его ошибка откатывает мутацию.
type ModerationRepository struct {
	db *pgxpool.Pool
}

func NewModerationRepository(db *pgxpool.Pool) *ModerationRepository {
	return &ModerationRepository{db: db}
}

func (r *ModerationRepository) InviteToMic(ctx context.Context, roomID string, moderatorID, targetID int64, seat int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := ensureSeat(ctx, tx, roomID, seat); err != nil {
		return err
	}

	var status domain.SeatStatus
	var occupant *int64
	if err := tx.QueryRow(ctx, `
		SELECT status, occupant_id FROM room_mic_control
		WHERE room_id=$1 AND seat_number=$2
		FOR UPDATE
	`, roomID, seat).Scan(&status, &occupant); err != nil {
		return err
	}
	switch status {
	case domain.SeatLocked:
		return domain.ErrSeatLocked
	case domain.SeatOccupied:
		if occupant == nil || *occupant != targetID {
			return domain.ErrSeatTaken
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE room_mic_control
		SET status=$3,
		    invited_users = CASE WHEN $4 = ANY(invited_users)
		                         THEN invited_users
		                         ELSE array_append(invited_users, $4) END,
		    updated_at = now()
		WHERE room_id=$1 AND seat_number=$2
	`, roomID, seat, domain.SeatInvitedOnly, targetID); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `
		UPDATE room_users SET is_invited_to_mic=true
		WHERE room_id=$1 AND user_id=$2 AND is_active
	`, roomID, targetID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:       roomID,
		ModeratorID:  moderatorID,
		TargetUserID: &targetID,
		Action:       domain.ActionInviteToMic,
		Metadata:     map[string]any{"seat_number": seat},
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ModerationRepository) RemoveFromMic(ctx context.Context, roomID string, moderatorID, targetID int64, seat int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE room_users
		SET is_mic_on=false, is_invited_to_mic=false,
		    seat_number = CASE WHEN seat_number=$3 THEN NULL ELSE seat_number END
		WHERE room_id=$1 AND user_id=$2 AND is_active
	`, roomID, targetID, seat)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}

	if _, err := tx.Exec(ctx, `
		UPDATE room_mic_control
		SET status=$3, occupant_id=NULL,
		    invited_users = array_remove(invited_users, $4),
		    updated_at = now()
		WHERE room_id=$1 AND seat_number=$2
	`, roomID, seat, domain.SeatAvailable, targetID); err != nil {
		return err
	}

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:       roomID,
		ModeratorID:  moderatorID,
		TargetUserID: &targetID,
		Action:       domain.ActionRemoveFromMic,
		Metadata:     map[string]any{"seat_number": seat},
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetLock идемпотентен: блокировка уже заблокированного места лишь
// переписывает держателя блокировки.
func (r *ModerationRepository) SetLock(ctx context.Context, roomID string, moderatorID int64, seat int, lock bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if lock {
		if _, err := tx.Exec(ctx, `
			INSERT INTO room_mic_control (room_id, seat_number, status, locked_by)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (room_id, seat_number) DO UPDATE
			SET status=$3, locked_by=$4, occupant_id=NULL, updated_at=now()
		`, roomID, seat, domain.SeatLocked, moderatorID); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
			INSERT INTO room_mic_control (room_id, seat_number, status)
			VALUES ($1, $2, $3)
			ON CONFLICT (room_id, seat_number) DO UPDATE
			SET status=$3, locked_by=NULL, updated_at=now()
		`, roomID, seat, domain.SeatAvailable); err != nil {
			return err
		}
	}

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:      roomID,
		ModeratorID: moderatorID,
		Action:      domain.ActionLockMic,
		Metadata:    map[string]any{"seat_number": seat, "lock": lock},
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetMute не зависит от занятости — пустое место тоже можно замьютить.
func (r *ModerationRepository) SetMute(ctx context.Context, roomID string, moderatorID int64, seat int, mute bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var mutedBy *int64
	if mute {
		mutedBy = &moderatorID
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO room_mic_control (room_id, seat_number, status, is_muted, muted_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (room_id, seat_number) DO UPDATE
		SET is_muted=$4, muted_by=$5, updated_at=now()
	`, roomID, seat, domain.SeatAvailable, mute, mutedBy); err != nil {
		return err
	}

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:      roomID,
		ModeratorID: moderatorID,
		Action:      domain.ActionMuteMic,
		Metadata:    map[string]any{"seat_number": seat, "mute": mute},
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Kick не создаёт бан — кикнутый может зайти снова.
func (r *ModerationRepository) Kick(ctx context.Context, roomID string, moderatorID, targetID int64, reason *string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := deactivateMember(ctx, tx, roomID, targetID, domain.MemberKicked); err != nil {
		return err
	}

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:       roomID,
		ModeratorID:  moderatorID,
		TargetUserID: &targetID,
		Action:       domain.ActionKickUser,
		Reason:       reason,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ModerationRepository) Ban(ctx context.Context, roomID string, moderatorID, targetID int64, duration domain.BanDuration, expiresAt *time.Time, reason *string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := deactivateMember(ctx, tx, roomID, targetID, domain.MemberBanned); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO room_bans (room_id, user_id, banned_by, duration, expires_at, reason, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
	`, roomID, targetID, moderatorID, duration, expiresAt, reason); err != nil {
		return err
	}

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:       roomID,
		ModeratorID:  moderatorID,
		TargetUserID: &targetID,
		Action:       domain.ActionBanUser,
		Reason:       reason,
		Metadata:     map[string]any{"duration": string(duration)},
		ExpiresAt:    expiresAt,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ModerationRepository) Unban(ctx context.Context, roomID string, moderatorID, targetID int64, reason *string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE room_bans
		SET is_active=false, lifted_by=$3, lifted_at=now()
		WHERE room_id=$1 AND user_id=$2 AND is_active
	`, roomID, targetID, moderatorID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBanNotFound
	}

	// членство остаётся деактивированным — пользователь заходит заново сам
	if _, err := tx.Exec(ctx, `
		UPDATE room_users SET status=$3
		WHERE room_id=$1 AND user_id=$2 AND status=$4
	`, roomID, targetID, domain.MemberKicked, domain.MemberBanned); err != nil {
		return err
	}

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:       roomID,
		ModeratorID:  moderatorID,
		TargetUserID: &targetID,
		Action:       domain.ActionUnbanUser,
		Reason:       reason,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ModerationRepository) ChangeMic(ctx context.Context, roomID string, moderatorID, targetID int64, fromSeat, toSeat int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := ensureSeat(ctx, tx, roomID, toSeat); err != nil {
		return err
	}

	var status domain.SeatStatus
	var occupant *int64
	if err := tx.QueryRow(ctx, `
		SELECT status, occupant_id FROM room_mic_control
		WHERE room_id=$1 AND seat_number=$2
		FOR UPDATE
	`, roomID, toSeat).Scan(&status, &occupant); err != nil {
		return err
	}
	if status == domain.SeatOccupied && (occupant == nil || *occupant != targetID) {
		return domain.ErrSeatTaken
	}
	if status == domain.SeatLocked {
		return domain.ErrSeatLocked
	}

	if err := freeSeat(ctx, tx, roomID, fromSeat); err != nil {
		return err
	}
	if err := occupySeat(ctx, tx, roomID, toSeat, targetID); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `
		UPDATE room_users SET seat_number=$3
		WHERE room_id=$1 AND user_id=$2 AND is_active
	`, roomID, targetID, toSeat)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:       roomID,
		ModeratorID:  moderatorID,
		TargetUserID: &targetID,
		Action:       domain.ActionChangeMic,
		Metadata:     map[string]any{"from_seat": fromSeat, "to_seat": toSeat},
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ModerationRepository) MicState(ctx context.Context, roomID string) ([]domain.MicSeat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT room_id, seat_number, status, occupant_id, locked_by,
		       is_muted, muted_by, invited_users, updated_at
		FROM room_mic_control
		WHERE room_id=$1
		ORDER BY seat_number ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []domain.MicSeat
	for rows.Next() {
		var s domain.MicSeat
		if err := rows.Scan(&s.RoomID, &s.SeatNumber, &s.Status, &s.OccupantID,
			&s.LockedBy, &s.IsMuted, &s.MutedBy, &s.InvitedUsers, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// deactivateMember — общий путь kick/ban: строка членства гаснет,
// микрофон выключается, занятые места освобождаются.
func deactivateMember(ctx context.Context, tx pgx.Tx, roomID string, targetID int64, status domain.MemberStatus) error {
	cmd, err := tx.Exec(ctx, `
		UPDATE room_users
		SET status=$3, is_active=false, is_mic_on=false, is_invited_to_mic=false, seat_number=NULL
		WHERE room_id=$1 AND user_id=$2 AND is_active
	`, roomID, targetID, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}
	if err := freeSeatsOfUser(ctx, tx, roomID, targetID); err != nil {
		return err
	}
	return recountUsers(ctx, tx, roomID)
}
