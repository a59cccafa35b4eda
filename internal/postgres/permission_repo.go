package postgres

import (
	"context"
	"errors"

	"github.com/playverse/room-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PermissionRepository struct {
	db *pgxpool.Pool
}

func NewPermissionRepository(db *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Get(ctx context.Context, roomID string, userID int64) (*domain.ModeratorPermissions, error) {
	var p domain.ModeratorPermissions
	err := r.db.QueryRow(ctx, `
		SELECT room_id, user_id, can_invite_to_mic, can_remove_from_mic, can_lock_mic,
		       can_mute_mic, can_kick_users, can_ban_users, can_mute_users,
		       can_manage_moderators, is_active, granted_by, created_at
		FROM room_moderator_permissions
		WHERE room_id=$1 AND user_id=$2 AND is_active
	`, roomID, userID).Scan(
		&p.RoomID, &p.UserID, &p.CanInviteToMic, &p.CanRemoveFromMic, &p.CanLockMic,
		&p.CanMuteMic, &p.CanKickUsers, &p.CanBanUsers, &p.CanMuteUsers,
		&p.CanManageModerators, &p.IsActive, &p.GrantedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGrantNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Grant — upsert гранта вместе с записью в журнал, одной транзакцией.
func (r *PermissionRepository) Grant(ctx context.Context, p *domain.ModeratorPermissions) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO room_moderator_permissions
			(room_id, user_id, can_invite_to_mic, can_remove_from_mic, can_lock_mic,
			 can_mute_mic, can_kick_users, can_ban_users, can_mute_users,
			 can_manage_moderators, is_active, granted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true, $11)
		ON CONFLICT (room_id, user_id) DO UPDATE
		SET can_invite_to_mic=$3, can_remove_from_mic=$4, can_lock_mic=$5,
		    can_mute_mic=$6, can_kick_users=$7, can_ban_users=$8, can_mute_users=$9,
		    can_manage_moderators=$10, is_active=true, granted_by=$11
		RETURNING created_at
	`, p.RoomID, p.UserID, p.CanInviteToMic, p.CanRemoveFromMic, p.CanLockMic,
		p.CanMuteMic, p.CanKickUsers, p.CanBanUsers, p.CanMuteUsers,
		p.CanManageModerators, p.GrantedBy).Scan(&p.CreatedAt)
	if err != nil {
		return err
	}
	p.IsActive = true

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:       p.RoomID,
		ModeratorID:  p.GrantedBy,
		TargetUserID: &p.UserID,
		Action:       domain.ActionManageModerators,
		Metadata:     map[string]any{"op": "grant"},
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PermissionRepository) Revoke(ctx context.Context, roomID string, userID, revokedBy int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE room_moderator_permissions SET is_active=false
		WHERE room_id=$1 AND user_id=$2 AND is_active
	`, roomID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrGrantNotFound
	}

	if err := insertEvent(ctx, tx, &domain.ModerationEvent{
		RoomID:       roomID,
		ModeratorID:  revokedBy,
		TargetUserID: &userID,
		Action:       domain.ActionManageModerators,
		Metadata:     map[string]any{"op": "revoke"},
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PermissionRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.ModeratorPermissions, error) {
	rows, err := r.db.Query(ctx, `
		SELECT room_id, user_id, can_invite_to_mic, can_remove_from_mic, can_lock_mic,
		       can_mute_mic, can_kick_users, can_ban_users, can_mute_users,
		       can_manage_moderators, is_active, granted_by, created_at
		FROM room_moderator_permissions
		WHERE room_id=$1 AND is_active
		ORDER BY created_at ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.ModeratorPermissions
	for rows.Next() {
		var p domain.ModeratorPermissions
		if err := rows.Scan(&p.RoomID, &p.UserID, &p.CanInviteToMic, &p.CanRemoveFromMic,
			&p.CanLockMic, &p.CanMuteMic, &p.CanKickUsers, &p.CanBanUsers, &p.CanMuteUsers,
			&p.CanManageModerators, &p.IsActive, &p.GrantedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
