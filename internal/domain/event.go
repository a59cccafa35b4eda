package domain

import "time"

// ModerationEvent — append-only журнал модерации. После вставки строка
// не меняется; снятие бана отражается в room_bans, а не здесь.
type ModerationEvent struct {
	ID           int64          `db:"id"`
	RoomID       string         `db:"room_id"`
	ModeratorID  int64          `db:"moderator_id"`
	TargetUserID *int64         `db:"target_user_id"`
	Action       Action         `db:"action"`
	Reason       *string        `db:"reason"`
	Metadata     map[string]any `db:"metadata"`
	ExpiresAt    *time.Time     `db:"expires_at"`
	IsActive     bool           `db:"is_active"`
	CreatedAt    time.Time      `db:"created_at"`
}
