package domain

import "time"

type BanDuration string

const (
	Ban1Day      BanDuration = "1_day"
	Ban7Days     BanDuration = "7_days"
	Ban30Days    BanDuration = "30_days"
	Ban1Year     BanDuration = "1_year"
	BanPermanent BanDuration = "permanent"
)

// ExpiresAt считает момент истечения бана от now. permanent → nil.
func (d BanDuration) ExpiresAt(now time.Time) (*time.Time, error) {
	var offset time.Duration
	switch d {
	case Ban1Day:
		offset = 24 * time.Hour
	case Ban7Days:
		offset = 7 * 24 * time.Hour
	case Ban30Days:
		offset = 30 * 24 * time.Hour
	case Ban1Year:
		offset = 365 * 24 * time.Hour
	case BanPermanent:
		return nil, nil
	default:
		return nil, ErrInvalidDuration
	}
	t := now.Add(offset)
	return &t, nil
}

// RoomBan остаётся авторитетным, пока его явно не сняли или не прошёл
// expires_at. Фонового свипа нет — истечение проверяется на join.
type RoomBan struct {
	ID        int64       `db:"id"`
	RoomID    string      `db:"room_id"`
	UserID    int64       `db:"user_id"`
	BannedBy  int64       `db:"banned_by"`
	Duration  BanDuration `db:"duration"`
	ExpiresAt *time.Time  `db:"expires_at"`
	Reason    *string     `db:"reason"`
	IsActive  bool        `db:"is_active"`
	LiftedBy  *int64      `db:"lifted_by"`
	LiftedAt  *time.Time  `db:"lifted_at"`
	CreatedAt time.Time   `db:"created_at"`
}
