package domain

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

type MemberStatus string

const (
	MemberActive MemberStatus = "active"
	MemberKicked MemberStatus = "kicked"
	MemberBanned MemberStatus = "banned"
)

type Room struct {
	ID           string     `db:"id"`
	OwnerID      int64      `db:"owner_id"`
	MaxSeats     int        `db:"max_seats"`
	Visibility   Visibility `db:"visibility"`
	IsLocked     bool       `db:"is_locked"`
	CurrentUsers int        `db:"current_users"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// RoomUser — строка членства. SeatNumber == nil значит «в комнате, но без места».
// rooms.current_users считает только строки с is_active = true.
type RoomUser struct {
	RoomID         string       `db:"room_id"`
	UserID         int64        `db:"user_id"`
	Role           Role         `db:"role"`
	SeatNumber     *int         `db:"seat_number"`
	IsMicOn        bool         `db:"is_mic_on"`
	IsInvitedToMic bool         `db:"is_invited_to_mic"`
	Status         MemberStatus `db:"status"`
	IsActive       bool         `db:"is_active"`
	MessageCount   int64        `db:"message_count"`
	JoinedAt       time.Time    `db:"joined_at"`
}
