package http

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateRoomRequest struct {
	MaxSeats   int    `json:"max_seats,omitempty"`
	Visibility string `json:"visibility,omitempty"`
}

type RoomItem struct {
	ID           string    `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	MaxSeats     int       `json:"max_seats"`
	Visibility   string    `json:"visibility"`
	IsLocked     bool      `json:"is_locked"`
	CurrentUsers int       `json:"current_users"`
	CreatedAt    time.Time `json:"created_at"`
}

type RoomsListResponse struct {
	Items      []RoomItem `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

type JoinRoomRequest struct {
	SeatNumber *int `json:"seat_number,omitempty"`
}

type MemberItem struct {
	UserID         int64     `json:"user_id"`
	Role           string    `json:"role"`
	SeatNumber     *int      `json:"seat_number,omitempty"`
	IsMicOn        bool      `json:"is_mic_on"`
	IsInvitedToMic bool      `json:"is_invited_to_mic"`
	JoinedAt       time.Time `json:"joined_at"`
}

type MembersResponse struct {
	Items []MemberItem `json:"items"`
}

type SwitchSeatRequest struct {
	SeatNumber *int `json:"seat_number"`
}

type InviteToMicRequest struct {
	TargetUserID int64 `json:"target_user_id"`
	SeatNumber   int   `json:"seat_number"`
}

type RemoveFromMicRequest struct {
	TargetUserID int64 `json:"target_user_id"`
	SeatNumber   int   `json:"seat_number"`
}

type LockMicRequest struct {
	SeatNumber int  `json:"seat_number"`
	Lock       bool `json:"lock"`
}

type MuteMicRequest struct {
	SeatNumber int  `json:"seat_number"`
	Mute       bool `json:"mute"`
}

type KickUserRequest struct {
	TargetUserID int64   `json:"target_user_id"`
	Reason       *string `json:"reason,omitempty"`
}

type BanUserRequest struct {
	TargetUserID int64   `json:"target_user_id"`
	Duration     string  `json:"duration"`
	Reason       *string `json:"reason,omitempty"`
}

type UnbanUserRequest struct {
	TargetUserID int64   `json:"target_user_id"`
	Reason       *string `json:"reason,omitempty"`
}

type ChangeMicRequest struct {
	TargetUserID int64 `json:"target_user_id"`
	FromSeat     int   `json:"from_seat"`
	ToSeat       int   `json:"to_seat"`
}

type MicSeatItem struct {
	SeatNumber   int     `json:"seat_number"`
	Status       string  `json:"status"`
	OccupantID   *int64  `json:"occupant_id,omitempty"`
	LockedBy     *int64  `json:"locked_by,omitempty"`
	IsMuted      bool    `json:"is_muted"`
	MutedBy      *int64  `json:"muted_by,omitempty"`
	InvitedUsers []int64 `json:"invited_users,omitempty"`
}

type MicStateResponse struct {
	RoomID string        `json:"room_id"`
	Seats  []MicSeatItem `json:"seats"`
}

type BanItem struct {
	UserID    int64      `json:"user_id"`
	BannedBy  int64      `json:"banned_by"`
	Duration  string     `json:"duration"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
	IsActive  bool       `json:"is_active"`
	LiftedBy  *int64     `json:"lifted_by,omitempty"`
	LiftedAt  *time.Time `json:"lifted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type BansResponse struct {
	Items []BanItem `json:"items"`
}

type EventItem struct {
	ID            int64          `json:"id"`
	ModeratorID   int64          `json:"moderator_id"`
	ModeratorName *string        `json:"moderator_name,omitempty"`
	TargetUserID  *int64         `json:"target_user_id,omitempty"`
	TargetName    *string        `json:"target_name,omitempty"`
	Action        string         `json:"action"`
	Reason        *string        `json:"reason,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type EventsResponse struct {
	Items      []EventItem `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type GrantModeratorRequest struct {
	TargetUserID        int64 `json:"target_user_id"`
	CanInviteToMic      bool  `json:"can_invite_to_mic"`
	CanRemoveFromMic    bool  `json:"can_remove_from_mic"`
	CanLockMic          bool  `json:"can_lock_mic"`
	CanMuteMic          bool  `json:"can_mute_mic"`
	CanKickUsers        bool  `json:"can_kick_users"`
	CanBanUsers         bool  `json:"can_ban_users"`
	CanMuteUsers        bool  `json:"can_mute_users"`
	CanManageModerators bool  `json:"can_manage_moderators"`
}

type ModeratorItem struct {
	UserID              int64     `json:"user_id"`
	CanInviteToMic      bool      `json:"can_invite_to_mic"`
	CanRemoveFromMic    bool      `json:"can_remove_from_mic"`
	CanLockMic          bool      `json:"can_lock_mic"`
	CanMuteMic          bool      `json:"can_mute_mic"`
	CanKickUsers        bool      `json:"can_kick_users"`
	CanBanUsers         bool      `json:"can_ban_users"`
	CanMuteUsers        bool      `json:"can_mute_users"`
	CanManageModerators bool      `json:"can_manage_moderators"`
	GrantedBy           int64     `json:"granted_by"`
	CreatedAt           time.Time `json:"created_at"`
}

type ModeratorsResponse struct {
	Items []ModeratorItem `json:"items"`
}
