package domain

import "time"

// ModeratorPermissions — гранулярные права модератора в комнате.
// Выдаются и отзываются только владельцем или держателем can_manage_moderators.
type ModeratorPermissions struct {
	RoomID              string    `db:"room_id"`
	UserID              int64     `db:"user_id"`
	CanInviteToMic      bool      `db:"can_invite_to_mic"`
	CanRemoveFromMic    bool      `db:"can_remove_from_mic"`
	CanLockMic          bool      `db:"can_lock_mic"`
	CanMuteMic          bool      `db:"can_mute_mic"`
	CanKickUsers        bool      `db:"can_kick_users"`
	CanBanUsers         bool      `db:"can_ban_users"`
	CanMuteUsers        bool      `db:"can_mute_users"`
	CanManageModerators bool      `db:"can_manage_moderators"`
	IsActive            bool      `db:"is_active"`
	GrantedBy           int64     `db:"granted_by"`
	CreatedAt           time.Time `db:"created_at"`
}

// Action — закрытое перечисление действий модерации. Проверка грантов —
// метод на типе, а не ветвление по строкам в местах вызова.
type Action string

const (
	ActionInviteToMic      Action = "invite_to_mic"
	ActionRemoveFromMic    Action = "remove_from_mic"
	ActionLockMic          Action = "lock_mic"
	ActionMuteMic          Action = "mute_mic"
	ActionKickUser         Action = "kick_user"
	ActionBanUser          Action = "ban_user"
	ActionUnbanUser        Action = "unban_user"
	ActionMuteUser         Action = "mute_user"
	ActionManageModerators Action = "manage_moderators"
	ActionChangeMic        Action = "change_mic"

	ActionViewEvents     Action = "view_events"
	ActionViewMicControl Action = "view_mic_control"
	ActionViewBans       Action = "view_bans"
)

// Granted сообщает, покрывает ли явный грант действие. View-действия
// доступны держателю любого активного гранта: кто может действовать,
// тот видит состояние, на которое действует. change_mic гранта не имеет —
// только владелец или менеджер.
func (a Action) Granted(p *ModeratorPermissions) bool {
	if p == nil || !p.IsActive {
		return false
	}
	switch a {
	case ActionInviteToMic:
		return p.CanInviteToMic
	case ActionRemoveFromMic:
		return p.CanRemoveFromMic
	case ActionLockMic:
		return p.CanLockMic
	case ActionMuteMic:
		return p.CanMuteMic
	case ActionKickUser:
		return p.CanKickUsers
	case ActionBanUser, ActionUnbanUser:
		return p.CanBanUsers
	case ActionMuteUser:
		return p.CanMuteUsers
	case ActionManageModerators:
		return p.CanManageModerators
	case ActionViewEvents, ActionViewMicControl, ActionViewBans:
		return p.CanInviteToMic || p.CanRemoveFromMic || p.CanLockMic ||
			p.CanMuteMic || p.CanKickUsers || p.CanBanUsers ||
			p.CanMuteUsers || p.CanManageModerators
	default:
		return false
	}
}
