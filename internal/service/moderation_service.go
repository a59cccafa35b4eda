package service

import (
	"context"
	"time"

	"github.com/playverse/room-service/internal/broadcast"
	"github.com/playverse/room-service/internal/domain"
	"github.com/playverse/room-service/internal/postgres"
)

type ModerationStore interface {
	InviteToMic(ctx context.Context, roomID string, moderatorID, targetID int64, seat int) error
	RemoveFromMic(ctx context.Context, roomID string, moderatorID, targetID int64, seat int) error
	SetLock(ctx context.Context, roomID string, moderatorID int64, seat int, lock bool) error
	SetMute(ctx context.Context, roomID string, moderatorID int64, seat int, mute bool) error
	Kick(ctx context.Context, roomID string, moderatorID, targetID int64, reason *string) error
	Ban(ctx context.Context, roomID string, moderatorID, targetID int64, duration domain.BanDuration, expiresAt *time.Time, reason *string) error
	Unban(ctx context.Context, roomID string, moderatorID, targetID int64, reason *string) error
	ChangeMic(ctx context.Context, roomID string, moderatorID, targetID int64, fromSeat, toSeat int) error
	MicState(ctx context.Context, roomID string) ([]domain.MicSeat, error)
}

type GrantStore interface {
	Grant(ctx context.Context, p *domain.ModeratorPermissions) error
	Revoke(ctx context.Context, roomID string, userID, revokedBy int64) error
	ListByRoom(ctx context.Context, roomID string) ([]domain.ModeratorPermissions, error)
}

type EventLister interface {
	List(ctx context.Context, roomID string, limit int, cursor string) ([]postgres.EventDetailedRow, string, error)
}

type BanLister interface {
	ListByRoom(ctx context.Context, roomID string) ([]domain.RoomBan, error)
}

// ModerationService — оркестрация действия модерации: авторизация,
// транзакционная мутация с журналом, рассылка. Ошибка рассылки никогда
// не валит ответ — persisted-результат уже зафиксирован.
type ModerationService struct {
	perms  *PermissionService
	rooms  RoomGetter
	store  ModerationStore
	grants GrantStore
	events EventLister
	bans   BanLister
	hub    broadcast.Broadcaster
}

func NewModerationService(
	perms *PermissionService,
	rooms RoomGetter,
	store ModerationStore,
	grants GrantStore,
	events EventLister,
	bans BanLister,
	hub broadcast.Broadcaster,
) *ModerationService {
	return &ModerationService{
		perms:  perms,
		rooms:  rooms,
		store:  store,
		grants: grants,
		events: events,
		bans:   bans,
		hub:    hub,
	}
}

func (s *ModerationService) authorize(ctx context.Context, roomID string, userID int64, action domain.Action) (*domain.Room, error) {
	auth, err := s.perms.Resolve(ctx, userID, roomID, action)
	if err != nil {
		return nil, err
	}
	if !auth.HasPermission {
		return nil, domain.ErrForbidden
	}
	return s.rooms.Get(ctx, roomID)
}

func checkSeatBounds(room *domain.Room, seats ...int) error {
	for _, n := range seats {
		if n < 1 || n > room.MaxSeats {
			return domain.ErrInvalidSeat
		}
	}
	return nil
}

func (s *ModerationService) InviteToMic(ctx context.Context, roomID string, moderatorID, targetID int64, seat int) error {
	room, err := s.authorize(ctx, roomID, moderatorID, domain.ActionInviteToMic)
	if err != nil {
		return err
	}
	if err := checkSeatBounds(room, seat); err != nil {
		return err
	}
	if err := s.store.InviteToMic(ctx, roomID, moderatorID, targetID, seat); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeMicInvited,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: moderatorID,
			TargetUserID: &targetID, SeatNumber: &seat,
			TSUnix: time.Now().Unix(),
		},
	}, 0)
	return nil
}

func (s *ModerationService) RemoveFromMic(ctx context.Context, roomID string, moderatorID, targetID int64, seat int) error {
	room, err := s.authorize(ctx, roomID, moderatorID, domain.ActionRemoveFromMic)
	if err != nil {
		return err
	}
	if err := checkSeatBounds(room, seat); err != nil {
		return err
	}
	if err := s.store.RemoveFromMic(ctx, roomID, moderatorID, targetID, seat); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeMicRemoved,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: moderatorID,
			TargetUserID: &targetID, SeatNumber: &seat,
			TSUnix: time.Now().Unix(),
		},
	}, 0)
	return nil
}

func (s *ModerationService) SetMicLock(ctx context.Context, roomID string, moderatorID int64, seat int, lock bool) error {
	room, err := s.authorize(ctx, roomID, moderatorID, domain.ActionLockMic)
	if err != nil {
		return err
	}
	if err := checkSeatBounds(room, seat); err != nil {
		return err
	}
	if err := s.store.SetLock(ctx, roomID, moderatorID, seat, lock); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeMicLocked,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: moderatorID,
			SeatNumber: &seat, Lock: &lock,
			TSUnix: time.Now().Unix(),
		},
	}, 0)
	return nil
}

func (s *ModerationService) SetMicMute(ctx context.Context, roomID string, moderatorID int64, seat int, mute bool) error {
	room, err := s.authorize(ctx, roomID, moderatorID, domain.ActionMuteMic)
	if err != nil {
		return err
	}
	if err := checkSeatBounds(room, seat); err != nil {
		return err
	}
	if err := s.store.SetMute(ctx, roomID, moderatorID, seat, mute); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeMicMuted,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: moderatorID,
			SeatNumber: &seat, Mute: &mute,
			TSUnix: time.Now().Unix(),
		},
	}, 0)
	return nil
}

func (s *ModerationService) KickUser(ctx context.Context, roomID string, moderatorID, targetID int64, reason *string) error {
	room, err := s.authorize(ctx, roomID, moderatorID, domain.ActionKickUser)
	if err != nil {
		return err
	}
	if room.OwnerID == targetID {
		return domain.ErrOwnerImmune
	}
	if err := s.store.Kick(ctx, roomID, moderatorID, targetID, reason); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeUserKicked,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: moderatorID,
			TargetUserID: &targetID, Reason: strOrEmpty(reason),
			TSUnix: time.Now().Unix(),
		},
	}, 0)
	s.hub.ForceDisconnect(roomID, targetID, "kicked")
	return nil
}

func (s *ModerationService) BanUser(ctx context.Context, roomID string, moderatorID, targetID int64, duration domain.BanDuration, reason *string) error {
	room, err := s.authorize(ctx, roomID, moderatorID, domain.ActionBanUser)
	if err != nil {
		return err
	}
	if room.OwnerID == targetID {
		return domain.ErrOwnerImmune
	}
	expiresAt, err := duration.ExpiresAt(time.Now())
	if err != nil {
		return err
	}
	if err := s.store.Ban(ctx, roomID, moderatorID, targetID, duration, expiresAt, reason); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeUserBanned,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: moderatorID,
			TargetUserID: &targetID, Duration: string(duration),
			Reason: strOrEmpty(reason), TSUnix: time.Now().Unix(),
		},
	}, 0)
	s.hub.ForceDisconnect(roomID, targetID, "banned")
	return nil
}

func (s *ModerationService) UnbanUser(ctx context.Context, roomID string, moderatorID, targetID int64, reason *string) error {
	if _, err := s.authorize(ctx, roomID, moderatorID, domain.ActionUnbanUser); err != nil {
		return err
	}
	if err := s.store.Unban(ctx, roomID, moderatorID, targetID, reason); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeUserUnbanned,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: moderatorID,
			TargetUserID: &targetID, TSUnix: time.Now().Unix(),
		},
	}, 0)
	return nil
}

func (s *ModerationService) ChangeMic(ctx context.Context, roomID string, moderatorID, targetID int64, fromSeat, toSeat int) error {
	room, err := s.authorize(ctx, roomID, moderatorID, domain.ActionChangeMic)
	if err != nil {
		return err
	}
	if err := checkSeatBounds(room, fromSeat, toSeat); err != nil {
		return err
	}
	if err := s.store.ChangeMic(ctx, roomID, moderatorID, targetID, fromSeat, toSeat); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeMicChanged,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: moderatorID,
			TargetUserID: &targetID, FromSeat: &fromSeat, ToSeat: &toSeat,
			TSUnix: time.Now().Unix(),
		},
	}, 0)
	return nil
}

func (s *ModerationService) MicState(ctx context.Context, roomID string, callerID int64) ([]domain.MicSeat, error) {
	if _, err := s.authorize(ctx, roomID, callerID, domain.ActionViewMicControl); err != nil {
		return nil, err
	}
	return s.store.MicState(ctx, roomID)
}

func (s *ModerationService) ListEvents(ctx context.Context, roomID string, callerID int64, limit int, cursor string) ([]postgres.EventDetailedRow, string, error) {
	if _, err := s.authorize(ctx, roomID, callerID, domain.ActionViewEvents); err != nil {
		return nil, "", err
	}
	return s.events.List(ctx, roomID, limit, cursor)
}

func (s *ModerationService) ListBans(ctx context.Context, roomID string, callerID int64) ([]domain.RoomBan, error) {
	if _, err := s.authorize(ctx, roomID, callerID, domain.ActionViewBans); err != nil {
		return nil, err
	}
	return s.bans.ListByRoom(ctx, roomID)
}

func (s *ModerationService) GrantModerator(ctx context.Context, roomID string, grantedBy int64, p *domain.ModeratorPermissions) error {
	room, err := s.authorize(ctx, roomID, grantedBy, domain.ActionManageModerators)
	if err != nil {
		return err
	}
	if room.OwnerID == p.UserID {
		// владельцу гранты не нужны и не выдаются
		return domain.ErrOwnerImmune
	}
	p.RoomID = roomID
	p.GrantedBy = grantedBy
	if err := s.grants.Grant(ctx, p); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeModeratorGrant,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: grantedBy,
			TargetUserID: &p.UserID, TSUnix: time.Now().Unix(),
		},
	}, 0)
	return nil
}

func (s *ModerationService) RevokeModerator(ctx context.Context, roomID string, revokedBy, targetID int64) error {
	if _, err := s.authorize(ctx, roomID, revokedBy, domain.ActionManageModerators); err != nil {
		return err
	}
	if err := s.grants.Revoke(ctx, roomID, targetID, revokedBy); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeModeratorRevoke,
		Payload: broadcast.ModerationPayload{
			RoomID: roomID, ModeratorID: revokedBy,
			TargetUserID: &targetID, TSUnix: time.Now().Unix(),
		},
	}, 0)
	return nil
}

func (s *ModerationService) ListModerators(ctx context.Context, roomID string, callerID int64) ([]domain.ModeratorPermissions, error) {
	if _, err := s.authorize(ctx, roomID, callerID, domain.ActionManageModerators); err != nil {
		return nil, err
	}
	return s.grants.ListByRoom(ctx, roomID)
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
