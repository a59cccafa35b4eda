package service

import (
	"context"
	"errors"

	"github.com/playverse/room-service/internal/domain"
)

type RoomGetter interface {
	Get(ctx context.Context, id string) (*domain.Room, error)
}

type MemberGetter interface {
	Get(ctx context.Context, roomID string, userID int64) (*domain.RoomUser, error)
}

type GrantGetter interface {
	Get(ctx context.Context, roomID string, userID int64) (*domain.ModeratorPermissions, error)
}

type Authority struct {
	HasPermission bool
	IsOwner       bool
	IsManager     bool
	Grants        *domain.ModeratorPermissions
}

// PermissionService разрешает полномочия: владелец > менеджер > гранулярный
// грант. Ничего не кешируется — каждый вызов перечитывает комнату, членство
// и гранты: корректность важнее латентности.
type PermissionService struct {
	rooms   RoomGetter
	members MemberGetter
	grants  GrantGetter
}

func NewPermissionService(rooms RoomGetter, members MemberGetter, grants GrantGetter) *PermissionService {
	return &PermissionService{rooms: rooms, members: members, grants: grants}
}

func (s *PermissionService) Resolve(ctx context.Context, userID int64, roomID string, action domain.Action) (*Authority, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// владелец обходит все гранулярные проверки и не может быть ограничен
	if room.OwnerID == userID {
		return &Authority{HasPermission: true, IsOwner: true}, nil
	}

	var isManager bool
	member, err := s.members.Get(ctx, roomID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotInRoom) {
		return nil, err
	}
	if member != nil && member.IsActive && member.Role == domain.RoleManager {
		// менеджер — грубая супер-роль, не скоупится по действиям
		isManager = true
	}

	grants, err := s.grants.Get(ctx, roomID, userID)
	if err != nil && !errors.Is(err, domain.ErrGrantNotFound) {
		return nil, err
	}

	return &Authority{
		HasPermission: isManager || action.Granted(grants),
		IsManager:     isManager,
		Grants:        grants,
	}, nil
}
