package service

import (
	"context"
	"fmt"
	"time"

	"github.com/playverse/room-service/internal/domain"
)

type RoomStore interface {
	Create(ctx context.Context, room *domain.Room) error
	Get(ctx context.Context, id string) (*domain.Room, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Room, string, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	MaxSequence(ctx context.Context, prefix string) (int64, error)
	CodeExists(ctx context.Context, id string) (bool, error)
}

const (
	codePrefixEven = "SA"
	codePrefixOdd  = "MAB"

	allocRetries = 10
)

type RoomService struct {
	rooms RoomStore

	maxSeatsCap int
	codeFloor   int64
}

func NewRoomService(rooms RoomStore, maxSeatsCap int, codeFloor int64) *RoomService {
	if maxSeatsCap <= 0 {
		maxSeatsCap = 8
	}
	if codeFloor <= 0 {
		codeFloor = 1994181
	}
	return &RoomService{rooms: rooms, maxSeatsCap: maxSeatsCap, codeFloor: codeFloor}
}

// CreateRoom создаёт комнату с выделенным кодом; создатель становится
// владельцем на месте 1.
func (s *RoomService) CreateRoom(ctx context.Context, ownerID int64, maxSeats int, visibility domain.Visibility) (*domain.Room, error) {
	if maxSeats <= 0 || maxSeats > s.maxSeatsCap {
		maxSeats = s.maxSeatsCap
	}
	if visibility != domain.VisibilityPrivate {
		visibility = domain.VisibilityPublic
	}

	code, err := s.allocateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate room code: %w", err)
	}

	room := &domain.Room{
		ID:         code,
		OwnerID:    ownerID,
		MaxSeats:   maxSeats,
		Visibility: visibility,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("roomRepo.Create: %w", err)
	}
	return room, nil
}

// allocateCode — префикс чередуется по чётности общего числа комнат,
// сиквенс растёт от максимума по префиксу (не ниже codeFloor). До 10
// попыток против проверки уникальности, затем код от timestamp.
func (s *RoomService) allocateCode(ctx context.Context) (string, error) {
	total, err := s.rooms.Count(ctx)
	if err != nil {
		return "", err
	}
	prefix := codePrefixEven
	if total%2 == 1 {
		prefix = codePrefixOdd
	}

	seq, err := s.rooms.MaxSequence(ctx, prefix)
	if err != nil {
		return "", err
	}
	if seq < s.codeFloor {
		seq = s.codeFloor
	}

	for attempt := 0; attempt < allocRetries; attempt++ {
		code := fmt.Sprintf("%s%d", prefix, seq+1+int64(attempt))
		exists, err := s.rooms.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return fmt.Sprintf("%s%d", prefix, time.Now().UnixMilli()), nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	return s.rooms.Get(ctx, id)
}

func (s *RoomService) ListRooms(ctx context.Context, limit int, cursor string) ([]domain.Room, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return s.rooms.List(ctx, limit, cursor)
}

// DeleteRoom — только владелец.
func (s *RoomService) DeleteRoom(ctx context.Context, id string, callerID int64) error {
	room, err := s.rooms.Get(ctx, id)
	if err != nil {
		return err
	}
	if room.OwnerID != callerID {
		return domain.ErrForbidden
	}
	return s.rooms.Delete(ctx, id)
}
