package service

import (
	"context"
	"errors"
	"time"

	"github.com/playverse/room-service/internal/broadcast"
	"github.com/playverse/room-service/internal/domain"
)

type MemberStore interface {
	Get(ctx context.Context, roomID string, userID int64) (*domain.RoomUser, error)
	Join(ctx context.Context, roomID string, userID int64, seat *int) (*domain.RoomUser, error)
	Leave(ctx context.Context, roomID string, userID int64) error
	SwitchSeat(ctx context.Context, roomID string, userID int64, seat *int) error
	ListByRoom(ctx context.Context, roomID string) ([]domain.RoomUser, error)
}

type BanChecker interface {
	Active(ctx context.Context, roomID string, userID int64) (*domain.RoomBan, error)
}

type MemberService struct {
	rooms   RoomGetter
	members MemberStore
	bans    BanChecker
	hub     broadcast.Broadcaster
}

func NewMemberService(rooms RoomGetter, members MemberStore, bans BanChecker, hub broadcast.Broadcaster) *MemberService {
	return &MemberService{rooms: rooms, members: members, bans: bans, hub: hub}
}

// JoinRoom — seat == nil значит авто-выбор первого свободного места.
// Действующий бан закрывает вход до снятия или истечения.
func (s *MemberService) JoinRoom(ctx context.Context, roomID string, userID int64, seat *int) (*domain.RoomUser, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if seat != nil && (*seat < 1 || *seat > room.MaxSeats) {
		return nil, domain.ErrInvalidSeat
	}

	if _, err := s.bans.Active(ctx, roomID, userID); err == nil {
		return nil, domain.ErrBanned
	} else if !errors.Is(err, domain.ErrBanNotFound) {
		return nil, err
	}

	ru, err := s.members.Join(ctx, roomID, userID, seat)
	if err != nil {
		return nil, err
	}

	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypePeerJoined,
		Payload: broadcast.PeerEventPayload{
			RoomID: roomID, UserID: userID,
			SeatNumber: ru.SeatNumber, TSUnix: time.Now().Unix(),
		},
	}, userID)

	return ru, nil
}

func (s *MemberService) LeaveRoom(ctx context.Context, roomID string, userID int64) error {
	if err := s.members.Leave(ctx, roomID, userID); err != nil {
		return err
	}
	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypePeerLeft,
		Payload: broadcast.PeerEventPayload{
			RoomID: roomID, UserID: userID, TSUnix: time.Now().Unix(),
		},
	}, userID)
	return nil
}

// SwitchSeat меняет место самого вызывающего; чужие места двигает
// только модерация (change-mic).
func (s *MemberService) SwitchSeat(ctx context.Context, roomID string, userID int64, seat *int) error {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if seat != nil && (*seat < 1 || *seat > room.MaxSeats) {
		return domain.ErrInvalidSeat
	}

	if err := s.members.SwitchSeat(ctx, roomID, userID, seat); err != nil {
		return err
	}

	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypeSeatSwitched,
		Payload: broadcast.PeerEventPayload{
			RoomID: roomID, UserID: userID,
			SeatNumber: seat, TSUnix: time.Now().Unix(),
		},
	}, 0)
	return nil
}

func (s *MemberService) ListMembers(ctx context.Context, roomID string) ([]domain.RoomUser, error) {
	if _, err := s.rooms.Get(ctx, roomID); err != nil {
		return nil, err
	}
	return s.members.ListByRoom(ctx, roomID)
}
