package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/playverse/room-service/internal/domain"
)

func TestCreateRoom_EvenCountGetsSAPrefix(t *testing.T) {
	rooms := newFakeRooms()
	rooms.count = 0
	svc := NewRoomService(rooms, 8, 0)

	r, err := svc.CreateRoom(context.Background(), 1, 4, domain.VisibilityPublic)
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "SA1994182" {
		t.Fatalf("expected SA1994182 (floor+1), got %s", r.ID)
	}
	if r.OwnerID != 1 || r.MaxSeats != 4 {
		t.Fatalf("room fields mismatch: %+v", r)
	}
}

func TestCreateRoom_OddCountGetsMABPrefix(t *testing.T) {
	rooms := newFakeRooms()
	rooms.count = 7
	svc := NewRoomService(rooms, 8, 0)

	r, err := svc.CreateRoom(context.Background(), 1, 4, domain.VisibilityPublic)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(r.ID, "MAB") {
		t.Fatalf("odd room count must use MAB prefix, got %s", r.ID)
	}
}

func TestCreateRoom_SequenceGrowsFromMax(t *testing.T) {
	rooms := newFakeRooms()
	rooms.maxSeq["SA"] = 2000000
	svc := NewRoomService(rooms, 8, 0)

	r, err := svc.CreateRoom(context.Background(), 1, 4, domain.VisibilityPublic)
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "SA2000001" {
		t.Fatalf("expected SA2000001, got %s", r.ID)
	}
}

func TestCreateRoom_RetriesPastTakenCodes(t *testing.T) {
	rooms := newFakeRooms()
	rooms.existing["SA1994182"] = true
	rooms.existing["SA1994183"] = true
	svc := NewRoomService(rooms, 8, 0)

	r, err := svc.CreateRoom(context.Background(), 1, 4, domain.VisibilityPublic)
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "SA1994184" {
		t.Fatalf("expected first free code SA1994184, got %s", r.ID)
	}
}

func TestCreateRoom_FallsBackToTimestamp(t *testing.T) {
	rooms := newFakeRooms()
	for i := 0; i < 10; i++ {
		rooms.existing[fmt.Sprintf("SA%d", 1994182+i)] = true
	}
	svc := NewRoomService(rooms, 8, 0)

	r, err := svc.CreateRoom(context.Background(), 1, 4, domain.VisibilityPublic)
	if err != nil {
		t.Fatal(err)
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(r.ID, "SA"), 10, 64)
	if err != nil {
		t.Fatalf("fallback code is not numeric: %s", r.ID)
	}
	// timestamp в миллисекундах на порядки больше сиквенса
	if seq < 1_000_000_000_000 {
		t.Fatalf("expected timestamp fallback, got %s", r.ID)
	}
}

func TestCreateRoom_ClampsSeatsAndVisibility(t *testing.T) {
	rooms := newFakeRooms()
	svc := NewRoomService(rooms, 8, 0)

	r, err := svc.CreateRoom(context.Background(), 1, 0, domain.Visibility("weird"))
	if err != nil {
		t.Fatal(err)
	}
	if r.MaxSeats != 8 {
		t.Fatalf("zero seats must clamp to cap, got %d", r.MaxSeats)
	}
	if r.Visibility != domain.VisibilityPublic {
		t.Fatalf("unknown visibility must default to public, got %s", r.Visibility)
	}

	r, err = svc.CreateRoom(context.Background(), 1, 100, domain.VisibilityPrivate)
	if err != nil {
		t.Fatal(err)
	}
	if r.MaxSeats != 8 {
		t.Fatalf("oversized seats must clamp to cap, got %d", r.MaxSeats)
	}
	if r.Visibility != domain.VisibilityPrivate {
		t.Fatalf("private visibility must survive, got %s", r.Visibility)
	}
}

func TestDeleteRoom_OwnerOnly(t *testing.T) {
	rooms := newFakeRooms(room(1, 8))
	svc := NewRoomService(rooms, 8, 0)

	if err := svc.DeleteRoom(context.Background(), testRoom, 2); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner delete must fail, got %v", err)
	}
	if len(rooms.deleted) != 0 {
		t.Fatal("room must not be deleted by non-owner")
	}

	if err := svc.DeleteRoom(context.Background(), testRoom, 1); err != nil {
		t.Fatal(err)
	}
	if len(rooms.deleted) != 1 || rooms.deleted[0] != testRoom {
		t.Fatalf("expected room deleted, got %v", rooms.deleted)
	}
}
