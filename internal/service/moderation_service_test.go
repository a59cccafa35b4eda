package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playverse/room-service/internal/broadcast"
	"github.com/playverse/room-service/internal/domain"
)

type modFixture struct {
	svc    *ModerationService
	store  *fakeModStore
	grants *fakeGrants
	caster *fakeCaster
}

// владелец — user 1; user 3 держит все гранты; user 99 — посторонний
func newModFixture(maxSeats int) *modFixture {
	rooms := newFakeRooms(room(1, maxSeats))
	member := &domain.RoomUser{
		RoomID: testRoom, UserID: 3, Role: domain.RoleMember,
		Status: domain.MemberActive, IsActive: true,
	}
	members := newFakeMembers(member)
	grants := newFakeGrants(&domain.ModeratorPermissions{
		RoomID: testRoom, UserID: 3,
		CanInviteToMic: true, CanRemoveFromMic: true, CanLockMic: true,
		CanMuteMic: true, CanKickUsers: true, CanBanUsers: true,
		CanMuteUsers: true, CanManageModerators: true, IsActive: true,
	})

	store := &fakeModStore{}
	caster := &fakeCaster{}
	perms := NewPermissionService(rooms, members, grants)
	svc := NewModerationService(perms, rooms, store, grants, &fakeEvents{}, newFakeBans(), caster)

	return &modFixture{svc: svc, store: store, grants: grants, caster: caster}
}

func TestModeration_StrangerForbidden(t *testing.T) {
	f := newModFixture(8)
	ctx := context.Background()

	if err := f.svc.InviteToMic(ctx, testRoom, 99, 5, 2); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(f.store.invites) != 0 {
		t.Fatal("store must not be touched on authorization failure")
	}
	if len(f.caster.msgs) != 0 {
		t.Fatal("nothing should be broadcast on authorization failure")
	}
}

func TestKickUser_OwnerImmune(t *testing.T) {
	f := newModFixture(8)

	if err := f.svc.KickUser(context.Background(), testRoom, 3, 1, nil); !errors.Is(err, domain.ErrOwnerImmune) {
		t.Fatalf("expected ErrOwnerImmune, got %v", err)
	}
	if len(f.store.kicks) != 0 {
		t.Fatal("owner kick must not reach the store")
	}
}

func TestBanUser_OwnerImmune(t *testing.T) {
	f := newModFixture(8)

	if err := f.svc.BanUser(context.Background(), testRoom, 3, 1, domain.Ban1Day, nil); !errors.Is(err, domain.ErrOwnerImmune) {
		t.Fatalf("expected ErrOwnerImmune, got %v", err)
	}
}

func TestKickUser_DisconnectsTarget(t *testing.T) {
	f := newModFixture(8)

	if err := f.svc.KickUser(context.Background(), testRoom, 3, 5, nil); err != nil {
		t.Fatal(err)
	}
	if len(f.store.kicks) != 1 || f.store.kicks[0] != 5 {
		t.Fatalf("kick not recorded: %v", f.store.kicks)
	}
	if f.caster.lastType() != broadcast.TypeUserKicked {
		t.Fatalf("expected user_kicked, got %q", f.caster.lastType())
	}
	if len(f.caster.disconnects) != 1 {
		t.Fatal("target must be force-disconnected")
	}
	d := f.caster.disconnects[0]
	if d.userID != 5 || d.reason != "kicked" {
		t.Fatalf("disconnect mismatch: %+v", d)
	}
}

func TestBanUser_ComputesExpiry(t *testing.T) {
	f := newModFixture(8)
	before := time.Now()

	if err := f.svc.BanUser(context.Background(), testRoom, 3, 5, domain.Ban7Days, nil); err != nil {
		t.Fatal(err)
	}
	if len(f.store.bans) != 1 {
		t.Fatalf("ban not recorded: %v", f.store.bans)
	}
	b := f.store.bans[0]
	if b.target != 5 || b.duration != domain.Ban7Days {
		t.Fatalf("ban call mismatch: %+v", b)
	}
	if b.expiresAt == nil {
		t.Fatal("7-day ban must have an expiry")
	}
	want := before.Add(7 * 24 * time.Hour)
	if b.expiresAt.Before(want) || b.expiresAt.After(want.Add(time.Minute)) {
		t.Fatalf("expiry out of range: %v", b.expiresAt)
	}
	if len(f.caster.disconnects) != 1 || f.caster.disconnects[0].reason != "banned" {
		t.Fatalf("expected banned disconnect, got %+v", f.caster.disconnects)
	}
}

func TestBanUser_PermanentHasNoExpiry(t *testing.T) {
	f := newModFixture(8)

	if err := f.svc.BanUser(context.Background(), testRoom, 3, 5, domain.BanPermanent, nil); err != nil {
		t.Fatal(err)
	}
	if f.store.bans[0].expiresAt != nil {
		t.Fatalf("permanent ban must not expire, got %v", f.store.bans[0].expiresAt)
	}
}

func TestBanUser_InvalidDuration(t *testing.T) {
	f := newModFixture(8)

	err := f.svc.BanUser(context.Background(), testRoom, 3, 5, domain.BanDuration("forever"), nil)
	if !errors.Is(err, domain.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if len(f.store.bans) != 0 {
		t.Fatal("invalid duration must not reach the store")
	}
}

func TestInviteToMic_SeatBounds(t *testing.T) {
	f := newModFixture(4)

	if err := f.svc.InviteToMic(context.Background(), testRoom, 3, 5, 9); !errors.Is(err, domain.ErrInvalidSeat) {
		t.Fatalf("expected ErrInvalidSeat, got %v", err)
	}

	if err := f.svc.InviteToMic(context.Background(), testRoom, 3, 5, 2); err != nil {
		t.Fatal(err)
	}
	if f.caster.lastType() != broadcast.TypeMicInvited {
		t.Fatalf("expected mic_invited, got %q", f.caster.lastType())
	}
}

func TestChangeMic_GrantNeverCoversIt(t *testing.T) {
	f := newModFixture(8)
	ctx := context.Background()

	// user 3 держит все гранты, но change_mic грантом не открывается
	if err := f.svc.ChangeMic(ctx, testRoom, 3, 5, 2, 4); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for grant holder, got %v", err)
	}

	// владелец может
	if err := f.svc.ChangeMic(ctx, testRoom, 1, 5, 2, 4); err != nil {
		t.Fatal(err)
	}
	if len(f.store.micChanges) != 1 || f.store.micChanges[0] != [2]int{2, 4} {
		t.Fatalf("mic change mismatch: %v", f.store.micChanges)
	}
}

func TestSetMicLock_Broadcasts(t *testing.T) {
	f := newModFixture(8)

	if err := f.svc.SetMicLock(context.Background(), testRoom, 3, 2, true); err != nil {
		t.Fatal(err)
	}
	if f.caster.lastType() != broadcast.TypeMicLocked {
		t.Fatalf("expected mic_locked, got %q", f.caster.lastType())
	}
	if len(f.store.locks) != 1 || !f.store.locks[0] {
		t.Fatalf("lock not recorded: %v", f.store.locks)
	}
}

func TestGrantModerator_OwnerCannotBeGranted(t *testing.T) {
	f := newModFixture(8)

	p := &domain.ModeratorPermissions{UserID: 1, CanKickUsers: true, IsActive: true}
	if err := f.svc.GrantModerator(context.Background(), testRoom, 3, p); !errors.Is(err, domain.ErrOwnerImmune) {
		t.Fatalf("expected ErrOwnerImmune, got %v", err)
	}
}

func TestGrantModerator_StampsRoomAndGrantor(t *testing.T) {
	f := newModFixture(8)

	p := &domain.ModeratorPermissions{UserID: 7, CanMuteMic: true, IsActive: true}
	if err := f.svc.GrantModerator(context.Background(), testRoom, 1, p); err != nil {
		t.Fatal(err)
	}
	if p.RoomID != testRoom || p.GrantedBy != 1 {
		t.Fatalf("grant not stamped: %+v", p)
	}
	if f.caster.lastType() != broadcast.TypeModeratorGrant {
		t.Fatalf("expected moderator_granted, got %q", f.caster.lastType())
	}
}

func TestRevokeModerator_Broadcasts(t *testing.T) {
	f := newModFixture(8)

	if err := f.svc.RevokeModerator(context.Background(), testRoom, 1, 3); err != nil {
		t.Fatal(err)
	}
	if len(f.grants.revoked) != 1 || f.grants.revoked[0] != 3 {
		t.Fatalf("revoke not recorded: %v", f.grants.revoked)
	}
	if f.caster.lastType() != broadcast.TypeModeratorRevoke {
		t.Fatalf("expected moderator_revoked, got %q", f.caster.lastType())
	}
}

func TestMicState_RequiresViewAccess(t *testing.T) {
	f := newModFixture(8)
	f.store.seats = []domain.MicSeat{{RoomID: testRoom, SeatNumber: 1, Status: domain.SeatOccupied}}
	ctx := context.Background()

	if _, err := f.svc.MicState(ctx, testRoom, 99); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger must not read mic state, got %v", err)
	}

	seats, err := f.svc.MicState(ctx, testRoom, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(seats) != 1 {
		t.Fatalf("expected seats, got %v", seats)
	}
}

func TestListEvents_RequiresViewAccess(t *testing.T) {
	f := newModFixture(8)
	ctx := context.Background()

	if _, _, err := f.svc.ListEvents(ctx, testRoom, 99, 10, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger must not read the journal, got %v", err)
	}
	if _, _, err := f.svc.ListEvents(ctx, testRoom, 1, 10, ""); err != nil {
		t.Fatalf("owner must read the journal, got %v", err)
	}
}
