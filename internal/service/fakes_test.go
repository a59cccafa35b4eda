package service

import (
	"context"
	"time"

	"github.com/playverse/room-service/internal/broadcast"
	"github.com/playverse/room-service/internal/domain"
	"github.com/playverse/room-service/internal/postgres"
)

// Фейки покрывают узкие интерфейсы сервисного слоя. Состояние — простые
// карты, без конкуренции: сервисы тестируются последовательно.

type fakeRooms struct {
	rooms map[string]*domain.Room

	count    int64
	maxSeq   map[string]int64
	existing map[string]bool

	created []*domain.Room
	deleted []string
}

func newFakeRooms(rooms ...*domain.Room) *fakeRooms {
	f := &fakeRooms{
		rooms:    make(map[string]*domain.Room),
		maxSeq:   make(map[string]int64),
		existing: make(map[string]bool),
	}
	for _, r := range rooms {
		f.rooms[r.ID] = r
	}
	return f
}

func (f *fakeRooms) Get(_ context.Context, id string) (*domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return r, nil
}

func (f *fakeRooms) Create(_ context.Context, room *domain.Room) error {
	f.created = append(f.created, room)
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRooms) List(_ context.Context, limit int, _ string) ([]domain.Room, string, error) {
	out := make([]domain.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		if len(out) == limit {
			break
		}
		out = append(out, *r)
	}
	return out, "", nil
}

func (f *fakeRooms) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.rooms, id)
	return nil
}

func (f *fakeRooms) Count(_ context.Context) (int64, error) { return f.count, nil }

func (f *fakeRooms) MaxSequence(_ context.Context, prefix string) (int64, error) {
	return f.maxSeq[prefix], nil
}

func (f *fakeRooms) CodeExists(_ context.Context, id string) (bool, error) {
	if _, ok := f.rooms[id]; ok {
		return true, nil
	}
	return f.existing[id], nil
}

type fakeMembers struct {
	members map[int64]*domain.RoomUser

	joinErr   error
	joined    []int64
	left      []int64
	switched  []int64
	switchErr error
}

func newFakeMembers(members ...*domain.RoomUser) *fakeMembers {
	f := &fakeMembers{members: make(map[int64]*domain.RoomUser)}
	for _, m := range members {
		f.members[m.UserID] = m
	}
	return f
}

func (f *fakeMembers) Get(_ context.Context, _ string, userID int64) (*domain.RoomUser, error) {
	m, ok := f.members[userID]
	if !ok {
		return nil, domain.ErrNotInRoom
	}
	return m, nil
}

func (f *fakeMembers) Join(_ context.Context, roomID string, userID int64, seat *int) (*domain.RoomUser, error) {
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	if seat == nil {
		n := 2
		seat = &n
	}
	ru := &domain.RoomUser{
		RoomID: roomID, UserID: userID, Role: domain.RoleMember,
		SeatNumber: seat, Status: domain.MemberActive, IsActive: true,
		JoinedAt: time.Now(),
	}
	f.members[userID] = ru
	f.joined = append(f.joined, userID)
	return ru, nil
}

func (f *fakeMembers) Leave(_ context.Context, _ string, userID int64) error {
	if _, ok := f.members[userID]; !ok {
		return domain.ErrNotInRoom
	}
	delete(f.members, userID)
	f.left = append(f.left, userID)
	return nil
}

func (f *fakeMembers) SwitchSeat(_ context.Context, _ string, userID int64, seat *int) error {
	if f.switchErr != nil {
		return f.switchErr
	}
	m, ok := f.members[userID]
	if !ok {
		return domain.ErrNotInRoom
	}
	m.SeatNumber = seat
	f.switched = append(f.switched, userID)
	return nil
}

func (f *fakeMembers) ListByRoom(_ context.Context, _ string) ([]domain.RoomUser, error) {
	out := make([]domain.RoomUser, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, *m)
	}
	return out, nil
}

type fakeGrants struct {
	grants map[int64]*domain.ModeratorPermissions

	granted []*domain.ModeratorPermissions
	revoked []int64
}

func newFakeGrants(grants ...*domain.ModeratorPermissions) *fakeGrants {
	f := &fakeGrants{grants: make(map[int64]*domain.ModeratorPermissions)}
	for _, g := range grants {
		f.grants[g.UserID] = g
	}
	return f
}

func (f *fakeGrants) Get(_ context.Context, _ string, userID int64) (*domain.ModeratorPermissions, error) {
	g, ok := f.grants[userID]
	if !ok {
		return nil, domain.ErrGrantNotFound
	}
	return g, nil
}

func (f *fakeGrants) Grant(_ context.Context, p *domain.ModeratorPermissions) error {
	f.grants[p.UserID] = p
	f.granted = append(f.granted, p)
	return nil
}

func (f *fakeGrants) Revoke(_ context.Context, _ string, userID, _ int64) error {
	if _, ok := f.grants[userID]; !ok {
		return domain.ErrGrantNotFound
	}
	delete(f.grants, userID)
	f.revoked = append(f.revoked, userID)
	return nil
}

func (f *fakeGrants) ListByRoom(_ context.Context, _ string) ([]domain.ModeratorPermissions, error) {
	out := make([]domain.ModeratorPermissions, 0, len(f.grants))
	for _, g := range f.grants {
		out = append(out, *g)
	}
	return out, nil
}

type fakeBans struct {
	active map[int64]*domain.RoomBan
}

func newFakeBans(bans ...*domain.RoomBan) *fakeBans {
	f := &fakeBans{active: make(map[int64]*domain.RoomBan)}
	for _, b := range bans {
		f.active[b.UserID] = b
	}
	return f
}

func (f *fakeBans) Active(_ context.Context, _ string, userID int64) (*domain.RoomBan, error) {
	b, ok := f.active[userID]
	if !ok {
		return nil, domain.ErrBanNotFound
	}
	return b, nil
}

func (f *fakeBans) ListByRoom(_ context.Context, _ string) ([]domain.RoomBan, error) {
	out := make([]domain.RoomBan, 0, len(f.active))
	for _, b := range f.active {
		out = append(out, *b)
	}
	return out, nil
}

type fakeEvents struct {
	rows []postgres.EventDetailedRow
}

func (f *fakeEvents) List(_ context.Context, _ string, _ int, _ string) ([]postgres.EventDetailedRow, string, error) {
	return f.rows, "", nil
}

type banCall struct {
	target    int64
	duration  domain.BanDuration
	expiresAt *time.Time
}

type fakeModStore struct {
	err error

	invites    []int64
	removes    []int64
	locks      []bool
	mutes      []bool
	kicks      []int64
	bans       []banCall
	unbans     []int64
	micChanges [][2]int
	seats      []domain.MicSeat
}

func (f *fakeModStore) InviteToMic(_ context.Context, _ string, _, targetID int64, _ int) error {
	if f.err != nil {
		return f.err
	}
	f.invites = append(f.invites, targetID)
	return nil
}

func (f *fakeModStore) RemoveFromMic(_ context.Context, _ string, _, targetID int64, _ int) error {
	if f.err != nil {
		return f.err
	}
	f.removes = append(f.removes, targetID)
	return nil
}

func (f *fakeModStore) SetLock(_ context.Context, _ string, _ int64, _ int, lock bool) error {
	if f.err != nil {
		return f.err
	}
	f.locks = append(f.locks, lock)
	return nil
}

func (f *fakeModStore) SetMute(_ context.Context, _ string, _ int64, _ int, mute bool) error {
	if f.err != nil {
		return f.err
	}
	f.mutes = append(f.mutes, mute)
	return nil
}

func (f *fakeModStore) Kick(_ context.Context, _ string, _, targetID int64, _ *string) error {
	if f.err != nil {
		return f.err
	}
	f.kicks = append(f.kicks, targetID)
	return nil
}

func (f *fakeModStore) Ban(_ context.Context, _ string, _, targetID int64, duration domain.BanDuration, expiresAt *time.Time, _ *string) error {
	if f.err != nil {
		return f.err
	}
	f.bans = append(f.bans, banCall{target: targetID, duration: duration, expiresAt: expiresAt})
	return nil
}

func (f *fakeModStore) Unban(_ context.Context, _ string, _, targetID int64, _ *string) error {
	if f.err != nil {
		return f.err
	}
	f.unbans = append(f.unbans, targetID)
	return nil
}

func (f *fakeModStore) ChangeMic(_ context.Context, _ string, _, _ int64, fromSeat, toSeat int) error {
	if f.err != nil {
		return f.err
	}
	f.micChanges = append(f.micChanges, [2]int{fromSeat, toSeat})
	return nil
}

func (f *fakeModStore) MicState(_ context.Context, _ string) ([]domain.MicSeat, error) {
	return f.seats, nil
}

type disconnectCall struct {
	roomID string
	userID int64
	reason string
}

type fakeCaster struct {
	msgs        []broadcast.Message
	excluded    []int64
	direct      []broadcast.Message
	disconnects []disconnectCall
}

func (f *fakeCaster) Broadcast(_ string, msg broadcast.Message, excludeUserID int64) {
	f.msgs = append(f.msgs, msg)
	f.excluded = append(f.excluded, excludeUserID)
}

func (f *fakeCaster) SendToUser(_ int64, msg broadcast.Message) bool {
	f.direct = append(f.direct, msg)
	return true
}

func (f *fakeCaster) ForceDisconnect(roomID string, userID int64, reason string) {
	f.disconnects = append(f.disconnects, disconnectCall{roomID: roomID, userID: userID, reason: reason})
}

func (f *fakeCaster) lastType() string {
	if len(f.msgs) == 0 {
		return ""
	}
	return f.msgs[len(f.msgs)-1].Type
}
