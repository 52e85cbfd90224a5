package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cwrk-planet/board-service/internal/domain"
	"github.com/cwrk-planet/board-service/internal/presence"
	"github.com/cwrk-planet/board-service/internal/session"
)

// RoomStore is the room directory contract the sync engine drives.
type RoomStore interface {
	UpsertMembership(ctx context.Context, m *domain.Membership, maxUsers int64) (created bool, err error)
	RemoveMembership(ctx context.Context, roomID, userID string) error
	Get(ctx context.Context, roomID string) (*domain.Room, error)
	SetSnapshot(ctx context.Context, roomID string, blob []byte) error
	ClearSnapshot(ctx context.Context, roomID string) error
	TouchLastSeen(ctx context.Context, roomID, userID string) error
}

// EventStore is the append-only drawing event log contract.
type EventStore interface {
	Append(ctx context.Context, ev *domain.DrawingEvent) error
	QueryRecent(ctx context.Context, roomID string, limit int) ([]domain.DrawingEvent, error)
	DeleteAll(ctx context.Context, roomID string) error
}

// JoinResult is everything a joining connection must be told, in delivery
// order: its identity, then the snapshot, then the history replay.
type JoinResult struct {
	Membership  domain.Membership
	Snapshot    []byte
	History     []domain.DrawingEvent
	RoomCreated bool

	// StoreErr reports degraded persistence. The session is registered and
	// the join stands; a supervisor may retry the directory write.
	StoreErr error
}

// SyncService owns the session registry and presence tracker and drives the
// room directory and event log. All persistence mutations for one room are
// serialized through a per-room lock so a stale snapshot save can never land
// after a clear.
type SyncService struct {
	registry *session.Registry
	tracker  *presence.Tracker
	rooms    RoomStore
	events   EventStore

	historyLimit int

	mu        sync.Mutex
	roomLocks map[string]*sync.Mutex
}

func NewSyncService(rooms RoomStore, events EventStore, historyLimit int) *SyncService {
	if historyLimit <= 0 {
		historyLimit = 1000
	}
	return &SyncService{
		registry:     session.NewRegistry(),
		tracker:      presence.NewTracker(),
		rooms:        rooms,
		events:       events,
		historyLimit: historyLimit,
		roomLocks:    make(map[string]*sync.Mutex),
	}
}

func (s *SyncService) roomLock(roomID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.roomLocks[roomID]
	if !ok {
		l = &sync.Mutex{}
		s.roomLocks[roomID] = l
	}
	return l
}

// Join runs the reconciliation flow for a new connection: mint an identity,
// upsert membership (creating the room on first join), register the session,
// and assemble {snapshot, history tail} for the client.
//
// Only a full room rejects the join. Storage faults degrade to in-memory
// behavior: the session is still registered and StoreErr carries the fault.
func (s *SyncService) Join(ctx context.Context, connID, roomID, userName string) (*JoinResult, error) {
	userID := session.NewUserID()
	if userName == "" {
		userName = "User " + userID[:4]
	}

	m := domain.Membership{
		RoomID:   roomID,
		UserID:   userID,
		UserName: userName,
		Color:    domain.PickColor(),
		LastSeen: time.Now(),
	}

	res := &JoinResult{Membership: m}

	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	created, err := s.rooms.UpsertMembership(ctx, &m, domain.DefaultSettings().MaxUsers)
	switch {
	case errors.Is(err, domain.ErrRoomFull):
		return nil, err
	case err != nil:
		res.StoreErr = err
	default:
		res.RoomCreated = created
	}

	s.registry.Register(connID, session.Identity{
		UserID:   userID,
		UserName: userName,
		Color:    m.Color,
		RoomID:   roomID,
	})

	if res.StoreErr == nil {
		room, err := s.rooms.Get(ctx, roomID)
		if err != nil {
			res.StoreErr = err
		} else {
			res.Snapshot = room.Snapshot
		}
	}
	if res.StoreErr == nil {
		history, err := s.events.QueryRecent(ctx, roomID, s.historyLimit)
		if err != nil {
			res.StoreErr = err
		} else {
			res.History = history
		}
	}

	if res.RoomCreated {
		slog.Info("room created on first join", "room", roomID, "user", userID)
	}

	return res, nil
}

// Lookup resolves a live connection to its identity.
func (s *SyncService) Lookup(connID string) (session.Identity, error) {
	return s.registry.Lookup(connID)
}

// Disconnect tears the session down: registry entry, presence, membership.
// The returned identity is what the room-wide leave notification carries.
func (s *SyncService) Disconnect(ctx context.Context, connID string) (session.Identity, error) {
	id, err := s.registry.Remove(connID)
	if err != nil {
		return session.Identity{}, err
	}

	s.tracker.Remove(id.UserID)

	l := s.roomLock(id.RoomID)
	l.Lock()
	defer l.Unlock()

	if err := s.rooms.RemoveMembership(ctx, id.RoomID, id.UserID); err != nil && !errors.Is(err, domain.ErrNotInRoom) {
		slog.Warn("membership remove failed", "room", id.RoomID, "user", id.UserID, "err", err)
	}

	return id, nil
}

// RecordEvent stamps the event with the sender's identity, appends it to the
// log and returns it ready for relay. An append failure is logged and does
// not block the relay.
func (s *SyncService) RecordEvent(ctx context.Context, connID string, ev *domain.DrawingEvent) (*domain.DrawingEvent, error) {
	id, err := s.registry.Lookup(connID)
	if err != nil {
		return nil, err
	}

	ev.RoomID = id.RoomID
	ev.UserID = id.UserID
	ev.UserName = id.UserName
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if !ev.EventType.Valid() {
		ev.EventType = domain.EventDraw
	}

	if err := s.events.Append(ctx, ev); err != nil {
		slog.Warn("event append failed", "room", ev.RoomID, "user", ev.UserID, "err", err)
	}
	if err := s.rooms.TouchLastSeen(ctx, id.RoomID, id.UserID); err != nil && !errors.Is(err, domain.ErrNotInRoom) {
		slog.Debug("last_seen touch failed", "room", id.RoomID, "user", id.UserID, "err", err)
	}

	return ev, nil
}

// UpdateCursor stamps and stores the last-known cursor for the sender.
// Cursor state never reaches the event log.
func (s *SyncService) UpdateCursor(connID string, x, y float64, isDrawing bool) (domain.CursorState, error) {
	id, err := s.registry.Lookup(connID)
	if err != nil {
		return domain.CursorState{}, err
	}

	c := domain.CursorState{
		UserID:    id.UserID,
		UserName:  id.UserName,
		Color:     id.Color,
		X:         x,
		Y:         y,
		IsDrawing: isDrawing,
	}
	s.tracker.Update(id.UserID, c)

	return c, nil
}

// SaveCanvas persists the blob as the room snapshot. Repeating the same blob
// is a no-op in content.
func (s *SyncService) SaveCanvas(ctx context.Context, connID string, blob []byte) error {
	id, err := s.registry.Lookup(connID)
	if err != nil {
		return err
	}

	l := s.roomLock(id.RoomID)
	l.Lock()
	defer l.Unlock()

	return s.rooms.SetSnapshot(ctx, id.RoomID, blob)
}

// ClearCanvas empties the event log, then resets the snapshot. Both must
// complete before the caller broadcasts the cleared notification; otherwise a
// concurrently joining client could fetch stale history. If the process dies
// between the two calls the leftover is an empty log with a stale snapshot,
// which the next clear or save repairs; the reverse order could replay
// deleted events on top of a cleared board.
func (s *SyncService) ClearCanvas(ctx context.Context, connID string) (roomID string, err error) {
	id, err := s.registry.Lookup(connID)
	if err != nil {
		return "", err
	}

	l := s.roomLock(id.RoomID)
	l.Lock()
	defer l.Unlock()

	if err := s.events.DeleteAll(ctx, id.RoomID); err != nil {
		return "", err
	}
	if err := s.rooms.ClearSnapshot(ctx, id.RoomID); err != nil && !errors.Is(err, domain.ErrRoomNotFound) {
		return "", err
	}

	return id.RoomID, nil
}

// Touch refreshes the member's last_seen, best-effort.
func (s *SyncService) Touch(ctx context.Context, connID string) {
	id, err := s.registry.Lookup(connID)
	if err != nil {
		return
	}
	if err := s.rooms.TouchLastSeen(ctx, id.RoomID, id.UserID); err != nil && !errors.Is(err, domain.ErrNotInRoom) {
		slog.Debug("last_seen touch failed", "room", id.RoomID, "user", id.UserID, "err", err)
	}
}

// Cursor exposes the tracker for introspection.
func (s *SyncService) Cursor(userID string) (domain.CursorState, bool) {
	return s.tracker.Get(userID)
}

// Sessions reports the number of live sessions.
func (s *SyncService) Sessions() int {
	return s.registry.Len()
}
