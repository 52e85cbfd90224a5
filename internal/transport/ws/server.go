package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cwrk-planet/board-service/internal/domain"
	"github.com/cwrk-planet/board-service/internal/service"
	"github.com/cwrk-planet/board-service/internal/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// BoardSvc is the sync engine contract the realtime channel drives.
type BoardSvc interface {
	Join(ctx context.Context, connID, roomID, userName string) (*service.JoinResult, error)
	Disconnect(ctx context.Context, connID string) (session.Identity, error)
	RecordEvent(ctx context.Context, connID string, ev *domain.DrawingEvent) (*domain.DrawingEvent, error)
	UpdateCursor(connID string, x, y float64, isDrawing bool) (domain.CursorState, error)
	SaveCanvas(ctx context.Context, connID string, blob []byte) error
	ClearCanvas(ctx context.Context, connID string) (roomID string, err error)
	Touch(ctx context.Context, connID string)
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	board    BoardSvc

	pingEvery      time.Duration
	maxMessageSize int64
}

func NewServer(hub *Hub, board BoardSvc, maxMessageSize int64) *Server {
	if maxMessageSize <= 0 {
		maxMessageSize = 1 << 20
	}
	return &Server{
		hub:   hub,
		board: board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery:      15 * time.Second,
		maxMessageSize: maxMessageSize,
	}
}

// WS endpoint: GET /ws. The first join-room message binds the connection to a
// room; everything after is relayed within that room.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn)
	slog.Debug("ws connected", "conn", c.ID())

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	// The departing connection gets nothing more, but the leave notification
	// still reaches the room.
	if c.RoomID() != "" {
		s.hub.Remove(c)
	}
	if id, err := s.board.Disconnect(r.Context(), c.ID()); err == nil {
		s.hub.Broadcast(id.RoomID, Message{
			Type: TypeUserDisconnected,
			Payload: UserGonePayload{
				UserID:   id.UserID,
				UserName: id.UserName,
			},
		})
		slog.Info("ws disconnected", "room", id.RoomID, "user", id.UserID)
	}

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "conn", c.ID(), "err", err)
	}
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(s.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		s.board.Touch(ctx, c.ID())
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.dispatch(ctx, c, msg)
	}
}

// dispatch handles one inbound message to completion. It runs only on the
// connection's read goroutine, so events from one sender are relayed in
// submission order.
func (s *Server) dispatch(ctx context.Context, c Conn, msg Message) {
	switch msg.Type {
	case TypeJoinRoom:
		var p JoinRoomPayload
		if decode(msg.Payload, &p) != nil || p.RoomID == "" {
			_ = c.Send(Message{Type: TypeError, Payload: "invalid join payload"})
			return
		}
		s.handleJoin(ctx, c, p)

	case TypeDrawingEvent:
		var p DrawingEventPayload
		if decode(msg.Payload, &p) != nil {
			return
		}
		ev, err := s.board.RecordEvent(ctx, c.ID(), p.toDomain())
		if err != nil {
			return // no session: the connection raced a disconnect
		}
		s.hub.BroadcastExcept(ev.RoomID, Message{Type: TypeDrawingEvent, Payload: eventPayload(ev)}, c)

	case TypeCursorMove:
		var p CursorPayload
		if decode(msg.Payload, &p) != nil {
			return
		}
		cur, err := s.board.UpdateCursor(c.ID(), p.X, p.Y, p.IsDrawing)
		if err != nil {
			return
		}
		s.hub.BroadcastExcept(c.RoomID(), Message{Type: TypeCursorMove, Payload: CursorPayload{
			UserID:    cur.UserID,
			UserName:  cur.UserName,
			Color:     cur.Color,
			X:         cur.X,
			Y:         cur.Y,
			IsDrawing: cur.IsDrawing,
		}}, c)

	case TypeSaveCanvas:
		var blob string
		if decode(msg.Payload, &blob) != nil {
			return
		}
		if err := s.board.SaveCanvas(ctx, c.ID(), []byte(blob)); err != nil {
			slog.Warn("canvas save failed", "conn", c.ID(), "err", err)
		}

	case TypeClearCanvas:
		roomID, err := s.board.ClearCanvas(ctx, c.ID())
		if err != nil {
			slog.Warn("canvas clear failed", "conn", c.ID(), "err", err)
			_ = c.Send(Message{Type: TypeError, Payload: "failed to clear canvas"})
			return
		}
		// log and snapshot are already reset; everyone hears it, the
		// originator included
		s.hub.Broadcast(roomID, Message{Type: TypeCanvasCleared})

	default:
		// ignore
	}
}

// handleJoin delivers, in order: the joiner's identity, the snapshot if any,
// the history replay. Only then is the rest of the room notified.
func (s *Server) handleJoin(ctx context.Context, c Conn, p JoinRoomPayload) {
	if c.RoomID() != "" {
		return // already joined
	}

	res, err := s.board.Join(ctx, c.ID(), p.RoomID, p.UserName)
	if err != nil {
		slog.Warn("join failed", "room", p.RoomID, "err", err)
		_ = c.Send(Message{Type: TypeError, Payload: "failed to join room"})
		return
	}

	if rb, ok := c.(roomBinder); ok {
		rb.bindRoom(p.RoomID)
	}
	s.hub.Add(c)

	m := res.Membership
	_ = c.Send(Message{Type: TypeUserJoined, Payload: MembershipPayload{
		UserID:   m.UserID,
		UserName: m.UserName,
		Color:    m.Color,
	}})
	if res.Snapshot != nil {
		_ = c.Send(Message{Type: TypeCanvasState, Payload: string(res.Snapshot)})
	}
	_ = c.Send(Message{Type: TypeDrawingHistory, Payload: historyPayload(res.History)})

	s.hub.BroadcastExcept(p.RoomID, Message{Type: TypeUserConnected, Payload: MembershipPayload{
		UserID:   m.UserID,
		UserName: m.UserName,
		Color:    m.Color,
	}}, c)

	if res.StoreErr != nil {
		slog.Warn("join degraded, store unavailable", "room", p.RoomID, "user", m.UserID, "err", res.StoreErr)
		_ = c.Send(Message{Type: TypeError, Payload: "board state may be incomplete"})
	}

	slog.Info("user joined", "room", p.RoomID, "user", m.UserID, "name", m.UserName)
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload any, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

// roomBinder is satisfied by connections whose room is fixed at join time.
type roomBinder interface {
	bindRoom(roomID string)
}

type wsConn struct {
	conn *websocket.Conn
	id   string

	mu     sync.RWMutex
	roomID string

	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn) *wsConn {
	return &wsConn{
		conn:   c,
		id:     uuid.New().String(),
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) RoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

func (c *wsConn) bindRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}
