package ws

import (
	"time"

	"github.com/cwrk-planet/board-service/internal/domain"
)

// Message types on the realtime channel, one request/notification per message.
const (
	TypeJoinRoom         = "join-room"         // client → server, starts the join flow
	TypeUserJoined       = "user-joined"       // ack to the joiner only
	TypeUserConnected    = "user-connected"    // broadcast to the rest of the room
	TypeUserDisconnected = "user-disconnected" // broadcast on leave
	TypeCanvasState      = "canvas-state"      // snapshot blob, sent to the joiner if present
	TypeDrawingHistory   = "drawing-history"   // event replay, sent to the joiner
	TypeDrawingEvent     = "drawing-event"     // relayed, server stamps identity
	TypeCursorMove       = "cursor-move"       // relayed, server stamps identity and color
	TypeSaveCanvas       = "save-canvas"       // persists the blob as the room snapshot
	TypeClearCanvas      = "clear-canvas"      // resets log + snapshot, then notifies
	TypeCanvasCleared    = "canvas-cleared"    // broadcast, includes the originator
	TypeError            = "error"             // join or operation failure
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName,omitempty"`
}

type MembershipPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Color    string `json:"color"`
}

type UserGonePayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type DrawingEventPayload struct {
	UserID      string         `json:"userId,omitempty"`
	UserName    string         `json:"userName,omitempty"`
	EventType   string         `json:"eventType"`
	Tool        string         `json:"tool,omitempty"`
	Coordinates []domain.Point `json:"coordinates"`
	Style       domain.Style   `json:"style"`
	Timestamp   time.Time      `json:"timestamp,omitzero"`
}

func (p DrawingEventPayload) toDomain() *domain.DrawingEvent {
	return &domain.DrawingEvent{
		EventType: domain.EventType(p.EventType),
		Tool:      domain.Tool(p.Tool),
		Coords:    p.Coordinates,
		Style:     p.Style,
		Timestamp: p.Timestamp,
	}
}

func eventPayload(ev *domain.DrawingEvent) DrawingEventPayload {
	coords := ev.Coords
	if coords == nil {
		coords = []domain.Point{}
	}
	return DrawingEventPayload{
		UserID:      ev.UserID,
		UserName:    ev.UserName,
		EventType:   string(ev.EventType),
		Tool:        string(ev.Tool),
		Coordinates: coords,
		Style:       ev.Style,
		Timestamp:   ev.Timestamp,
	}
}

func historyPayload(events []domain.DrawingEvent) []DrawingEventPayload {
	out := make([]DrawingEventPayload, 0, len(events))
	for i := range events {
		out = append(out, eventPayload(&events[i]))
	}
	return out
}

type CursorPayload struct {
	UserID    string  `json:"userId,omitempty"`
	UserName  string  `json:"userName,omitempty"`
	Color     string  `json:"color,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	IsDrawing bool    `json:"isDrawing"`
}
