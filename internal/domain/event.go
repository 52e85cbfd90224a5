package domain

import "time"

type EventType string

const (
	EventDraw  EventType = "draw"
	EventErase EventType = "erase"
	EventClear EventType = "clear"
	EventUndo  EventType = "undo"
	EventRedo  EventType = "redo"
)

func (t EventType) Valid() bool {
	switch t {
	case EventDraw, EventErase, EventClear, EventUndo, EventRedo:
		return true
	}
	return false
}

type Tool string

const (
	ToolPen       Tool = "pen"
	ToolEraser    Tool = "eraser"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolLine      Tool = "line"
	ToolText      Tool = "text"
)

func (t Tool) Valid() bool {
	switch t {
	case ToolPen, ToolEraser, ToolRectangle, ToolCircle, ToolLine, ToolText:
		return true
	}
	return false
}

// Point order inside Coordinates is the stroke path; it is semantically
// meaningful and must survive storage and relay unchanged.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure,omitempty"`
}

type Style struct {
	Color   string  `json:"color,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
	Fill    string  `json:"fill,omitempty"`
}

// DrawingEvent is immutable once appended to the log. Events are ordered per
// room by Timestamp, ties broken by insertion order.
type DrawingEvent struct {
	ID        int64     `db:"id"`
	RoomID    string    `db:"room_id"`
	UserID    string    `db:"user_id"`
	UserName  string    `db:"user_name"`
	EventType EventType `db:"event_type"`
	Tool      Tool      `db:"tool"`
	Coords    []Point   `db:"coordinates"`
	Style     Style     `db:"style"`
	Timestamp time.Time `db:"ts"`
}
