package domain

// CursorState is ephemeral presence data. Last write wins; it is never
// persisted and disappears with the owning session.
type CursorState struct {
	UserID    string
	UserName  string
	Color     string
	X         float64
	Y         float64
	IsDrawing bool
}
