package presence

import (
	"testing"

	"github.com/cwrk-planet/board-service/internal/domain"
)

func TestTrackerLastWriteWins(t *testing.T) {
	tr := NewTracker()

	tr.Update("u1", domain.CursorState{UserID: "u1", X: 1, Y: 1})
	tr.Update("u1", domain.CursorState{UserID: "u1", X: 42, Y: 7, IsDrawing: true})

	got, ok := tr.Get("u1")
	if !ok {
		t.Fatal("cursor missing")
	}
	if got.X != 42 || got.Y != 7 || !got.IsDrawing {
		t.Fatalf("expected last update to win, got %+v", got)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected 1 cursor, got %d", tr.Len())
	}
}

func TestTrackerRemove(t *testing.T) {
	tr := NewTracker()
	tr.Update("u1", domain.CursorState{UserID: "u1"})
	tr.Remove("u1")

	if _, ok := tr.Get("u1"); ok {
		t.Fatal("cursor should be gone after remove")
	}

	// removing an unknown user is a no-op
	tr.Remove("u2")
}
