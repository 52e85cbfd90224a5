package domain

import "testing"

func TestPickColorStaysInPalette(t *testing.T) {
	members := make(map[string]bool, len(Palette))
	for _, c := range Palette {
		members[c] = true
	}
	for i := 0; i < 100; i++ {
		if c := PickColor(); !members[c] {
			t.Fatalf("color %q not in palette", c)
		}
	}
}

func TestEventTypeValid(t *testing.T) {
	for _, et := range []EventType{EventDraw, EventErase, EventClear, EventUndo, EventRedo} {
		if !et.Valid() {
			t.Fatalf("%q should be valid", et)
		}
	}
	if EventType("scribble").Valid() {
		t.Fatal("unknown event type should be invalid")
	}
	if EventType("").Valid() {
		t.Fatal("empty event type should be invalid")
	}
}

func TestToolValid(t *testing.T) {
	for _, tool := range []Tool{ToolPen, ToolEraser, ToolRectangle, ToolCircle, ToolLine, ToolText} {
		if !tool.Valid() {
			t.Fatalf("%q should be valid", tool)
		}
	}
	if Tool("chisel").Valid() {
		t.Fatal("unknown tool should be invalid")
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.IsPrivate {
		t.Fatal("rooms default to public")
	}
	if !s.AllowGuests {
		t.Fatal("rooms default to allowing guests")
	}
	if s.MaxUsers != 50 {
		t.Fatalf("max users default mismatch: %d", s.MaxUsers)
	}
}
