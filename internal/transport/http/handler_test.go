package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cwrk-planet/board-service/internal/domain"
	"github.com/cwrk-planet/board-service/internal/service"

	"github.com/go-chi/chi/v5"
)

type fakeCatalog struct {
	rooms map[string]domain.Room
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{rooms: make(map[string]domain.Room)}
}

func (f *fakeCatalog) Create(ctx context.Context, room *domain.Room) error {
	room.CreatedAt = time.Now()
	f.rooms[room.RoomID] = *room
	return nil
}

func (f *fakeCatalog) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return &room, nil
}

func (f *fakeCatalog) List(ctx context.Context, limit int, cursor string) ([]domain.Room, string, error) {
	var out []domain.Room
	for _, r := range f.rooms {
		out = append(out, r)
	}
	return out, "", nil
}

func newTestRouter(cat service.RoomCatalog) http.Handler {
	h := NewHandler(service.NewRoomService(cat))
	r := chi.NewRouter()
	r.Route("/api/rooms", func(rm chi.Router) {
		rm.Post("/create", h.CreateRoom)
		rm.Get("/", h.ListRooms)
		rm.Get("/{roomId}", h.GetRoom)
	})
	return r
}

func TestCreateRoomEndpoint(t *testing.T) {
	cat := newFakeCatalog()
	router := newTestRouter(cat)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/create",
		strings.NewReader(`{"name":"Design Review","createdBy":"alice"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp CreateRoomResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if len(resp.RoomID) != 8 {
		t.Fatalf("room id must be 8 chars, got %q", resp.RoomID)
	}
	if _, ok := cat.rooms[resp.RoomID]; !ok {
		t.Fatal("room not persisted")
	}
}

func TestCreateRoomEndpointBadJSON(t *testing.T) {
	router := newTestRouter(newFakeCatalog())

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/create", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetRoomEndpoint(t *testing.T) {
	cat := newFakeCatalog()
	cat.rooms["abc12345"] = domain.Room{
		RoomID:    "abc12345",
		Name:      "Standup",
		CreatedBy: "bob",
		Settings:  domain.DefaultSettings(),
		ActiveUsers: []domain.Membership{
			{RoomID: "abc12345", UserID: "u1", UserName: "alice", Color: "#FF6B6B"},
		},
	}
	router := newTestRouter(cat)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/abc12345", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var item RoomItem
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if item.RoomID != "abc12345" || item.Name != "Standup" {
		t.Fatalf("room fields mismatch: %+v", item)
	}
	if len(item.ActiveUsers) != 1 || item.ActiveUsers[0].UserName != "alice" {
		t.Fatalf("active users mismatch: %+v", item.ActiveUsers)
	}
	if item.Settings.MaxUsers != domain.DefaultSettings().MaxUsers {
		t.Fatalf("settings mismatch: %+v", item.Settings)
	}
}

func TestGetRoomEndpointNotFound(t *testing.T) {
	router := newTestRouter(newFakeCatalog())

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/nope1234", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("error body must name the failure")
	}
}

func TestListRoomsEndpoint(t *testing.T) {
	cat := newFakeCatalog()
	cat.rooms["a"] = domain.Room{RoomID: "a", Name: "One", Settings: domain.DefaultSettings()}
	cat.rooms["b"] = domain.Room{RoomID: "b", Name: "Two", Settings: domain.DefaultSettings()}
	router := newTestRouter(cat)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/?limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp RoomsListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(resp.Items))
	}
}
