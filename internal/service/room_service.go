package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwrk-planet/board-service/internal/domain"

	"github.com/google/uuid"
)

// RoomCatalog is the slice of the room directory the REST surface needs.
type RoomCatalog interface {
	Create(ctx context.Context, room *domain.Room) error
	Get(ctx context.Context, roomID string) (*domain.Room, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Room, string, error)
}

type RoomService struct {
	rooms RoomCatalog
}

func NewRoomService(rooms RoomCatalog) *RoomService {
	return &RoomService{rooms: rooms}
}

// CreateRoom creates a room with a generated 8-char id.
func (s *RoomService) CreateRoom(ctx context.Context, name, createdBy string) (*domain.Room, error) {
	if name == "" {
		name = "Untitled Board"
	}
	if createdBy == "" {
		createdBy = "Anonymous"
	}

	room := &domain.Room{
		RoomID:    uuid.New().String()[:8],
		Name:      name,
		CreatedBy: createdBy,
		Settings:  domain.DefaultSettings(),
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("rooms.Create: %w", err)
	}
	return room, nil
}

// GetRoom returns room metadata including the active membership list.
func (s *RoomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	room, err := s.rooms.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// ListRooms returns rooms with cursor pagination.
func (s *RoomService) ListRooms(ctx context.Context, limit int, cursor string) ([]domain.Room, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	return s.rooms.List(ctx, limit, cursor)
}
