package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cwrk-planet/board-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Append(ctx context.Context, ev *domain.DrawingEvent) error {
	coords, err := json.Marshal(ev.Coords)
	if err != nil {
		return fmt.Errorf("marshal coordinates: %w", err)
	}
	style, err := json.Marshal(ev.Style)
	if err != nil {
		return fmt.Errorf("marshal style: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO board_events (room_id, user_id, user_name, event_type, tool, coordinates, style, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, ev.RoomID, ev.UserID, ev.UserName, ev.EventType, ev.Tool, coords, style, ev.Timestamp)

	return row.Scan(&ev.ID)
}

// QueryRecent returns the most recent limit events for the room, oldest first.
func (r *EventRepository) QueryRecent(ctx context.Context, roomID string, limit int) ([]domain.DrawingEvent, error) {
	if limit <= 0 {
		limit = 1000
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, user_id, user_name, event_type, tool, coordinates, style, ts
		FROM board_events
		WHERE room_id = $1
		ORDER BY ts DESC, id DESC
		LIMIT $2
	`, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DrawingEvent
	for rows.Next() {
		var (
			ev     domain.DrawingEvent
			coords []byte
			style  []byte
		)
		if err := rows.Scan(&ev.ID, &ev.RoomID, &ev.UserID, &ev.UserName, &ev.EventType, &ev.Tool, &coords, &style, &ev.Timestamp); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(coords, &ev.Coords); err != nil {
			return nil, fmt.Errorf("unmarshal coordinates: %w", err)
		}
		if err := json.Unmarshal(style, &ev.Style); err != nil {
			return nil, fmt.Errorf("unmarshal style: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// query is newest-first for the LIMIT; replay order is oldest-first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out, nil
}

func (r *EventRepository) DeleteAll(ctx context.Context, roomID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM board_events WHERE room_id=$1`, roomID)
	return err
}

// DeleteOlderThan removes events past the retention window across all rooms.
func (r *EventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM board_events WHERE ts < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
