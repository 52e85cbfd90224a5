package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cwrk-planet/board-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	settings, err := json.Marshal(room.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	query := `
		INSERT INTO rooms (room_id, name, created_by, settings)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	return r.db.QueryRow(ctx, query, room.RoomID, room.Name, room.CreatedBy, settings).
		Scan(&room.CreatedAt)
}

func (r *RoomRepository) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	var (
		rm       domain.Room
		settings []byte
	)
	query := `SELECT room_id, name, created_by, settings, snapshot, created_at FROM rooms WHERE room_id=$1`
	err := r.db.QueryRow(ctx, query, roomID).
		Scan(&rm.RoomID, &rm.Name, &rm.CreatedBy, &settings, &rm.Snapshot, &rm.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(settings, &rm.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	members, err := r.ListMembers(ctx, roomID)
	if err != nil {
		return nil, err
	}
	rm.ActiveUsers = members

	return &rm, nil
}

func (r *RoomRepository) List(ctx context.Context, limit int, cursorStr string) ([]domain.Room, string, error) {
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", err
	}

	query := `
		SELECT room_id, name, created_by, settings, created_at
		FROM rooms
		WHERE ($1::timestamptz IS NULL OR created_at < $1
		       OR (created_at = $1 AND room_id < $2))
		ORDER BY created_at DESC, room_id DESC
		LIMIT $3`

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, query, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var (
			rm       domain.Room
			settings []byte
		)
		if err := rows.Scan(&rm.RoomID, &rm.Name, &rm.CreatedBy, &settings, &rm.CreatedAt); err != nil {
			return nil, "", err
		}
		if err := json.Unmarshal(settings, &rm.Settings); err != nil {
			return nil, "", fmt.Errorf("unmarshal settings: %w", err)
		}
		rooms = append(rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var nextCursor string
	if len(rooms) == limit {
		last := rooms[len(rooms)-1]
		cur := Cursor{CreatedAt: last.CreatedAt, ID: last.RoomID}
		nextCursor, _ = EncodeCursor(cur)
	}

	return rooms, nextCursor, nil
}

// UpsertMembership adds the member to the room, creating the room on first
// join. The room row is locked so two parallel joins cannot exceed maxUsers.
// The returned flag reports whether the room was created by this call.
func (r *RoomRepository) UpsertMembership(ctx context.Context, m *domain.Membership, maxUsers int64) (created bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	settings, err := json.Marshal(domain.DefaultSettings())
	if err != nil {
		return false, fmt.Errorf("marshal settings: %w", err)
	}
	cmd, err := tx.Exec(ctx, `
		INSERT INTO rooms (room_id, settings)
		VALUES ($1, $2)
		ON CONFLICT (room_id) DO NOTHING
	`, m.RoomID, settings)
	if err != nil {
		return false, err
	}
	created = cmd.RowsAffected() == 1

	// Lock the room row; parallel joins to the same room wait here.
	var rawSettings []byte
	if err := tx.QueryRow(ctx, `SELECT settings FROM rooms WHERE room_id=$1 FOR UPDATE`, m.RoomID).Scan(&rawSettings); err != nil {
		return false, err
	}
	var settingsVal domain.Settings
	if err := json.Unmarshal(rawSettings, &settingsVal); err != nil {
		return false, fmt.Errorf("unmarshal settings: %w", err)
	}
	max := settingsVal.MaxUsers
	if max <= 0 {
		max = maxUsers
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM room_members WHERE room_id=$1`, m.RoomID).Scan(&count); err != nil {
		return false, err
	}
	if max > 0 && count >= max {
		return false, domain.ErrRoomFull
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO room_members (room_id, user_id, user_name, color, last_seen)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (room_id, user_id) DO UPDATE SET
			user_name = EXCLUDED.user_name,
			color     = EXCLUDED.color,
			last_seen = EXCLUDED.last_seen
	`, m.RoomID, m.UserID, m.UserName, m.Color, m.LastSeen); err != nil {
		return false, err
	}

	return created, tx.Commit(ctx)
}

func (r *RoomRepository) RemoveMembership(ctx context.Context, roomID, userID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM room_members WHERE room_id=$1 AND user_id=$2`, roomID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}
	return nil
}

func (r *RoomRepository) ListMembers(ctx context.Context, roomID string) ([]domain.Membership, error) {
	rows, err := r.db.Query(ctx,
		`SELECT room_id, user_id, user_name, color, last_seen FROM room_members WHERE room_id=$1 ORDER BY last_seen ASC`,
		roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.RoomID, &m.UserID, &m.UserName, &m.Color, &m.LastSeen); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *RoomRepository) TouchLastSeen(ctx context.Context, roomID, userID string) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE room_members SET last_seen=now() WHERE room_id=$1 AND user_id=$2`,
		roomID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}
	return nil
}

func (r *RoomRepository) SetSnapshot(ctx context.Context, roomID string, blob []byte) error {
	cmd, err := r.db.Exec(ctx, `UPDATE rooms SET snapshot=$2 WHERE room_id=$1`, roomID, blob)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) ClearSnapshot(ctx context.Context, roomID string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE rooms SET snapshot=NULL WHERE room_id=$1`, roomID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}
