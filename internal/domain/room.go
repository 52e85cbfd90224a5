package domain

import "time"

type Room struct {
	RoomID    string    `db:"room_id"`
	Name      string    `db:"name"`
	CreatedBy string    `db:"created_by"`
	Settings  Settings  `db:"settings"`
	Snapshot  []byte    `db:"snapshot"` // opaque canvas blob, nil when the board is empty
	CreatedAt time.Time `db:"created_at"`

	ActiveUsers []Membership
}

type Settings struct {
	IsPrivate   bool  `json:"isPrivate"`
	AllowGuests bool  `json:"allowGuests"`
	MaxUsers    int64 `json:"maxUsers"`
}

func DefaultSettings() Settings {
	return Settings{
		IsPrivate:   false,
		AllowGuests: true,
		MaxUsers:    50,
	}
}

type Membership struct {
	RoomID   string    `db:"room_id"`
	UserID   string    `db:"user_id"`
	UserName string    `db:"user_name"`
	Color    string    `db:"color"`
	LastSeen time.Time `db:"last_seen"`
}
