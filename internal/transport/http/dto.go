package http

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateRoomRequest struct {
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy"`
}

type CreateRoomResponse struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type SettingsItem struct {
	IsPrivate   bool  `json:"isPrivate"`
	AllowGuests bool  `json:"allowGuests"`
	MaxUsers    int64 `json:"maxUsers"`
}

type MemberItem struct {
	UserID   string    `json:"userId"`
	UserName string    `json:"userName"`
	Color    string    `json:"color"`
	LastSeen time.Time `json:"lastSeen"`
}

type RoomItem struct {
	RoomID      string       `json:"roomId"`
	Name        string       `json:"name"`
	CreatedBy   string       `json:"createdBy"`
	Settings    SettingsItem `json:"settings"`
	ActiveUsers []MemberItem `json:"activeUsers,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type RoomsListResponse struct {
	Items      []RoomItem `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
}
