package constant

const (
	Error    = "error"
	UserID   = "user_id"
	UserName = "username"
	RoomID   = "room_id"
	ConnID   = "conn_id"
)
