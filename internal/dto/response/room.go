package response

const (
	RoomBusy = 0
	RoomFree = 1
)

// RoomStatusResponse keeps the field names existing clients read.
type RoomStatusResponse struct {
	RoomStatus int      `json:"room_status"`
	TimeRange  []string `json:"timeRange"`
}
