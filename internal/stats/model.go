package stats

// StatusCount is the number of bookings in one status within the window.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// RoomCount ranks rooms by booking volume.
type RoomCount struct {
	RoomID   string `json:"room_id"`
	RoomName string `json:"room_name"`
	Count    int    `json:"count"`
}

// BuildingHours sums confirmed booking hours per building.
type BuildingHours struct {
	BuildingID   string  `json:"building_id"`
	BuildingName string  `json:"building_name"`
	Hours        float64 `json:"hours"`
}

type Summary struct {
	ByStatus   []StatusCount   `json:"by_status"`
	TopRooms   []RoomCount     `json:"top_rooms"`
	ByBuilding []BuildingHours `json:"by_building"`
}
