package building

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("building not found")
	ErrEmptyName = errors.New("name cannot be empty")
	ErrHasFloors = errors.New("building still has floors")
)

// Building is a campus building that groups floors.
type Building struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
}

// Filter defines parameters for listing buildings.
type Filter struct {
	Keyword  string
	Page     int
	PageSize int
}
