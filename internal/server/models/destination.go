package models

// Destination is a place on a user's travel wishlist.
type Destination struct {
	ID        int64    `json:"id"`
	UserID    string   `json:"-"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Notes     *string  `json:"notes"`
	Visited   bool     `json:"visited"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// DestinationStats summarises a user's wishlist.
type DestinationStats struct {
	Total    int `json:"total"`
	Visited  int `json:"visited"`
	Wishlist int `json:"wishlist"`
}
