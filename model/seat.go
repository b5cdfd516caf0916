package model

import "cinema_storefront/utils"

// Seat is the backend's seat detail as returned by GET /seats/:seat_id.
type Seat struct {
	SeatId     int          `json:"seat_id"`
	ScreenId   int          `json:"screen_id"`
	Row        string       `json:"row"`
	Number     int          `json:"number"`
	Type       string       `json:"type"` // seat type name, e.g. "Loge"
	Price      utils.Amount `json:"price"`
	SeatTypeId int          `json:"seat_type_id"`
}

type SeatEnvelope struct {
	Seat *Seat `json:"seat"`
}

// SeatSelection is what the storefront knows about a seat the user clicked.
type SeatSelection struct {
	SeatId int     `json:"seatId" validate:"required,gt=0"`
	Price  float64 `json:"price" validate:"gte=0"`
	Row    string  `json:"row"`
	Number int     `json:"number"`
}
