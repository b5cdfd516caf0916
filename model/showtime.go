package model

import "cinema_storefront/utils"

type Showtime struct {
	ShowtimeId int             `json:"showtime_id"`
	MovieId    int             `json:"movie_id"`
	ScreenId   int             `json:"screen_id"`
	StartTime  utils.Timestamp `json:"start_time"`
	EndTime    utils.Timestamp `json:"end_time"`
	ScreenName string          `json:"screen_name"`
}

type ShowtimeEnvelope struct {
	Showtimes []Showtime `json:"showtimes"`
}

// Find picks the entry with the given id; the list endpoint may ignore the filter.
func (e ShowtimeEnvelope) Find(showtimeId int) *Showtime {
	for i := range e.Showtimes {
		if e.Showtimes[i].ShowtimeId == showtimeId {
			s := e.Showtimes[i]
			return &s
		}
	}
	return nil
}
