package model

// Movie is the subset of the backend's movie detail the cart renders.
type Movie struct {
	Id          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	Slug        string  `json:"slug"`
}
