package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"cinema_storefront/model"
)

func (c *Client) FetchSeat(ctx context.Context, seatID int) (*model.Seat, error) {
	var out model.SeatEnvelope
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/seats/%d", seatID), fallback: "Fehler beim Abrufen des Sitzes"}, &out)
	if err != nil {
		return nil, err
	}
	if out.Seat == nil {
		return nil, &RemoteError{Status: http.StatusNotFound, Message: "Sitz nicht gefunden"}
	}
	return out.Seat, nil
}

// FetchShowtime returns nil without error when the backend lists no matching entry.
func (c *Client) FetchShowtime(ctx context.Context, showtimeID int) (*model.Showtime, error) {
	var out model.ShowtimeEnvelope
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/showtimes",
		query:    url.Values{"showtime_id": []string{strconv.Itoa(showtimeID)}},
		fallback: "Fehler beim Abrufen der Showtimes",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Find(showtimeID), nil
}

func (c *Client) FetchMovie(ctx context.Context, movieID int) (*model.Movie, error) {
	var out model.Movie
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/movies/%d", movieID), fallback: fmt.Sprintf("Unable to fetch details for movie ID %d", movieID)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchDiscounts(ctx context.Context, seatTypeID int) ([]model.DiscountOption, error) {
	var out model.DiscountEnvelope
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/discount/%d", seatTypeID), fallback: "Fehler beim Abrufen des Discounts für Sitztyp"}, &out)
	if err != nil {
		return nil, err
	}
	if out.Discounts == nil {
		return []model.DiscountOption{}, nil
	}
	return out.Discounts, nil
}
