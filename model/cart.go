package model

import (
	"time"

	"cinema_storefront/utils"
)

// CartLineItem is one reserved seat as the backend returns it.
type CartLineItem struct {
	SeatId             int             `json:"seat_id"`
	ShowtimeId         int             `json:"showtime_id"`
	Price              float64         `json:"price"`
	ReservedUntil      utils.Timestamp `json:"reserved_until"`
	SeatTypeDiscountId *int            `json:"seat_type_discount_id"`
}

// CartResponse is the body of GET /user/cart and GET /guest/cart.
type CartResponse struct {
	CartItems  []CartLineItem  `json:"cart_items"`
	ValidUntil utils.Timestamp `json:"valid_until"`
}

// Ack is the body of a successful cart mutation.
type Ack struct {
	Message       string          `json:"message"`
	ReservedUntil utils.Timestamp `json:"reserved_until"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

type AddCartItemInput struct {
	SeatId     int     `json:"seat_id"`
	Price      float64 `json:"price"`
	ShowtimeId int     `json:"showtime_id"`
	GuestId    string  `json:"guest_id,omitempty"`
}

type UpdateCartItemInput struct {
	SeatId             int    `json:"seat_id"`
	ShowtimeId         int    `json:"showtime_id"`
	SeatTypeDiscountId *int   `json:"seat_type_discount_id"`
	GuestId            string `json:"guest_id,omitempty"`
}

// EnrichedCartItem is a line item joined with seat, showtime, movie and discount data.
// Seat fields are nil when the lookups for the item failed.
type EnrichedCartItem struct {
	SeatId             int             `json:"seat_id"`
	ShowtimeId         int             `json:"showtime_id"`
	Price              float64         `json:"price"`
	ReservedUntil      utils.Timestamp `json:"reserved_until"`
	SeatTypeDiscountId *int            `json:"seat_type_discount_id"`

	Row        *string `json:"row"`
	Number     *int    `json:"number"`
	Type       *string `json:"type"`
	SeatTypeId *int    `json:"seat_type_id"`
	ScreenId   *int    `json:"screen_id"`

	Showtime         *Showtime        `json:"showtime"`
	Movie            *Movie           `json:"movie"`
	Discounts        []DiscountOption `json:"discounts"`
	SelectedDiscount *DiscountOption  `json:"selectedDiscount"`
	Degraded         bool             `json:"degraded"`
}

// FinalPrice is the price after the selected discount.
func (i EnrichedCartItem) FinalPrice() float64 {
	if i.SelectedDiscount == nil {
		return i.Price
	}
	return i.SelectedDiscount.Apply(i.Price)
}

// CartSnapshot is one complete view of the cart. It is replaced, never patched.
type CartSnapshot struct {
	Items      []EnrichedCartItem `json:"items"`
	ValidUntil *time.Time         `json:"valid_until"`
	Error      *string            `json:"error"`
	Warnings   []string           `json:"warnings,omitempty"`
	Generation uint64             `json:"generation"`
}

// Clone copies the slices so subscribers cannot mutate the published snapshot.
func (s CartSnapshot) Clone() CartSnapshot {
	out := s
	if s.Items != nil {
		out.Items = make([]EnrichedCartItem, len(s.Items))
		for i, item := range s.Items {
			if item.Discounts != nil {
				item.Discounts = append([]DiscountOption(nil), item.Discounts...)
			}
			out.Items[i] = item
		}
	}
	if s.Warnings != nil {
		out.Warnings = append([]string(nil), s.Warnings...)
	}
	if s.ValidUntil != nil {
		v := *s.ValidUntil
		out.ValidUntil = &v
	}
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	return out
}

type TimerState struct {
	SecondsLeft int    `json:"secondsLeft"`
	Warning     bool   `json:"warning"`
	Running     bool   `json:"running"`
	Display     string `json:"display"`
}

// Notification is a cart outcome for the shopper (toast or dialog).
type Notification struct {
	Kind    string `json:"kind"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

type AddToCartInput struct {
	SeatId     int     `json:"seatId" validate:"required,gt=0"`
	Price      float64 `json:"price" validate:"gte=0"`
	ShowtimeId int     `json:"showtimeId" validate:"required,gt=0"`
	Row        string  `json:"row"`
	Number     int     `json:"number"`
}

func (i AddToCartInput) Seat() SeatSelection {
	return SeatSelection{SeatId: i.SeatId, Price: i.Price, Row: i.Row, Number: i.Number}
}

// CartItemKey identifies a reserved seat from the route params.
type CartItemKey struct {
	ShowtimeId int
	SeatId     int
}

type DiscountInput struct {
	SeatTypeDiscountId *int `json:"seatTypeDiscountId" validate:"omitempty,gt=0"`
}

// CartView is the storefront's cart payload.
type CartView struct {
	Cart         CartSnapshot `json:"cart"`
	Total        float64      `json:"total"`
	TotalDisplay string       `json:"totalDisplay"`
	Timer        TimerState   `json:"timer"`
}
