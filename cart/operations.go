package cart

import (
	"context"
	"errors"
	"fmt"

	"cinema_storefront/constants"
	"cinema_storefront/model"
)

type mutation func(ctx context.Context, id model.Identity) (model.Ack, error)

// mutate runs one backend write and reloads on success. The reload publishes
// a snapshot with an empty error slot. Failures go to the error slot and are
// returned unchanged; the cart is not reloaded.
func (s *Store) mutate(ctx context.Context, fallback string, call mutation) (model.CartSnapshot, error) {
	id, err := s.identity.Current(ctx)
	if err != nil {
		s.fail(err, fallback, true)
		return s.Snapshot(), err
	}

	if _, err := call(ctx, id); err != nil {
		s.fail(err, fallback, false)
		return s.Snapshot(), err
	}

	snap, err := s.Reload(ctx)
	if errors.Is(err, ErrSuperseded) {
		return snap, nil
	}
	return snap, err
}

// Add reserves seat for showtimeID.
func (s *Store) Add(ctx context.Context, seat model.SeatSelection, showtimeID int) (model.CartSnapshot, error) {
	snap, err := s.mutate(ctx, constants.CART_ADD_FAILED, func(ctx context.Context, id model.Identity) (model.Ack, error) {
		return s.gateway.AddItem(ctx, id, seat.SeatId, seat.Price, showtimeID)
	})
	if err == nil {
		s.notify(model.Notification{Kind: constants.NOTIFY_SUCCESS, Message: fmt.Sprintf(constants.CART_ITEM_ADDED, seat.Row, seat.Number)})
	}
	return snap, err
}

func (s *Store) Remove(ctx context.Context, seatID, showtimeID int) (model.CartSnapshot, error) {
	snap, err := s.mutate(ctx, constants.CART_REMOVE_FAILED, func(ctx context.Context, id model.Identity) (model.Ack, error) {
		return s.gateway.RemoveItem(ctx, id, showtimeID, seatID)
	})
	if err == nil {
		s.notify(model.Notification{Kind: constants.NOTIFY_SUCCESS, Message: constants.CART_ITEM_REMOVED})
	}
	return snap, err
}

func (s *Store) Clear(ctx context.Context) (model.CartSnapshot, error) {
	snap, err := s.mutate(ctx, constants.CART_CLEAR_FAILED, func(ctx context.Context, id model.Identity) (model.Ack, error) {
		return s.gateway.ClearCart(ctx, id)
	})
	if err == nil {
		s.notify(model.Notification{Kind: constants.NOTIFY_SUCCESS, Message: constants.CART_CLEARED})
	}
	return snap, err
}

// UpdateDiscount selects a discount for a reserved seat; nil removes it.
func (s *Store) UpdateDiscount(ctx context.Context, seatID, showtimeID int, seatTypeDiscountID *int) (model.CartSnapshot, error) {
	row, number := s.seatLabel(seatID, showtimeID)
	snap, err := s.mutate(ctx, constants.CART_DISCOUNT_FAILED, func(ctx context.Context, id model.Identity) (model.Ack, error) {
		return s.gateway.UpdateDiscount(ctx, id, seatID, showtimeID, seatTypeDiscountID)
	})
	if err == nil {
		s.notify(model.Notification{Kind: constants.NOTIFY_SUCCESS, Message: fmt.Sprintf(constants.CART_DISCOUNT_UPDATED, row, number)})
	}
	return snap, err
}

func (s *Store) seatLabel(seatID, showtimeID int) (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.snapshot.Items {
		if item.SeatId == seatID && item.ShowtimeId == showtimeID && item.Row != nil && item.Number != nil {
			return *item.Row, *item.Number
		}
	}
	return "", seatID
}
