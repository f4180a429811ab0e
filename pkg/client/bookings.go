package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// RequestBooking asks for seats on a trip. Every attempt carries a fresh
// idempotency key, so retrying the same returned attempt after an
// ambiguous network failure cannot create a duplicate booking.
func (c *Client) RequestBooking(ctx context.Context, tripID uint, seats int) (*Booking, error) {
	return c.RequestBookingIdempotent(ctx, tripID, seats, uuid.NewString())
}

// RequestBookingIdempotent is RequestBooking with a caller-managed key for
// explicit retries.
func (c *Client) RequestBookingIdempotent(ctx context.Context, tripID uint, seats int, key string) (*Booking, error) {
	var booking Booking
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/trips/%d/booking", tripID),
		map[string]interface{}{"seats": seats}, &booking,
		map[string]string{"Idempotency-Key": key})
	if err != nil {
		c.Bookings.fail(err)
		return nil, err
	}
	c.Bookings.prepend(booking)
	return &booking, nil
}

// FetchBookings replaces the bookings collection.
func (c *Client) FetchBookings(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	if err := c.get(ctx, "/bookings", &bookings); err != nil {
		c.Bookings.fail(err)
		return nil, err
	}
	c.Bookings.replaceAll(bookings)
	return bookings, nil
}

// FetchTripBookings lists bookings on one of the user's own trips.
func (c *Client) FetchTripBookings(ctx context.Context, tripID uint) ([]Booking, error) {
	var bookings []Booking
	if err := c.get(ctx, fmt.Sprintf("/trips/%d/bookings", tripID), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// FetchPendingTripBookings lists the requests on one of the user's own
// trips still awaiting a decision.
func (c *Client) FetchPendingTripBookings(ctx context.Context, tripID uint) ([]Booking, error) {
	var bookings []Booking
	if err := c.get(ctx, fmt.Sprintf("/trips/%d/bookings?status=pending", tripID), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ConfirmBooking approves a pending request on the user's own trip.
func (c *Client) ConfirmBooking(ctx context.Context, id uint) (*Booking, error) {
	return c.setBookingStatus(ctx, id, "confirmed")
}

// DeclineBooking rejects a pending request on the user's own trip.
func (c *Client) DeclineBooking(ctx context.Context, id uint) (*Booking, error) {
	return c.setBookingStatus(ctx, id, "declined")
}

func (c *Client) setBookingStatus(ctx context.Context, id uint, status string) (*Booking, error) {
	var booking Booking
	err := c.patch(ctx, fmt.Sprintf("/bookings/%d", id),
		map[string]string{"status": status}, &booking)
	if err != nil {
		c.Bookings.fail(err)
		return nil, err
	}
	c.Bookings.replace(booking)
	return &booking, nil
}

// CancelBooking cancels an approved booking; seats return to the trip.
func (c *Client) CancelBooking(ctx context.Context, id uint) (*Booking, error) {
	var booking Booking
	if err := c.patch(ctx, fmt.Sprintf("/bookings/%d/cancel", id), nil, &booking); err != nil {
		c.Bookings.fail(err)
		return nil, err
	}
	c.Bookings.replace(booking)
	return &booking, nil
}
