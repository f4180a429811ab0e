package client

import (
	"context"
	"fmt"
)

// TripInput is the payload for creating or editing a trip.
type TripInput struct {
	FromCity  string  `json:"from_city,omitempty"`
	ToCity    string  `json:"to_city,omitempty"`
	Date      string  `json:"date,omitempty"`
	Time      string  `json:"time,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Seats     int     `json:"seats,omitempty"`
	Note      string  `json:"note,omitempty"`
	CarModel  string  `json:"carModel,omitempty"`
	CarColor  string  `json:"carColor,omitempty"`
	CarNumber string  `json:"numberCar,omitempty"`
}

// FetchTrips replaces the available-trips collection.
func (c *Client) FetchTrips(ctx context.Context) ([]Trip, error) {
	var resp struct {
		Trips []Trip `json:"trips"`
	}
	if err := c.get(ctx, "/trips", &resp); err != nil {
		c.Trips.fail(err)
		return nil, err
	}
	c.Trips.replaceAll(resp.Trips)
	return resp.Trips, nil
}

// FetchMyTrips replaces the own-trips collection.
func (c *Client) FetchMyTrips(ctx context.Context) ([]Trip, error) {
	var resp struct {
		Trips []Trip `json:"trips"`
	}
	if err := c.get(ctx, "/my-trips", &resp); err != nil {
		c.MyTrips.fail(err)
		return nil, err
	}
	c.MyTrips.replaceAll(resp.Trips)
	return resp.Trips, nil
}

// CreateTrip publishes a trip and prepends the server's copy locally.
func (c *Client) CreateTrip(ctx context.Context, input TripInput) (*Trip, error) {
	var trip Trip
	if err := c.post(ctx, "/trip", input, &trip); err != nil {
		c.MyTrips.fail(err)
		return nil, err
	}
	c.MyTrips.prepend(trip)
	return &trip, nil
}

// UpdateTrip edits a trip and replaces the local copy with the server's.
func (c *Client) UpdateTrip(ctx context.Context, id uint, input TripInput) (*Trip, error) {
	var trip Trip
	if err := c.patch(ctx, fmt.Sprintf("/trips/%d", id), input, &trip); err != nil {
		c.MyTrips.fail(err)
		return nil, err
	}
	c.MyTrips.replace(trip)
	return &trip, nil
}

// CancelTrip cancels a trip; the local copy flips to cancelled only after
// the server confirms.
func (c *Client) CancelTrip(ctx context.Context, id uint) error {
	if err := c.delete(ctx, fmt.Sprintf("/trips/%d", id)); err != nil {
		c.MyTrips.fail(err)
		return err
	}
	c.MyTrips.mutate(id, func(t *Trip) { t.Status = "cancelled" })
	return nil
}

// CompleteTrip settles a trip and flips the local copy to completed.
func (c *Client) CompleteTrip(ctx context.Context, id uint) (*SettlementResult, error) {
	var result SettlementResult
	if err := c.post(ctx, fmt.Sprintf("/trips/%d/complete", id), nil, &result); err != nil {
		c.MyTrips.fail(err)
		return nil, err
	}
	c.MyTrips.mutate(id, func(t *Trip) { t.Status = "completed" })
	return &result, nil
}
