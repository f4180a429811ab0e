package client

import (
	"context"
	"fmt"
)

// RateUser rates the other party of a completed trip.
func (c *Client) RateUser(ctx context.Context, tripID, userID uint, score int, comment string) (*Rating, error) {
	var rating Rating
	err := c.post(ctx, fmt.Sprintf("/ratings/%d/to/%d", tripID, userID), map[string]interface{}{
		"rating":  score,
		"comment": comment,
	}, &rating)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// FetchUserRatings lists ratings received by a user with their average.
func (c *Client) FetchUserRatings(ctx context.Context, userID uint) ([]Rating, float64, error) {
	var resp struct {
		Ratings []Rating `json:"ratings"`
		Average float64  `json:"average"`
	}
	if err := c.get(ctx, fmt.Sprintf("/ratings/user/%d", userID), &resp); err != nil {
		return nil, 0, err
	}
	return resp.Ratings, resp.Average, nil
}

// FetchGivenRatings lists ratings the current user has given.
func (c *Client) FetchGivenRatings(ctx context.Context) ([]Rating, error) {
	var resp struct {
		Ratings []Rating `json:"ratings"`
	}
	if err := c.get(ctx, "/ratings/given", &resp); err != nil {
		return nil, err
	}
	return resp.Ratings, nil
}
