package redis

import (
	"context"
	"fmt"
)

const reviewKeyPrefix = "review:matching:"

// ReviewStore reads the review markers the review subsystem publishes to
// Redis. This service never writes them.
type ReviewStore struct {
	client *Client
}

func NewReviewStore(client *Client) *ReviewStore {
	return &ReviewStore{client: client}
}

func (s *ReviewStore) IsReviewed(ctx context.Context, matchingID string) (bool, error) {
	n, err := s.client.Exists(ctx, reviewKeyPrefix+matchingID).Result()
	if err != nil {
		return false, fmt.Errorf("check review marker: %w", err)
	}
	return n > 0, nil
}
