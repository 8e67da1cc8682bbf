// Package feeds implements the feed submission operations.
package feeds

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/partnerlink/partnerlink-go/rest"
)

type Client struct {
	api *rest.Client
}

func New(api *rest.Client) *Client {
	return &Client{api: api}
}

// Feed describes a submitted feed and its processing state.
type Feed struct {
	FeedID            string    `json:"feedId"`
	FeedType          string    `json:"feedType"`
	Status            string    `json:"status"`
	ClientReference   string    `json:"clientReference,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	ResultDocumentURL string    `json:"resultDocumentUrl,omitempty"`
}

type CreateFeedRequest struct {
	FeedType         string `json:"feedType"`
	InputDocumentURL string `json:"inputDocumentUrl,omitempty"`

	// ClientReference deduplicates repeated submissions on the server side.
	// A random reference is generated when left empty.
	ClientReference string `json:"clientReference,omitempty"`

	Marketplace string `json:"marketplace,omitempty"`
}

// CreateFeed submits a new feed for processing.
func (c *Client) CreateFeed(ctx context.Context, req CreateFeedRequest) (*Feed, error) {
	if req.FeedType == "" {
		return nil, errors.New("feed type is required")
	}
	if req.ClientReference == "" {
		req.ClientReference = uuid.NewString()
	}
	if req.Marketplace == "" {
		req.Marketplace = c.api.Marketplace()
	}

	var out Feed
	if err := c.api.Do(ctx, http.MethodPost, "v1/feeds", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFeed retrieves the current state of a submitted feed.
func (c *Client) GetFeed(ctx context.Context, feedID string) (*Feed, error) {
	if feedID == "" {
		return nil, errors.New("feed ID is required")
	}

	var out Feed
	if err := c.api.Do(ctx, http.MethodGet, "v1/feeds/"+feedID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
