// Package catalog implements the product catalog operations: item lookup,
// keyword search, browse node retrieval and variation listing.
package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/partnerlink/partnerlink-go/rest"
)

type Client struct {
	api *rest.Client
}

func New(api *rest.Client) *Client {
	return &Client{api: api}
}

// Money is a localized price amount.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Display  string  `json:"display,omitempty"`
}

// Item is a catalog item as returned by lookup and search operations. Field
// presence depends on the resources requested.
type Item struct {
	ItemID        string   `json:"itemId"`
	Title         string   `json:"title,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	DetailPageURL string   `json:"detailPageUrl,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Price         *Money   `json:"price,omitempty"`
	BrowseNodeIDs []string `json:"browseNodeIds,omitempty"`
}

// BrowseNode is a node of the category tree.
type BrowseNode struct {
	ID              string       `json:"id"`
	DisplayName     string       `json:"displayName"`
	ContextFreeName string       `json:"contextFreeName,omitempty"`
	IsRoot          bool         `json:"isRoot,omitempty"`
	Children        []BrowseNode `json:"children,omitempty"`
	Ancestor        *BrowseNode  `json:"ancestor,omitempty"`
}

type GetItemsRequest struct {
	ItemIDs     []string `json:"itemIds"`
	Resources   []string `json:"resources,omitempty"`
	Marketplace string   `json:"marketplace,omitempty"`
	PartnerTag  string   `json:"partnerTag,omitempty"`
}

type GetItemsResponse struct {
	Items []Item `json:"items"`
}

type SearchItemsRequest struct {
	Keywords    string   `json:"keywords"`
	SearchIndex string   `json:"searchIndex,omitempty"`
	ItemPage    int      `json:"itemPage,omitempty"`
	Resources   []string `json:"resources,omitempty"`
	Marketplace string   `json:"marketplace,omitempty"`
	PartnerTag  string   `json:"partnerTag,omitempty"`
}

type SearchItemsResponse struct {
	Items            []Item `json:"items"`
	TotalResultCount int    `json:"totalResultCount"`
	SearchURL        string `json:"searchUrl,omitempty"`
}

type GetBrowseNodesRequest struct {
	BrowseNodeIDs []string `json:"browseNodeIds"`
	Marketplace   string   `json:"marketplace,omitempty"`
	PartnerTag    string   `json:"partnerTag,omitempty"`
}

type GetBrowseNodesResponse struct {
	BrowseNodes []BrowseNode `json:"browseNodes"`
}

type GetVariationsRequest struct {
	ItemID        string   `json:"itemId"`
	VariationPage int      `json:"variationPage,omitempty"`
	Resources     []string `json:"resources,omitempty"`
	Marketplace   string   `json:"marketplace,omitempty"`
	PartnerTag    string   `json:"partnerTag,omitempty"`
}

type GetVariationsResponse struct {
	Items          []Item `json:"items"`
	VariationCount int    `json:"variationCount"`
}

// GetItems looks up catalog items by their identifiers.
func (c *Client) GetItems(ctx context.Context, req GetItemsRequest) (*GetItemsResponse, error) {
	if len(req.ItemIDs) == 0 {
		return nil, errors.New("at least one item ID is required")
	}
	c.applyDefaults(&req.Marketplace, &req.PartnerTag)

	var out GetItemsResponse
	if err := c.api.Do(ctx, http.MethodPost, "v1/catalog/getItems", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchItems searches the catalog by keywords.
func (c *Client) SearchItems(ctx context.Context, req SearchItemsRequest) (*SearchItemsResponse, error) {
	if req.Keywords == "" {
		return nil, errors.New("keywords are required")
	}
	c.applyDefaults(&req.Marketplace, &req.PartnerTag)

	var out SearchItemsResponse
	if err := c.api.Do(ctx, http.MethodPost, "v1/catalog/searchItems", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBrowseNodes retrieves category tree nodes by their identifiers.
func (c *Client) GetBrowseNodes(ctx context.Context, req GetBrowseNodesRequest) (*GetBrowseNodesResponse, error) {
	if len(req.BrowseNodeIDs) == 0 {
		return nil, errors.New("at least one browse node ID is required")
	}
	c.applyDefaults(&req.Marketplace, &req.PartnerTag)

	var out GetBrowseNodesResponse
	if err := c.api.Do(ctx, http.MethodPost, "v1/catalog/getBrowseNodes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVariations lists the variations of a parent item.
func (c *Client) GetVariations(ctx context.Context, req GetVariationsRequest) (*GetVariationsResponse, error) {
	if req.ItemID == "" {
		return nil, errors.New("item ID is required")
	}
	c.applyDefaults(&req.Marketplace, &req.PartnerTag)

	var out GetVariationsResponse
	if err := c.api.Do(ctx, http.MethodPost, "v1/catalog/getVariations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// applyDefaults fills marketplace and partner tag from the client
// configuration when the request leaves them empty.
func (c *Client) applyDefaults(marketplace, partnerTag *string) {
	if *marketplace == "" {
		*marketplace = c.api.Marketplace()
	}
	if *partnerTag == "" {
		*partnerTag = c.api.PartnerTag()
	}
}
