// Package reports implements the reporting operations.
package reports

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

// Report describes a requested report and its processing state.
type Report struct {
	ReportID        string     `json:"reportId"`
	ReportType      string     `json:"reportType"`
	Status          string     `json:"status"`
	ClientReference string     `json:"clientReference,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	DocumentURL     string     `json:"documentUrl,omitempty"`
}

type CreateReportRequest struct {
	ReportType string     `json:"reportType"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`

	// ClientReference deduplicates repeated requests on the server side.
	// A random reference is generated when left empty.
	ClientReference string `json:"clientReference,omitempty"`

	Marketplace string `json:"marketplace,omitempty"`
}

// CreateReport requests generation of a new report.
func (c *Client) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	if req.ReportType == "" {
		return nil, errors.New("report type is required")
	}
	if req.ClientReference == "" {
		req.ClientReference = uuid.NewString()
	}
	if req.Marketplace == "" {
		req.Marketplace = c.api.Marketplace()
	}

	var out Report
	if err := c.api.Do(ctx, http.MethodPost, "v1/reports", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReport retrieves the current state of a requested report.
func (c *Client) GetReport(ctx context.Context, reportID string) (*Report, error) {
	if reportID == "" {
		return nil, errors.New("report ID is required")
	}

	var out Report
	if err := c.api.Do(ctx, http.MethodGet, "v1/reports/"+reportID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
