package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partnerlink/partnerlink-go/internal/testhelpers"
	"github.com/partnerlink/partnerlink-go/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mock *testhelpers.MockAPIServer) *Client {
	t.Helper()
	api, err := rest.New(mock.Server.URL, nil, "www.example.io", "tag-20")
	require.NoError(t, err)
	return New(api)
}

func TestCreateReport(t *testing.T) {
	mock := testhelpers.SetupMockAPIServer(t)
	mock.Body = `{
		"reportId": "report-123",
		"reportType": "EARNINGS",
		"status": "IN_PROGRESS",
		"createdAt": "2026-08-30T10:00:00Z"
	}`

	client := newTestClient(t, mock)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	report, err := client.CreateReport(context.Background(), CreateReportRequest{
		ReportType:      "EARNINGS",
		StartTime:       &start,
		EndTime:         &end,
		ClientReference: "ref-42",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/reports", mock.LastPath)
	assert.Equal(t, "report-123", report.ReportID)
	assert.Equal(t, "IN_PROGRESS", report.Status)

	var sent CreateReportRequest
	require.NoError(t, json.Unmarshal(mock.LastBody, &sent))
	assert.Equal(t, "ref-42", sent.ClientReference)
	assert.Equal(t, "www.example.io", sent.Marketplace)
	require.NotNil(t, sent.StartTime)
	assert.True(t, start.Equal(*sent.StartTime))
}

func TestCreateReport_GeneratesClientReference(t *testing.T) {
	mock := testhelpers.SetupMockAPIServer(t)
	mock.Body = `{"reportId": "report-123", "status": "IN_PROGRESS", "createdAt": "2026-08-30T10:00:00Z"}`

	client := newTestClient(t, mock)

	_, err := client.CreateReport(context.Background(), CreateReportRequest{ReportType: "EARNINGS"})
	require.NoError(t, err)

	var sent CreateReportRequest
	require.NoError(t, json.Unmarshal(mock.LastBody, &sent))
	require.NotEmpty(t, sent.ClientReference)

	_, err = uuid.Parse(sent.ClientReference)
	assert.NoError(t, err, "generated reference is a UUID")
}

func TestCreateReport_RequiresReportType(t *testing.T) {
	mock := testhelpers.SetupMockAPIServer(t)
	client := newTestClient(t, mock)

	_, err := client.CreateReport(context.Background(), CreateReportRequest{})
	assert.ErrorContains(t, err, "report type is required")
	assert.Zero(t, mock.RequestCount)
}

func TestGetReport(t *testing.T) {
	mock := testhelpers.SetupMockAPIServer(t)
	mock.Body = `{
		"reportId": "report-123",
		"reportType": "EARNINGS",
		"status": "DONE",
		"createdAt": "2026-08-30T10:00:00Z",
		"completedAt": "2026-08-30T10:05:00Z",
		"documentUrl": "https://docs.example.io/report/1"
	}`

	client := newTestClient(t, mock)

	report, err := client.GetReport(context.Background(), "report-123")
	require.NoError(t, err)

	assert.Equal(t, "/v1/reports/report-123", mock.LastPath)
	assert.Equal(t, "DONE", report.Status)
	require.NotNil(t, report.CompletedAt)
	assert.Equal(t, "https://docs.example.io/report/1", report.DocumentURL)
}

func TestGetReport_RequiresID(t *testing.T) {
	mock := testhelpers.SetupMockAPIServer(t)
	client := newTestClient(t, mock)

	_, err := client.GetReport(context.Background(), "")
	assert.ErrorContains(t, err, "report ID is required")
}

func TestGetReport_APIError(t *testing.T) {
	mock := testhelpers.SetupMockAPIServer(t)
	mock.StatusCode = http.StatusForbidden
	mock.Body = `{"error":{"code":"AccessDenied","message":"report belongs to another account"}}`

	client := newTestClient(t, mock)

	_, err := client.GetReport(context.Background(), "report-123")
	require.Error(t, err)

	var apiErr *rest.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "AccessDenied", apiErr.Code)
}
