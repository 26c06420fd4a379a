package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/groundswell-hq/actionkit-adapter/internal/actionkit"
	"github.com/groundswell-hq/actionkit-adapter/internal/rate"
	"github.com/groundswell-hq/actionkit-adapter/pkg/model"
)

// --- Mock Service ---

type mockService struct {
	lookupFn func(ctx context.Context, clientID string, id int64) (*model.Supporter, error)
	listFn   func(ctx context.Context, clientID string, params url.Values) (*actionkit.List, error)
	createFn func(ctx context.Context, clientID string, fields actionkit.Record) (*model.SupporterEvent, error)
	updateFn func(ctx context.Context, clientID string, id int64, fields actionkit.Record) error
	orderFn  func(ctx context.Context, clientID string, id int64) (*model.Donation, error)
	actionFn func(ctx context.Context, clientID string, fields actionkit.Record) (string, error)
}

func (m *mockService) LookupSupporter(ctx context.Context, clientID string, id int64) (*model.Supporter, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, clientID, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockService) ListSupporters(ctx context.Context, clientID string, params url.Values) (*actionkit.List, error) {
	if m.listFn != nil {
		return m.listFn(ctx, clientID, params)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockService) CreateSupporter(ctx context.Context, clientID string, fields actionkit.Record) (*model.SupporterEvent, error) {
	if m.createFn != nil {
		return m.createFn(ctx, clientID, fields)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockService) UpdateSupporter(ctx context.Context, clientID string, id int64, fields actionkit.Record) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, clientID, id, fields)
	}
	return fmt.Errorf("not implemented")
}

func (m *mockService) GetDonation(ctx context.Context, clientID string, id int64) (*model.Donation, error) {
	if m.orderFn != nil {
		return m.orderFn(ctx, clientID, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockService) PushAction(ctx context.Context, clientID string, fields actionkit.Record) (string, error) {
	if m.actionFn != nil {
		return m.actionFn(ctx, clientID, fields)
	}
	return "", fmt.Errorf("not implemented")
}

// --- Test Helpers ---

func newTestApp(svc SupporterService, limiter *rate.Manager) *fiber.App {
	app := fiber.New()
	handler := NewHandler(zap.NewNop(), svc, limiter)
	v1 := app.Group("/api/v1")
	v1.Get("/supporters", handler.ListSupportersHandler)
	v1.Get("/supporters/:id", handler.GetSupporterHandler)
	v1.Post("/supporters", handler.CreateSupporterHandler)
	v1.Patch("/supporters/:id", handler.UpdateSupporterHandler)
	v1.Get("/donations/:id", handler.GetDonationHandler)
	v1.Post("/actions", handler.CreateActionHandler)
	return app
}

// --- GetSupporterHandler Tests ---

func TestGetSupporterHandler_Success(t *testing.T) {
	svc := &mockService{
		lookupFn: func(ctx context.Context, clientID string, id int64) (*model.Supporter, error) {
			assert.Equal(t, "acme", clientID)
			assert.Equal(t, int64(123), id)
			return &model.Supporter{ID: "123", ClientID: clientID, Email: "a@example.com"}, nil
		},
	}
	app := newTestApp(svc, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/supporters/123?clientId=acme", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var sup model.Supporter
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sup))
	assert.Equal(t, "a@example.com", sup.Email)
}

func TestGetSupporterHandler_MissingClientID(t *testing.T) {
	app := newTestApp(&mockService{}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/supporters/123", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSupporterHandler_NonNumericID(t *testing.T) {
	app := newTestApp(&mockService{}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/supporters/abc?clientId=acme", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSupporterHandler_VendorNotFound(t *testing.T) {
	svc := &mockService{
		lookupFn: func(ctx context.Context, clientID string, id int64) (*model.Supporter, error) {
			return nil, &actionkit.RemoteAPIError{StatusCode: 404, Body: []byte(`{"error": "not found"}`)}
		},
	}
	app := newTestApp(svc, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/supporters/999?clientId=acme", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSupporterHandler_VendorServerError(t *testing.T) {
	svc := &mockService{
		lookupFn: func(ctx context.Context, clientID string, id int64) (*model.Supporter, error) {
			return nil, &actionkit.RemoteAPIError{StatusCode: 500, Body: []byte(`oops`)}
		},
	}
	app := newTestApp(svc, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/supporters/1?clientId=acme", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGetSupporterHandler_RateLimited(t *testing.T) {
	svc := &mockService{
		lookupFn: func(ctx context.Context, clientID string, id int64) (*model.Supporter, error) {
			return &model.Supporter{ID: "1"}, nil
		},
	}
	limiter := rate.NewManager(rate.Config{RequestsPerSecond: 1, Burst: 1})
	app := newTestApp(svc, limiter)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/supporters/1?clientId=acme", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req2, _ := http.NewRequest(http.MethodGet, "/api/v1/supporters/1?clientId=acme", nil)
	resp2, err := app.Test(req2)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp2.StatusCode)
}

// --- ListSupportersHandler Tests ---

func TestListSupportersHandler_PassthroughParams(t *testing.T) {
	svc := &mockService{
		listFn: func(ctx context.Context, clientID string, params url.Values) (*actionkit.List, error) {
			assert.Equal(t, "20", params.Get("_limit"))
			assert.Equal(t, "40", params.Get("_offset"))
			assert.Empty(t, params.Get("clientId"))
			return &actionkit.List{
				Meta:    actionkit.ListMeta{Limit: 20, Offset: 40, TotalCount: 104},
				Objects: []actionkit.Record{{"id": float64(41)}},
			}, nil
		},
	}
	app := newTestApp(svc, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/supporters?clientId=acme&_limit=20&_offset=40", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"total_count":104`)
}

// --- CreateSupporterHandler Tests ---

func TestCreateSupporterHandler_Success(t *testing.T) {
	svc := &mockService{
		createFn: func(ctx context.Context, clientID string, fields actionkit.Record) (*model.SupporterEvent, error) {
			assert.Equal(t, "acme", clientID)
			assert.Equal(t, "new@example.com", fields.String("email"))
			return &model.SupporterEvent{SupporterID: "321", ResourceURI: "/rest/v1/user/321/", Action: "created"}, nil
		},
	}
	app := newTestApp(svc, nil)

	body := `{"clientId": "acme", "fields": {"email": "new@example.com", "zip": "02139"}}`
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/supporters", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created SupporterCreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "321", created.SupporterID)
}

func TestCreateSupporterHandler_MissingEmail(t *testing.T) {
	app := newTestApp(&mockService{}, nil)

	body := `{"clientId": "acme", "fields": {"zip": "02139"}}`
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/supporters", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// --- UpdateSupporterHandler Tests ---

func TestUpdateSupporterHandler_Success(t *testing.T) {
	svc := &mockService{
		updateFn: func(ctx context.Context, clientID string, id int64, fields actionkit.Record) error {
			assert.Equal(t, int64(123), id)
			assert.Equal(t, "94110", fields.String("zip"))
			return nil
		},
	}
	app := newTestApp(svc, nil)

	body := `{"clientId": "acme", "fields": {"zip": "94110"}}`
	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/supporters/123", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// --- CreateActionHandler Tests ---

func TestCreateActionHandler_Success(t *testing.T) {
	svc := &mockService{
		actionFn: func(ctx context.Context, clientID string, fields actionkit.Record) (string, error) {
			return "/rest/v1/action/987/", nil
		},
	}
	app := newTestApp(svc, nil)

	body := `{"clientId": "acme", "fields": {"page": "petition_1", "email": "a@example.com"}}`
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created ActionCreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "/rest/v1/action/987/", created.ResourceURI)
}

func TestCreateActionHandler_MissingPage(t *testing.T) {
	app := newTestApp(&mockService{}, nil)

	body := `{"clientId": "acme", "fields": {"email": "a@example.com"}}`
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
