package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/groundswell-hq/actionkit-adapter/internal/actionkit"
	"github.com/groundswell-hq/actionkit-adapter/internal/rate"
	"github.com/groundswell-hq/actionkit-adapter/pkg/model"
)

// SupporterService defines the service operations the handler needs.
type SupporterService interface {
	LookupSupporter(ctx context.Context, clientID string, id int64) (*model.Supporter, error)
	ListSupporters(ctx context.Context, clientID string, params url.Values) (*actionkit.List, error)
	CreateSupporter(ctx context.Context, clientID string, fields actionkit.Record) (*model.SupporterEvent, error)
	UpdateSupporter(ctx context.Context, clientID string, id int64, fields actionkit.Record) error
	GetDonation(ctx context.Context, clientID string, id int64) (*model.Donation, error)
	PushAction(ctx context.Context, clientID string, fields actionkit.Record) (string, error)
}

// Handler handles HTTP API requests for ActionKit operations.
type Handler struct {
	logger  *zap.Logger
	service SupporterService
	limiter *rate.Manager
}

// NewHandler creates a new Handler.
// limiter is optional; if nil, inbound rate limiting is skipped.
func NewHandler(logger *zap.Logger, service SupporterService, limiter *rate.Manager) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		limiter: limiter,
	}
}

// allow applies per-client inbound rate limiting. Returns false after writing
// a 429 response.
func (h *Handler) allow(c *fiber.Ctx, clientID string) bool {
	if h.limiter == nil || h.limiter.Allow(clientID) {
		return true
	}
	_ = c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
	return false
}

// GetSupporterHandler handles supporter lookups by numeric ID.
func (h *Handler) GetSupporterHandler(c *fiber.Ctx) error {
	clientID := c.Query("clientId")
	if clientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "clientId is required"})
	}
	if !h.allow(c, clientID) {
		return nil
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be numeric"})
	}

	sup, err := h.service.LookupSupporter(c.Context(), clientID, id)
	if err != nil {
		h.logger.Error("api.get_supporter.failed",
			zap.String("client", clientID),
			zap.Int64("id", id),
			zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(sup)
}

// ListSupportersHandler returns one page of supporter records. Vendor paging
// params (_limit, _offset and field filters) pass through verbatim.
func (h *Handler) ListSupportersHandler(c *fiber.Ctx) error {
	clientID := c.Query("clientId")
	if clientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "clientId is required"})
	}
	if !h.allow(c, clientID) {
		return nil
	}

	params := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		if string(key) == "clientId" {
			return
		}
		params.Add(string(key), string(value))
	})

	page, err := h.service.ListSupporters(c.Context(), clientID, params)
	if err != nil {
		h.logger.Error("api.list_supporters.failed",
			zap.String("client", clientID),
			zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

// CreateSupporterHandler handles supporter creation requests.
func (h *Handler) CreateSupporterHandler(c *fiber.Ctx) error {
	var req SupporterCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !h.allow(c, req.ClientID) {
		return nil
	}

	ev, err := h.service.CreateSupporter(c.Context(), req.ClientID, actionkit.Record(req.Fields))
	if err != nil {
		h.logger.Error("api.create_supporter.failed",
			zap.String("client", req.ClientID),
			zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(SupporterCreateResponse{
		SupporterID: ev.SupporterID,
		ResourceURI: ev.ResourceURI,
	})
}

// UpdateSupporterHandler handles partial supporter updates.
func (h *Handler) UpdateSupporterHandler(c *fiber.Ctx) error {
	var req SupporterUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !h.allow(c, req.ClientID) {
		return nil
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be numeric"})
	}

	if err := h.service.UpdateSupporter(c.Context(), req.ClientID, id, actionkit.Record(req.Fields)); err != nil {
		h.logger.Error("api.update_supporter.failed",
			zap.String("client", req.ClientID),
			zap.Int64("id", id),
			zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetDonationHandler handles donation (order) lookups by numeric ID.
func (h *Handler) GetDonationHandler(c *fiber.Ctx) error {
	clientID := c.Query("clientId")
	if clientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "clientId is required"})
	}
	if !h.allow(c, clientID) {
		return nil
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be numeric"})
	}

	don, err := h.service.GetDonation(c.Context(), clientID, id)
	if err != nil {
		h.logger.Error("api.get_donation.failed",
			zap.String("client", clientID),
			zap.Int64("id", id),
			zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(don)
}

// CreateActionHandler records a generic action against a page.
func (h *Handler) CreateActionHandler(c *fiber.Ctx) error {
	var req ActionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !h.allow(c, req.ClientID) {
		return nil
	}

	uri, err := h.service.PushAction(c.Context(), req.ClientID, actionkit.Record(req.Fields))
	if err != nil {
		h.logger.Error("api.create_action.failed",
			zap.String("client", req.ClientID),
			zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(ActionCreateResponse{ResourceURI: uri})
}
