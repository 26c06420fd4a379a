package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/groundswell-hq/actionkit-adapter/internal/actionkit"
)

// SupporterCreateResponse is returned after a successful create.
type SupporterCreateResponse struct {
	SupporterID string `json:"supporterId"`
	ResourceURI string `json:"resourceUri"`
}

// ActionCreateResponse is returned after a successful action push.
type ActionCreateResponse struct {
	ResourceURI string `json:"resourceUri"`
}

// statusForError maps vendor-call failures to an HTTP status for the adapter's
// own API: vendor 404s pass through, everything else the vendor or network did
// wrong is a bad gateway, and the rest is the caller's fault.
func statusForError(err error) int {
	var apiErr *actionkit.RemoteAPIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == fiber.StatusNotFound {
			return fiber.StatusNotFound
		}
		return fiber.StatusBadGateway
	}
	var transportErr *actionkit.TransportError
	if errors.As(err, &transportErr) {
		return fiber.StatusBadGateway
	}
	var parseErr *actionkit.ParseError
	if errors.As(err, &parseErr) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusBadRequest
}
