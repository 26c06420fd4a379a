package api

// SupporterCreateRequest is the payload for creating a supporter.
// Fields passes through to the vendor untouched beyond the validated minimum.
type SupporterCreateRequest struct {
	ClientID string         `json:"clientId"`
	Fields   map[string]any `json:"fields"`
}

// SupporterUpdateRequest is the payload for a partial supporter update.
type SupporterUpdateRequest struct {
	ClientID string         `json:"clientId"`
	Fields   map[string]any `json:"fields"`
}

// ActionCreateRequest is the payload for recording an action against a page.
type ActionCreateRequest struct {
	ClientID string         `json:"clientId"`
	Fields   map[string]any `json:"fields"`
}
