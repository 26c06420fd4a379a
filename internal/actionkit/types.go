package actionkit

import "context"

// Record is an opaque mapping of field name to value, exactly as deserialized
// from an ActionKit response. The vendor owns the schema; the adapter passes
// it through and lets the mapper pick out what it needs.
type Record map[string]any

// String returns the record field as a string, or "" when absent or not a string.
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the record field as a bool, or false when absent.
func (r Record) Bool(key string) bool {
	if v, ok := r[key].(bool); ok {
		return v
	}
	return false
}

// ListMeta is the paging envelope ActionKit attaches to collection responses.
type ListMeta struct {
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
	Next       string `json:"next"`
	Previous   string `json:"previous"`
	TotalCount int    `json:"total_count"`
}

// List is a single page of a collection resource. Paging is caller-driven:
// the adapter never follows Next automatically.
type List struct {
	Meta    ListMeta `json:"meta"`
	Objects []Record `json:"objects"`
}

// CredentialsResolver resolves per-client ActionKit credentials.
type CredentialsResolver interface {
	// Resolve fetches the Credentials for a given client ID, using cache when available.
	Resolve(ctx context.Context, clientID string) (*Credentials, error)

	// DiscoverClients lists all client IDs that have ActionKit secrets configured.
	DiscoverClients(ctx context.Context) ([]string, error)
}
