package actionkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/groundswell-hq/actionkit-adapter/pkg/model"
)

const venueTag = "ACTIONKIT"

// Mapper converts vendor records into canonical models. It extracts only the
// fields the adapter's API exposes; the untouched vendor record rides along in Raw.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

// ToSupporter maps an ActionKit user record to a canonical Supporter.
func (m *Mapper) ToSupporter(rec Record, clientID string) *model.Supporter {
	raw, _ := json.Marshal(rec)
	return &model.Supporter{
		ID:         idString(rec["id"]),
		ClientID:   clientID,
		Email:      rec.String("email"),
		FirstName:  rec.String("first_name"),
		LastName:   rec.String("last_name"),
		Zip:        rec.String("zip"),
		Country:    rec.String("country"),
		Source:     rec.String("source"),
		Subscribed: rec.String("subscription_status") == "subscribed" || rec.Bool("subscribed"),
		CreatedAt:  rec.String("created_at"),
		UpdatedAt:  rec.String("updated_at"),
		Raw:        raw,
		Venue:      venueTag,
		FetchedAt:  time.Now().UTC(),
	}
}

// ToDonation maps an ActionKit order record to a canonical Donation.
// ActionKit reports monetary totals as strings ("25.00").
func (m *Mapper) ToDonation(rec Record, clientID string) (*model.Donation, error) {
	total, err := decimalField(rec, "total")
	if err != nil {
		return nil, fmt.Errorf("map donation: %w", err)
	}

	raw, _ := json.Marshal(rec)
	return &model.Donation{
		ID:          idString(rec["id"]),
		ClientID:    clientID,
		SupporterID: IDFromURI(rec.String("user")),
		Total:       total,
		Currency:    strings.ToUpper(rec.String("currency")),
		Status:      rec.String("status"),
		ImportID:    rec.String("import_id"),
		CreatedAt:   rec.String("created_at"),
		Raw:         raw,
		Venue:       venueTag,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// decimalField parses a monetary field that may arrive as string or number.
func decimalField(rec Record, key string) (decimal.Decimal, error) {
	switch v := rec[key].(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case nil:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("field %q has unsupported type %T", key, v)
	}
}

// idString renders a vendor identifier (number or string) as a string.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return decimal.NewFromFloat(id).String()
	default:
		return ""
	}
}

// IDFromURI extracts the trailing identifier from an ActionKit resource URI
// ("/rest/v1/user/123/" → "123").
func IDFromURI(uri string) string {
	trimmed := strings.TrimRight(uri, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
