package api

import "fmt"

// Validate checks that SupporterCreateRequest has all required fields.
func (r *SupporterCreateRequest) Validate() error {
	if r.ClientID == "" {
		return fmt.Errorf("clientId is required")
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("fields is required")
	}
	if email, _ := r.Fields["email"].(string); email == "" {
		return fmt.Errorf("fields.email is required")
	}
	return nil
}

// Validate checks that SupporterUpdateRequest has all required fields.
func (r *SupporterUpdateRequest) Validate() error {
	if r.ClientID == "" {
		return fmt.Errorf("clientId is required")
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("fields is required")
	}
	return nil
}

// Validate checks that ActionCreateRequest has all required fields.
func (r *ActionCreateRequest) Validate() error {
	if r.ClientID == "" {
		return fmt.Errorf("clientId is required")
	}
	if page, _ := r.Fields["page"].(string); page == "" {
		return fmt.Errorf("fields.page is required")
	}
	if email, _ := r.Fields["email"].(string); email == "" {
		return fmt.Errorf("fields.email is required")
	}
	return nil
}
