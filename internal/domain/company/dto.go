// internal/domain/company/dto.go
package company

import (
	"eventora-service/internal/domain/plan"
)

// PopulatedCompany is a company with its subscription reference expanded.
// The outer field shadows the embedded id on serialization.
type PopulatedCompany struct {
	*Company
	Subscription *plan.Plan `json:"subscription,omitempty"`
}
