package models

import "time"

// LeadRecord is the slice of a construction lead the engine reads for conditional
// matching and project visibility. The full record lives in the external store.
type LeadRecord struct {
	ProjectCode string    `json:"project_code" validate:"required"`
	Title       string    `json:"title"`
	Division    string    `json:"division"`
	Region      string    `json:"region"`
	Sector      string    `json:"sector"`
	Stage       string    `json:"stage,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Field returns the lead value for a conditional rule field.
func (l LeadRecord) Field(f ConditionField) string {
	switch f {
	case FieldDivision:
		return l.Division
	case FieldRegion:
		return l.Region
	case FieldSector:
		return l.Sector
	}

	return ""
}
