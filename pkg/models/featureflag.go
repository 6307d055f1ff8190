package models

// FeatureFlag gates the existence of individual workflow steps. Lookups for names
// the registry does not know fail open (the step is treated as enabled).
type FeatureFlag struct {
	Name        string `json:"name" validate:"required"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
}
