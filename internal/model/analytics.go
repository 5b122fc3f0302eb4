package model

// StatusCount is a grouped count keyed by a status-like label.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ClassCount is a grouped count keyed by company class.
type ClassCount struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// IndustryCount is a grouped count keyed by industrial classification.
type IndustryCount struct {
	Industry string `json:"industry"`
	Count    int    `json:"count"`
}

// YearCount is a grouped count keyed by registration year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// CapitalStats holds capital aggregates rounded to 2 decimal places.
// Null capital values are excluded, not coerced to zero.
type CapitalStats struct {
	AvgAuthorized   float64 `json:"avgAuthorized"`
	MaxAuthorized   float64 `json:"maxAuthorized"`
	TotalAuthorized float64 `json:"totalAuthorized"`
	AvgPaidup       float64 `json:"avgPaidup"`
	MaxPaidup       float64 `json:"maxPaidup"`
	TotalPaidup     float64 `json:"totalPaidup"`
}

// AnalyticsSummary is the dashboard summary, recomputed fresh per request
// over the entire dataset regardless of any table-view filters.
type AnalyticsSummary struct {
	Total              int             `json:"total"`
	ByStatus           []StatusCount   `json:"byStatus"`
	ByClass            []ClassCount    `json:"byClass"`
	TopIndustries      []IndustryCount `json:"topIndustries"`
	Capital            *CapitalStats   `json:"capital"`
	RegistrationTrends []YearCount     `json:"registrationTrends"`
	ByListing          []StatusCount   `json:"byListing"`
}
