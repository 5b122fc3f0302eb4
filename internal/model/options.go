package model

import "strconv"

// Option is a selectable filter value. Label defaults to Value; richer
// labels (title-cased state codes) are set at the boundary that knows them.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// NewOption returns an Option whose label equals its value.
func NewOption(value string) Option {
	return Option{Value: value, Label: value}
}

// YearOption returns an Option for a registration year.
func YearOption(year int) Option {
	return NewOption(strconv.Itoa(year))
}

// FilterOptions lists every distinct value per filterable dimension,
// pre-sorted by the store (years descending, the rest ascending).
type FilterOptions struct {
	Statuses   []Option `json:"statuses"`
	Classes    []Option `json:"classes"`
	Years      []Option `json:"years"`
	Industries []Option `json:"industries"`
	StateCodes []Option `json:"stateCodes"`
}
