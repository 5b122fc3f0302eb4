// Package model defines the company record domain types shared by the
// store, server, and client packages.
package model

import (
	"strings"
	"time"
)

// CompanyClass enumerates the known company class values.
type CompanyClass string

const (
	ClassPrivate CompanyClass = "Private"
	ClassPublic  CompanyClass = "Public"
)

// CompanyStatus enumerates the known operational status values.
type CompanyStatus string

const (
	StatusActive    CompanyStatus = "Active"
	StatusStrikeOff CompanyStatus = "Strike Off"
)

// ListingStatus enumerates stock listing states.
type ListingStatus string

const (
	Listed   ListingStatus = "Listed"
	Unlisted ListingStatus = "Unlisted"
)

// Company is a single registry record. Records are externally sourced and
// read-only for the lifetime of the serving process; ID is the only field
// guaranteed monotonic and stable, and is the pagination cursor key.
type Company struct {
	ID                int64      `json:"id"`
	CIN               string     `json:"cin"`
	Name              string     `json:"company_name"`
	ROCCode           string     `json:"company_roc_code"`
	Category          string     `json:"company_category"`
	SubCategory       string     `json:"company_sub_category"`
	Class             string     `json:"company_class"`
	AuthorizedCapital *float64   `json:"authorized_capital"`
	PaidupCapital     *float64   `json:"paidup_capital"`
	RegistrationDate  *time.Time `json:"company_registration_date"`
	Address           string     `json:"registered_office_address"`
	ListingStatus     string     `json:"listing_status"`
	Status            string     `json:"company_status"`
	StateCode         string     `json:"company_state_code"`
	IndianForeign     string     `json:"company_indian_foreign"`
	NICCode           string     `json:"nic_code"`
	Industry          string     `json:"company_industrial_classification"`
}

// RegistrationYear returns the year of registration, or 0 when the
// registration date is unknown.
func (c Company) RegistrationYear() int {
	if c.RegistrationDate == nil {
		return 0
	}
	return c.RegistrationDate.Year()
}

// FilterSelection holds the client's selected filter values. An empty slice
// or string means the dimension is unconstrained. Dimensions combine with
// AND; values within a dimension combine with OR.
type FilterSelection struct {
	Statuses   []string `json:"statuses,omitempty"`
	Classes    []string `json:"classes,omitempty"`
	Years      []int    `json:"years,omitempty"`
	Industries []string `json:"industries,omitempty"`
	StateCodes []string `json:"state_codes,omitempty"`
	Search     string   `json:"search,omitempty"`
}

// Active reports whether any dimension is constrained.
func (f FilterSelection) Active() bool {
	return len(f.Statuses) > 0 || len(f.Classes) > 0 || len(f.Years) > 0 ||
		len(f.Industries) > 0 || len(f.StateCodes) > 0 || f.Search != ""
}

// Matches reports whether a company satisfies every active dimension.
// This is the reference predicate the compiled SQL must agree with.
func (f FilterSelection) Matches(c Company) bool {
	if len(f.Statuses) > 0 && !contains(f.Statuses, c.Status) {
		return false
	}
	if len(f.Classes) > 0 && !contains(f.Classes, c.Class) {
		return false
	}
	if len(f.Industries) > 0 && !contains(f.Industries, c.Industry) {
		return false
	}
	if len(f.StateCodes) > 0 && !contains(f.StateCodes, c.StateCode) {
		return false
	}
	if len(f.Years) > 0 {
		year := c.RegistrationYear()
		if year == 0 {
			return false
		}
		found := false
		for _, y := range f.Years {
			if y == year {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Name), s) &&
			!strings.Contains(strings.ToLower(c.CIN), s) {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Page is one server response in a pagination session. NextCursor is the id
// of the last record when the page is full, nil when the data is exhausted.
// Total and FilteredTotal are populated only on the first page (cursor 0).
type Page struct {
	Records       []Company `json:"records"`
	NextCursor    *int64    `json:"nextCursor"`
	Total         *int      `json:"total,omitempty"`
	FilteredTotal *int      `json:"filteredTotal,omitempty"`
}

// Session identifies an authenticated user.
type Session struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}
