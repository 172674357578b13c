package domain

import (
	"net/url"
	"strconv"
)

// ListOptions shapes a request against a paginated collection. The
// OData fields map one-to-one onto Graph query parameters; MaxItems is
// applied client-side while following continuation links.
type ListOptions struct {
	// Top hints the server page size ($top). Zero leaves the server
	// default in place.
	Top int

	// MaxItems bounds the total number of items yielded across all
	// pages. Zero means unbounded.
	MaxItems int

	// Filter is an OData $filter expression.
	Filter string

	// Select names the fields to return ($select).
	Select []string

	// OrderBy is an OData $orderby expression.
	OrderBy string

	// Search is an OData $search expression, quoted as given.
	Search string

	// Expand names related resources to inline ($expand).
	Expand string
}

// Values renders the options as Graph query parameters.
func (o ListOptions) Values() url.Values {
	v := url.Values{}
	if o.Top > 0 {
		v.Set("$top", strconv.Itoa(o.Top))
	}
	if o.Filter != "" {
		v.Set("$filter", o.Filter)
	}
	if len(o.Select) > 0 {
		v.Set("$select", joinComma(o.Select))
	}
	if o.OrderBy != "" {
		v.Set("$orderby", o.OrderBy)
	}
	if o.Search != "" {
		v.Set("$search", o.Search)
	}
	if o.Expand != "" {
		v.Set("$expand", o.Expand)
	}
	return v
}

func joinComma(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "," + p
	}
	return out
}
