package routing

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.einride.tech/aip/ordering"
)

// Query parameter names used by Values and FromValues.
const (
	ParamFilter  = "filter"
	ParamSortBy  = "sortBy"
	ParamSortDir = "sortDir"
	ParamOrderBy = "order_by"
	ParamLimit   = "limit"
	ParamPage    = "page"
)

// ErrMultipleOrderFields is returned for order_by values naming more than one field.
var ErrMultipleOrderFields = errors.New("order_by supports a single field")

// Values encodes the state as URL query parameters, omitting absent fields.
func Values(s State) url.Values {
	v := url.Values{}
	if s.Search.Filter != nil {
		v.Set(ParamFilter, *s.Search.Filter)
	}
	if s.SortBy != "" {
		v.Set(ParamSortBy, s.SortBy)
		if s.SortDir != "" {
			v.Set(ParamSortDir, s.SortDir)
		}
	}
	if s.Pager.Limit != nil {
		v.Set(ParamLimit, strconv.Itoa(*s.Pager.Limit))
	}
	if s.Pager.SelectedPage != nil {
		v.Set(ParamPage, strconv.Itoa(*s.Pager.SelectedPage))
	}
	return v
}

// FromValues decodes URL query parameters. An AIP-132 order_by parameter is
// accepted in place of sortBy/sortDir. Malformed numbers are reported.
func FromValues(v url.Values) (State, error) {
	var s State
	if v.Has(ParamFilter) {
		filter := v.Get(ParamFilter)
		s.Search.Filter = &filter
	}
	s.SortBy = v.Get(ParamSortBy)
	s.SortDir = strings.ToLower(v.Get(ParamSortDir))
	if s.SortDir != "" && s.SortDir != DirAsc && s.SortDir != DirDesc {
		return State{}, fmt.Errorf("parse %s: unknown direction %q", ParamSortDir, s.SortDir)
	}
	if raw := v.Get(ParamOrderBy); raw != "" && s.SortBy == "" {
		field, dir, err := ParseOrderBy(raw)
		if err != nil {
			return State{}, err
		}
		s.SortBy, s.SortDir = field, dir
	}
	if raw := v.Get(ParamLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return State{}, fmt.Errorf("parse %s: invalid value %q", ParamLimit, raw)
		}
		s.Pager.Limit = &limit
	}
	if raw := v.Get(ParamPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return State{}, fmt.Errorf("parse %s: invalid value %q", ParamPage, raw)
		}
		s.Pager.SelectedPage = &page
	}
	return s, nil
}

// ParseQuery decodes a raw query string such as "filter=x&page=2".
func ParseQuery(raw string) (State, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return State{}, fmt.Errorf("parse query: %w", err)
	}
	return FromValues(v)
}

// ParseOrderBy reads a single-field AIP-132 ordering like "name desc".
func ParseOrderBy(raw string) (field, dir string, err error) {
	var orderBy ordering.OrderBy
	if err := orderBy.UnmarshalString(raw); err != nil {
		return "", "", fmt.Errorf("parse %s: %w", ParamOrderBy, err)
	}
	switch len(orderBy.Fields) {
	case 0:
		return "", "", nil
	case 1:
	default:
		return "", "", ErrMultipleOrderFields
	}
	f := orderBy.Fields[0]
	if f.Desc {
		return f.Path, DirDesc, nil
	}
	return f.Path, DirAsc, nil
}

// OrderBy formats the sort half of s as an AIP-132 ordering.
func OrderBy(s State) string {
	if s.SortBy == "" {
		return ""
	}
	if s.SortDir == DirDesc {
		return s.SortBy + " desc"
	}
	return s.SortBy
}
