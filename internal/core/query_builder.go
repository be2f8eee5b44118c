package core

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// RequestKind selects the metadata endpoint a planned request goes to.
type RequestKind string

const (
	RequestSearch   RequestKind = "search"
	RequestDiscover RequestKind = "discover"
)

var (
	ErrInvalidYearToken = errors.New("invalid year token")
	ErrInvalidGenreID   = errors.New("invalid genre id")
	ErrInvalidRating    = errors.New("invalid rating threshold")
)

// MovieQuery is the set of filters selected on the movie list.
type MovieQuery struct {
	Search  string
	Genres  []string  // genre ids
	Years   []string  // "2022" or "2005-2007"
	Ratings []float64 // minimum-rating thresholds; the lowest one applies
	Page    int
}

// DiscoverRequest is one planned outbound request.
type DiscoverRequest struct {
	Kind      RequestKind
	Query     string // search text, RequestSearch only
	YearToken string // RequestDiscover fan-out only
	Page      int
	Params    url.Values
}

// QueryPlan is the full set of requests for one movie list page. When
// Interleave is set the per-request results are merged round-robin.
type QueryPlan struct {
	Requests   []DiscoverRequest
	Interleave bool
}

// YearBound is a parsed year token.
type YearBound struct {
	Start int
	End   int
	Range bool
}

// ParseYearToken accepts "YYYY" or "YYYY-YYYY" with start <= end.
func ParseYearToken(tok string) (YearBound, error) {
	tok = strings.TrimSpace(tok)
	if start, end, ok := strings.Cut(tok, "-"); ok {
		s, err := parseYear(start)
		if err != nil {
			return YearBound{}, fmt.Errorf("%w: %q", ErrInvalidYearToken, tok)
		}
		e, err := parseYear(end)
		if err != nil || e < s {
			return YearBound{}, fmt.Errorf("%w: %q", ErrInvalidYearToken, tok)
		}
		return YearBound{Start: s, End: e, Range: true}, nil
	}
	y, err := parseYear(tok)
	if err != nil {
		return YearBound{}, fmt.Errorf("%w: %q", ErrInvalidYearToken, tok)
	}
	return YearBound{Start: y, End: y}, nil
}

func parseYear(s string) (int, error) {
	if len(s) != 4 {
		return 0, ErrInvalidYearToken
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidYearToken
		}
	}
	return strconv.Atoi(s)
}

// apply writes the date bound of the token into params.
func (b YearBound) apply(params url.Values) {
	if b.Range {
		params.Set("primary_release_date.gte", fmt.Sprintf("%04d-01-01", b.Start))
		params.Set("primary_release_date.lte", fmt.Sprintf("%04d-12-31", b.End))
		return
	}
	params.Set("primary_release_year", strconv.Itoa(b.Start))
}

// BuildQueryPlan turns the selected filters into outbound requests.
//
// Free text wins over every other filter and yields a single search request.
// Otherwise each selected year token becomes its own discover request sharing
// the genre and rating-floor filters, and the results are interleaved. With no
// year tokens a single discover request sorted by popularity is planned.
func BuildQueryPlan(q MovieQuery) (QueryPlan, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	if text := strings.TrimSpace(q.Search); text != "" {
		params := url.Values{}
		params.Set("query", text)
		return QueryPlan{Requests: []DiscoverRequest{{
			Kind:   RequestSearch,
			Query:  text,
			Page:   page,
			Params: params,
		}}}, nil
	}

	shared, err := sharedDiscoverParams(q, page)
	if err != nil {
		return QueryPlan{}, err
	}

	if len(q.Years) == 0 {
		return QueryPlan{Requests: []DiscoverRequest{{
			Kind:   RequestDiscover,
			Page:   page,
			Params: shared,
		}}}, nil
	}

	plan := QueryPlan{Interleave: true, Requests: make([]DiscoverRequest, 0, len(q.Years))}
	for _, tok := range q.Years {
		bound, err := ParseYearToken(tok)
		if err != nil {
			return QueryPlan{}, err
		}
		params := cloneValues(shared)
		bound.apply(params)
		plan.Requests = append(plan.Requests, DiscoverRequest{
			Kind:      RequestDiscover,
			YearToken: strings.TrimSpace(tok),
			Page:      page,
			Params:    params,
		})
	}
	return plan, nil
}

func sharedDiscoverParams(q MovieQuery, page int) (url.Values, error) {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	if len(q.Genres) > 0 {
		ids := make([]string, 0, len(q.Genres))
		for _, g := range q.Genres {
			g = strings.TrimSpace(g)
			if id, err := strconv.Atoi(g); err != nil || id <= 0 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidGenreID, g)
			}
			ids = append(ids, g)
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}

	if len(q.Ratings) > 0 {
		floor := q.Ratings[0]
		for _, r := range q.Ratings {
			if r < 0 || r > 10 {
				return nil, fmt.Errorf("%w: %v", ErrInvalidRating, r)
			}
			if r < floor {
				floor = r
			}
		}
		params.Set("vote_average.gte", strconv.FormatFloat(floor, 'f', -1, 64))
	}
	return params, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
