package api

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/garnizeh/seekaclimb/internal/catalog"
)

// paginated is the listing envelope. Next and Previous are absolute URLs
// or null.
type paginated[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// pageParam reads ?page=. Missing, malformed and values below 1 mean 1.
// Positive values too large for an int are clamped to math.MaxInt.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return math.MaxInt
	}
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// pageURL is the request URL with page replaced and every other query
// parameter kept.
func pageURL(r *http.Request, page int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}

	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	s := u.String()
	return &s
}

func newPaginated[T any](r *http.Request, p *catalog.Page[T]) paginated[T] {
	out := paginated[T]{Count: p.Total, Results: p.Items}
	if p.HasNext() {
		out.Next = pageURL(r, p.Page+1)
	}
	if p.HasPrev() {
		out.Previous = pageURL(r, p.Page-1)
	}
	return out
}
