// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting navigation links (count / next / previous) are
// delivered in the API response envelope.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta carries the navigation block included in API list responses.
//
// Next and Previous are absolute URLs for the adjacent pages, or nil when the
// adjacent page does not exist.
type Meta struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// NewMeta constructs navigation metadata for a list response.
//
// The next/previous URLs are derived from the incoming request URL with only
// the "page" query parameter replaced, so active filters survive navigation.
func NewMeta(request *http.Request, params Params, total int) Meta {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	meta := Meta{Count: total}

	if params.Page < totalPages {
		meta.Next = pageURL(request, params.Page+1)
	}
	if params.Page > 1 && total > 0 {
		prev := params.Page - 1
		if prev > totalPages {
			prev = totalPages
		}
		meta.Previous = pageURL(request, prev)
	}

	return meta
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultPage], [DefaultLimit], or [MaxLimit].
func FromRequest(r *http.Request) Params {
	page := parseIntParam(r, "page", DefaultPage)
	limit := parseIntParam(r, "limit", DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

// pageURL rebuilds the request URL pointing at the given page number.
func pageURL(request *http.Request, page int) *string {
	u := *request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	link := u.String()
	if u.Host == "" && request.Host != "" {
		scheme := "http"
		if request.TLS != nil {
			scheme = "https"
		}
		link = scheme + "://" + request.Host + link
	}

	return &link
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
