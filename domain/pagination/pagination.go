package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
	MaxLimit     int64 = 100
)

type Request struct {
	Page  int64
	Limit int64
}

// Parse coerces raw query values into a Request. Missing, non-numeric or
// non-positive values fall back to the defaults; limit is capped at MaxLimit.
func Parse(rawPage, rawLimit string) Request {
	return New(coerce(rawPage, DefaultPage), coerce(rawLimit, DefaultLimit))
}

func New(page, limit int64) Request {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	return Request{Page: min(page, maxPage(limit)), Limit: limit}
}

// maxPage is the last page whose offset still fits in an int64.
func maxPage(limit int64) int64 {
	return math.MaxInt64/limit + 1
}

func coerce(raw string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return n
	}
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Offset saturates at math.MaxInt64 so a far out-of-range page skips
// everything instead of wrapping negative.
func (r Request) Offset() int64 {
	if r.Page < 2 || r.Limit < 1 {
		return 0
	}
	if r.Page > maxPage(r.Limit) {
		return math.MaxInt64
	}
	return (r.Page - 1) * r.Limit
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
}

// NewPage builds the envelope for one slice. Items is never nil so an
// out-of-range page still renders as an empty list.
func NewPage[T any](items []T, totalItems int64, req Request) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalItems: totalItems,
		TotalPages: TotalPages(totalItems, req.Limit),
		Page:       req.Page,
		Limit:      req.Limit,
	}
}

func TotalPages(totalItems, limit int64) int64 {
	if limit < 1 || totalItems < 1 {
		return 0
	}
	return (totalItems + limit - 1) / limit
}

// Slice pages an already materialised list in memory.
func Slice[T any](all []T, req Request) Page[T] {
	total := int64(len(all))
	start := min(req.Offset(), total)
	end := min(start+req.Limit, total)
	return NewPage(all[start:end], total, req)
}
