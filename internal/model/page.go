package model

import (
	"fmt"
	"math"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps Offset within a Postgres bigint for any page size.
	MaxPage         = math.MaxInt32
)

type SortDirection string

const (
	SortDirectionAsc  SortDirection = "ASC"
	SortDirectionDesc SortDirection = "DESC"
)

func (d SortDirection) Validate() error {
	switch d {
	case SortDirectionAsc, SortDirectionDesc:
		return nil
	default:
		return fmt.Errorf("invalid sort direction: %q", string(d))
	}
}

// PageRequest selects a zero-based page of a sorted collection. SortBy must be
// one of the sort fields of the listed collection.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	Direction SortDirection
}

// Normalize fills in defaults and clamps the page index and size.
func (r PageRequest) Normalize(defaultSortBy string) PageRequest {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Page > MaxPage {
		r.Page = MaxPage
	}
	if r.Size <= 0 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	if r.SortBy == "" {
		r.SortBy = defaultSortBy
	}
	if r.Direction == "" {
		r.Direction = SortDirectionAsc
	}
	return r
}

func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Page is one page of a collection along with its position in the whole.
type Page[T any] struct {
	Data        []T
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PageSize    int
	HasNext     bool
	HasPrevious bool
}

// NewPage builds a Page from the data of req's page and the collection total.
func NewPage[T any](data []T, req PageRequest, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page[T]{
		Data:        data,
		CurrentPage: req.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		PageSize:    req.Size,
		HasNext:     req.Page+1 < totalPages,
		HasPrevious: req.Page > 0,
	}
}

// MapPage converts the data of a page, keeping its position.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	data := make([]U, 0, len(p.Data))
	for _, v := range p.Data {
		data = append(data, fn(v))
	}

	return Page[U]{
		Data:        data,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalItems:  p.TotalItems,
		PageSize:    p.PageSize,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

// ValidateSort checks that the sort field of r is a valid S and that the
// direction is known. Call it after Normalize.
func ValidateSort[S interface {
	~string
	Validate() error
}](r PageRequest) error {
	if err := S(r.SortBy).Validate(); err != nil {
		return err
	}
	return r.Direction.Validate()
}
