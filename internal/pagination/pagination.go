package pagination

import (
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSize is used when the client does not ask for a page size.
const DefaultSize = 20

// Order is one resolved sort key.
type Order struct {
	Column string
	Desc   bool
}

// PageRequest holds pagination parameters parsed from query strings.
// Page is zero-based; Sort entries look like "date,desc" or "id".
type PageRequest struct {
	Page int      `form:"page" binding:"omitempty,min=0"`
	Size int      `form:"size" binding:"omitempty,min=1,max=100"`
	Sort []string `form:"sort"`

	Orders []Order `form:"-"`
}

// Defaults fills in default values when size is not provided.
func (p *PageRequest) Defaults() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size == 0 {
		p.Size = DefaultSize
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return p.Page * p.Size
}

// ResolveSort translates the requested sort keys into columns using the
// allowed property-to-column map. When no sort is requested, fallback is used.
func (p *PageRequest) ResolveSort(allowed map[string]string, fallback ...Order) error {
	orders := make([]Order, 0, len(p.Sort))
	for _, raw := range p.Sort {
		parts := strings.Split(raw, ",")
		property := strings.TrimSpace(parts[0])
		if property == "" {
			continue
		}
		column, ok := allowed[property]
		if !ok {
			return fmt.Errorf("unsupported sort property %q", property)
		}
		desc := false
		if len(parts) > 1 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "desc":
				desc = true
			case "asc", "":
			default:
				return fmt.Errorf("unsupported sort direction %q", parts[1])
			}
		}
		orders = append(orders, Order{Column: column, Desc: desc})
	}
	if len(orders) == 0 {
		orders = append(orders, fallback...)
	}
	p.Orders = orders
	return nil
}

// Page wraps a paginated list of items with metadata.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage creates a Page from the given content and total count.
func NewPage[T any](content []T, req PageRequest, totalElements int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int(math.Ceil(float64(totalElements) / float64(req.Size)))
	}
	return Page[T]{
		Content:          content,
		TotalElements:    totalElements,
		TotalPages:       totalPages,
		Number:           req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

// Map converts the content of a page while keeping its metadata.
func Map[S, T any](p Page[S], fn func(S) T) Page[T] {
	content := make([]T, len(p.Content))
	for i, item := range p.Content {
		content[i] = fn(item)
	}
	return Page[T]{
		Content:          content,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		Number:           p.Number,
		Size:             p.Size,
		NumberOfElements: p.NumberOfElements,
		First:            p.First,
		Last:             p.Last,
		Empty:            p.Empty,
	}
}

// Paginate returns a GORM scope that applies ORDER BY, OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, o := range req.Orders {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
		}
		return db.Offset(req.Offset()).Limit(req.Size)
	}
}
