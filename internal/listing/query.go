package listing

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"realty_bureau_backend/internal/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope restricts which listings a browse query may see.
type Scope int

const (
	// ScopeAll honours the approved filter as given.
	ScopeAll Scope = iota
	// ScopePublic only ever returns approved listings.
	ScopePublic
)

// SortField is one ordering term.
type SortField struct {
	Column string
	Desc   bool
}

// sortColumns maps accepted sort names to columns.
var sortColumns = map[string]string{
	"createdAt":      "created_at",
	"created_at":     "created_at",
	"updatedAt":      "updated_at",
	"updated_at":     "updated_at",
	"price":          "price",
	"title":          "title",
	"plotSize":       "plot_size_value",
	"plotSize.value": "plot_size_value",
	"plot_size":      "plot_size_value",
	"status":         "status",
	"category":       "category",
}

var defaultSort = []SortField{{Column: "created_at", Desc: true}}

// Query is a normalized browse request.
type Query struct {
	common.PaginationQuery
	Approved *bool
	Status   *Status
	Category *Category
	City     string
	MinPrice *float64
	MaxPrice *float64
	Sort     []SortField
	Scope    Scope
}

// ParseQuery normalizes browse parameters. Pagination is coerced, never
// rejected; enumerated and numeric filters that do not parse are reported as
// a validation error keyed by parameter name.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{
		PaginationQuery: common.NewPaginationQuery(values.Get("page"), values.Get("limit")),
		City:            strings.TrimSpace(values.Get("city")),
		Sort:            ParseSort(values.Get("sort")),
	}
	details := map[string]string{}

	if values.Has("approved") {
		approved := strings.EqualFold(strings.TrimSpace(values.Get("approved")), "true")
		q.Approved = &approved
	}
	if raw := strings.TrimSpace(values.Get("status")); raw != "" {
		s := Status(raw)
		if !s.IsValid() {
			details["status"] = fmt.Sprintf("status must be one of [%s %s %s]", StatusAvailable, StatusSold, StatusReserved)
		} else {
			q.Status = &s
		}
	}
	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		c := Category(raw)
		if !c.IsValid() {
			details["category"] = fmt.Sprintf("category must be one of [%s %s]", CategoryResidential, CategoryCommercial)
		} else {
			q.Category = &c
		}
	}
	for _, p := range []struct {
		name string
		dst  **float64
	}{{"minPrice", &q.MinPrice}, {"maxPrice", &q.MaxPrice}} {
		raw := strings.TrimSpace(values.Get(p.name))
		if raw == "" {
			continue
		}
		f, err := common.ParseNumber(raw)
		if err != nil || f < 0 {
			details[p.name] = p.name + " must be a non-negative number"
			continue
		}
		*p.dst = &f
	}

	if len(details) > 0 {
		return q, common.NewValidationAPIError(details)
	}
	return q, nil
}

// ParseSort reads a comma or space separated list of field names, each optionally
// prefixed with "-" for descending order. Unknown names are skipped; an empty
// result falls back to newest first.
func ParseSort(raw string) []SortField {
	var out []SortField
	seen := map[string]bool{}
	terms := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for _, term := range terms {
		desc := false
		switch {
		case strings.HasPrefix(term, "-"):
			desc = true
			term = term[1:]
		case strings.HasPrefix(term, "+"):
			term = term[1:]
		}
		col, ok := sortColumns[term]
		if !ok || seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, SortField{Column: col, Desc: desc})
	}
	if len(out) == 0 {
		return append([]SortField(nil), defaultSort...)
	}
	return out
}

// EffectiveApproved is the approval predicate after the scope is applied.
func (q Query) EffectiveApproved() *bool {
	if q.Scope == ScopePublic {
		t := true
		return &t
	}
	return q.Approved
}

// Filter adds the WHERE predicates of q to db.
func (q Query) Filter(db *gorm.DB) *gorm.DB {
	if approved := q.EffectiveApproved(); approved != nil {
		db = db.Where("approved = ?", *approved)
	}
	if q.Status != nil {
		db = db.Where("status = ?", string(*q.Status))
	}
	if q.Category != nil {
		db = db.Where("category = ?", string(*q.Category))
	}
	if q.City != "" {
		db = db.Where(`LOWER(location_city) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q.City))+"%")
	}
	if q.MinPrice != nil {
		db = db.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("price <= ?", *q.MaxPrice)
	}
	return db
}

// Order adds the ORDER BY terms of q to db, ending with id for a stable page
// boundary.
func (q Query) Order(db *gorm.DB) *gorm.DB {
	sort := q.Sort
	if len(sort) == 0 {
		sort = defaultSort
	}
	for _, s := range sort {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
