// Package query converts raw, untyped list-endpoint parameters into a typed
// filter specification and a pagination plan. Every resource handler declares
// an allow-list of filterable fields; anything outside the allow-list is
// ignored, so a typo in a query key can never change result semantics.
//
// Conventions (shared by every resource):
//   - page / limit           positive integers; malformed or non-positive
//     values silently fall back to defaults, limit is clamped to a maximum
//   - sortBy / sortOrder     sortOrder is "asc" or "desc"; anything else is desc
//   - min<Field> / max<Field> numeric range bounds for MatchNumberRange fields
//   - start<Field> / end<Field> RFC 3339 bounds for MatchDateRange fields
//
// Identifier-typed fields are the one strict case: a malformed identifier is a
// 400 naming the offending parameter, because silently dropping it would turn
// a scoped listing into a full listing.
package query

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/respond"
)

// Match selects how a declared field is compared against the stored value.
type Match int

const (
	// MatchExact compares for equality on the raw string value.
	MatchExact Match = iota
	// MatchContains performs a case-insensitive substring match.
	MatchContains
	// MatchBool parses the value as a boolean ("true", "1", ...).
	MatchBool
	// MatchID validates the value as a UUID and compares for equality.
	// Malformed values fail translation with a 400 naming the field.
	MatchID
	// MatchNumberRange consumes the min<Field>/max<Field> parameter pair.
	MatchNumberRange
	// MatchDateRange consumes the start<Field>/end<Field> parameter pair.
	MatchDateRange
	// MatchIn matches set membership; values may be repeated parameters or a
	// single comma-separated parameter.
	MatchIn
)

// FieldSpec declares one filterable field of a resource: the inbound query
// parameter name, the database column it maps to, and the match mode.
// When Column is empty the snake_case form of Name is used.
type FieldSpec struct {
	Name   string
	Column string
	Match  Match
}

func (f FieldSpec) column() string {
	if f.Column != "" {
		return f.Column
	}
	return snakeCase(f.Name)
}

// condition is a single typed predicate of a translated filter.
type condition struct {
	clause string
	args   []any
}

// Filter is the validated, typed set of predicates for one list request.
// It is immutable after translation and applied opaquely to a store query.
type Filter struct {
	conds   []condition
	applied map[string]any
}

// Apply composes the filter's predicates onto a GORM query.
func (f Filter) Apply(db *gorm.DB) *gorm.DB {
	for _, c := range f.conds {
		db = db.Where(c.clause, c.args...)
	}
	return db
}

// Applied returns the filters actually in effect, keyed by parameter name,
// for inclusion in list response metadata. Nil when no filter was applied.
func (f Filter) Applied() map[string]any {
	if len(f.applied) == 0 {
		return nil
	}
	return f.applied
}

// Empty reports whether the filter carries no predicates.
func (f Filter) Empty() bool { return len(f.conds) == 0 }

// Translate validates rawParams against the field allow-list and returns the
// typed filter plus the pagination plan. It is a pure function of its inputs.
//
// The only error condition is a malformed identifier-typed parameter, which
// yields a 400 ApiError naming the parameter.
func Translate(rawParams url.Values, fields []FieldSpec, opt Options) (Filter, Plan, error) {
	f := Filter{applied: map[string]any{}}

	for _, spec := range fields {
		switch spec.Match {
		case MatchNumberRange:
			if err := translateNumberRange(&f, rawParams, spec); err != nil {
				return Filter{}, Plan{}, err
			}
		case MatchDateRange:
			translateDateRange(&f, rawParams, spec)
		case MatchIn:
			translateIn(&f, rawParams, spec)
		default:
			raw := strings.TrimSpace(rawParams.Get(spec.Name))
			if raw == "" {
				continue
			}
			if err := translateScalar(&f, spec, raw); err != nil {
				return Filter{}, Plan{}, err
			}
		}
	}

	return f, translatePlan(rawParams, opt), nil
}

func translateScalar(f *Filter, spec FieldSpec, raw string) error {
	col := spec.column()
	switch spec.Match {
	case MatchExact:
		f.conds = append(f.conds, condition{col + " = ?", []any{raw}})
		f.applied[spec.Name] = raw
	case MatchContains:
		pattern := "%" + strings.ToLower(raw) + "%"
		f.conds = append(f.conds, condition{"LOWER(" + col + ") LIKE ?", []any{pattern}})
		f.applied[spec.Name] = raw
	case MatchBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			// Lenient like page/limit: an unparseable boolean is ignored.
			return nil
		}
		f.conds = append(f.conds, condition{col + " = ?", []any{b}})
		f.applied[spec.Name] = b
	case MatchID:
		if _, err := uuid.Parse(raw); err != nil {
			return respond.NewApiError(http.StatusBadRequest, "Invalid "+spec.Name)
		}
		f.conds = append(f.conds, condition{col + " = ?", []any{raw}})
		f.applied[spec.Name] = raw
	}
	return nil
}

func translateNumberRange(f *Filter, params url.Values, spec FieldSpec) error {
	col := spec.column()
	minRaw := strings.TrimSpace(params.Get("min" + upperFirst(spec.Name)))
	maxRaw := strings.TrimSpace(params.Get("max" + upperFirst(spec.Name)))
	bounds := map[string]float64{}

	if minRaw != "" {
		v, err := strconv.ParseFloat(minRaw, 64)
		if err != nil {
			return respond.NewApiError(http.StatusBadRequest, fmt.Sprintf("Invalid min%s", upperFirst(spec.Name)))
		}
		f.conds = append(f.conds, condition{col + " >= ?", []any{v}})
		bounds["min"] = v
	}
	if maxRaw != "" {
		v, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil {
			return respond.NewApiError(http.StatusBadRequest, fmt.Sprintf("Invalid max%s", upperFirst(spec.Name)))
		}
		f.conds = append(f.conds, condition{col + " <= ?", []any{v}})
		bounds["max"] = v
	}
	if len(bounds) > 0 {
		f.applied[spec.Name] = bounds
	}
	return nil
}

func translateDateRange(f *Filter, params url.Values, spec FieldSpec) {
	col := spec.column()
	startRaw := strings.TrimSpace(params.Get("start" + upperFirst(spec.Name)))
	endRaw := strings.TrimSpace(params.Get("end" + upperFirst(spec.Name)))
	bounds := map[string]string{}

	if t, ok := parseDate(startRaw); ok {
		f.conds = append(f.conds, condition{col + " >= ?", []any{t}})
		bounds["start"] = t.Format(time.RFC3339)
	}
	if t, ok := parseDate(endRaw); ok {
		f.conds = append(f.conds, condition{col + " <= ?", []any{t}})
		bounds["end"] = t.Format(time.RFC3339)
	}
	if len(bounds) > 0 {
		f.applied[spec.Name] = bounds
	}
}

func translateIn(f *Filter, params url.Values, spec FieldSpec) {
	var values []string
	for _, raw := range params[spec.Name] {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				values = append(values, p)
			}
		}
	}
	if len(values) == 0 {
		return
	}
	f.conds = append(f.conds, condition{spec.column() + " IN ?", []any{values}})
	f.applied[spec.Name] = values
}

// parseDate accepts RFC 3339 timestamps or plain dates (2006-01-02).
// Malformed values are ignored, consistent with the lenient pagination rules.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// snakeCase converts a camelCase parameter name to its column form,
// e.g. "categoryId" -> "category_id".
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
