// Package handlers provides the HTTP endpoints of the public API.
//
// This file implements the generic resource adapter: the one piece of glue
// every collection endpoint shares. A Resource binds an entity type to its
// field allow-list and store collection and exposes the five standard
// handlers (list, get, create, update, delete) with uniform semantics:
//
//   - list: translate params → count under the filter → find under the same
//     filter and plan → list envelope. meta.total always comes from the
//     count, never from len(data), so an out-of-range page still reports the
//     real total.
//   - mutations: foreign-key-shaped fields are validated as identifiers
//     before any write; a well-formed but absent id is 404, a malformed one
//     is 400; the full post-mutation entity is returned in data.
//
// All failures are recorded with c.Error and shaped by the terminal error
// handler; nothing here writes its own error JSON.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gauravsahdz/ecommerce-api/internal/query"
	"github.com/gauravsahdz/ecommerce-api/internal/respond"
	"github.com/gauravsahdz/ecommerce-api/internal/store"
)

// Resource is the per-entity configuration of the generic adapter.
type Resource[T any] struct {
	// Label is the capitalized singular used in messages ("Product").
	Label string
	// Singular and Plural are the data keys ("product", "products").
	Singular string
	Plural   string

	// Store is the backing collection.
	Store *store.Collection[T]

	// Fields is the filter allow-list handed to the query translator.
	Fields []query.FieldSpec
	// Options carries pagination defaults and permitted sort columns.
	Options query.Options

	// EntityID reads the entity's id; SetID writes it.
	EntityID func(*T) string
	SetID    func(*T, string)

	// PrepareCreate and PrepareUpdate run after binding and before the
	// write. They validate foreign-key identifiers and apply defaults,
	// returning an *respond.ApiError on rejection.
	PrepareCreate func(c *gin.Context, e *T) error
	PrepareUpdate func(c *gin.Context, e *T) error
}

// available lists the query parameters this resource accepts, for the
// filters.available block of list responses.
func (r *Resource[T]) available() []string {
	out := []string{"id"}
	for _, f := range r.Fields {
		switch f.Match {
		case query.MatchNumberRange:
			out = append(out, "min"+upperFirst(f.Name), "max"+upperFirst(f.Name))
		case query.MatchDateRange:
			out = append(out, "start"+upperFirst(f.Name), "end"+upperFirst(f.Name))
		default:
			out = append(out, f.Name)
		}
	}
	return out
}

// List handles GET /<resource>. With ?id= it degrades to a single-entity
// fetch; otherwise it returns a filtered, sorted, paginated page.
func (r *Resource[T]) List(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		r.respondByID(c, id)
		return
	}

	filter, plan, err := query.Translate(c.Request.URL.Query(), r.Fields, r.Options)
	if err != nil {
		c.Error(err)
		return
	}

	ctx := c.Request.Context()
	total, err := r.Store.Count(ctx, filter)
	if err != nil {
		c.Error(err)
		return
	}
	items, err := r.Store.Find(ctx, filter, plan)
	if err != nil {
		c.Error(err)
		return
	}

	respond.List(c,
		gin.H{r.Plural: items},
		respond.NewPageMeta(total, plan.Page, plan.Limit),
		respond.FilterMeta{Applied: filter.Applied(), Available: r.available()},
		respond.SortMeta{By: plan.SortBy, Order: plan.SortOrder},
	)
}

// Get handles GET /<resource>/:id.
func (r *Resource[T]) Get(c *gin.Context) {
	r.respondByID(c, c.Param("id"))
}

// Create handles POST /<resource>.
func (r *Resource[T]) Create(c *gin.Context) {
	e := new(T)
	if err := c.ShouldBindJSON(e); err != nil {
		c.Error(respond.BadRequest("Invalid JSON body"))
		return
	}
	// A client may supply its own id, but only a well-formed one: anything
	// else would persist an entity unreachable through the id-validated
	// read paths.
	if id := r.EntityID(e); id == "" {
		r.SetID(e, uuid.NewString())
	} else if _, err := uuid.Parse(id); err != nil {
		c.Error(respond.BadRequest("Invalid " + r.Singular + " ID"))
		return
	}
	if r.PrepareCreate != nil {
		if err := r.PrepareCreate(c, e); err != nil {
			c.Error(err)
			return
		}
	}
	if err := r.Store.Insert(c.Request.Context(), e); err != nil {
		c.Error(err)
		return
	}
	respond.Created(c, r.Label+" created successfully",
		gin.H{r.Singular: e}, respond.Meta{"id": r.EntityID(e)})
}

// Update handles PUT /<resource>/:id (and PUT /<resource>?id=). The stored
// entity is fetched first, the body is merged over it, and the result is
// saved, so omitted fields keep their current values.
func (r *Resource[T]) Update(c *gin.Context) {
	id, apiErr := r.requestedID(c)
	if apiErr != nil {
		c.Error(apiErr)
		return
	}

	ctx := c.Request.Context()
	e, err := r.Store.FindByID(ctx, id)
	if err != nil {
		r.storeError(c, err)
		return
	}
	if err := c.ShouldBindJSON(e); err != nil {
		c.Error(respond.BadRequest("Invalid JSON body"))
		return
	}
	r.SetID(e, id) // the path id wins over any id in the body
	if r.PrepareUpdate != nil {
		if err := r.PrepareUpdate(c, e); err != nil {
			c.Error(err)
			return
		}
	}
	if err := r.Store.Update(ctx, e); err != nil {
		c.Error(err)
		return
	}
	respond.OK(c, r.Label+" updated successfully",
		gin.H{r.Singular: e}, respond.Meta{"id": id})
}

// Delete handles DELETE /<resource>/:id (and DELETE /<resource>?id=).
// Deleting an absent but well-formed id is 404; repeating a delete is
// therefore 404 the second time, never 500.
func (r *Resource[T]) Delete(c *gin.Context) {
	id, apiErr := r.requestedID(c)
	if apiErr != nil {
		c.Error(apiErr)
		return
	}
	if _, err := r.Store.DeleteByID(c.Request.Context(), id); err != nil {
		r.storeError(c, err)
		return
	}
	respond.OK(c, r.Label+" deleted successfully", nil, respond.Meta{"id": id})
}

// respondByID fetches one entity and emits the success envelope.
func (r *Resource[T]) respondByID(c *gin.Context, id string) {
	if _, err := uuid.Parse(id); err != nil {
		c.Error(respond.BadRequest("Invalid " + r.Singular + " ID"))
		return
	}
	e, err := r.Store.FindByID(c.Request.Context(), id)
	if err != nil {
		r.storeError(c, err)
		return
	}
	respond.OK(c, "Success", gin.H{r.Singular: e}, nil)
}

// requestedID resolves the target id from the path or the id query
// parameter and validates its shape.
func (r *Resource[T]) requestedID(c *gin.Context) (string, *respond.ApiError) {
	id := c.Param("id")
	if id == "" {
		id = c.Query("id")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", respond.BadRequest("Invalid " + r.Singular + " ID")
	}
	return id, nil
}

// storeError maps a store failure: a missing record becomes the resource's
// 404; everything else flows to the terminal mapping untouched.
func (r *Resource[T]) storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.Error(respond.NotFound(r.Label + " not found"))
		return
	}
	c.Error(err)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
