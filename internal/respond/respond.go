// Package respond builds the uniform JSON envelope used by every endpoint.
//
// All responses, success or failure, share the top-level shape
//
//	{ "type": "OK"|"ERROR", "message": "...", "data": {...}, "meta": {...} }
//
// so clients can branch on type alone. meta always carries a timestamp; list
// responses additionally merge pagination fields, the filters actually
// applied, and the sort in effect. List responses are always HTTP 200: an
// empty page is a successful result, not a missing resource.
package respond

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// TypeOK tags success envelopes.
	TypeOK = "OK"
	// TypeError tags error envelopes.
	TypeError = "ERROR"
)

// Envelope is the wire shape of every response body.
type Envelope struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta"`
}

// Meta is the free-form metadata map attached to non-list responses.
type Meta map[string]any

// PageMeta is the response-facing pagination summary, derived from the store
// count and the pagination plan. It is recomputed per response, never stored.
type PageMeta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPageMeta derives pagination metadata from the total row count and the
// page/limit of the executed plan. totalPages is ceil(total/limit).
func NewPageMeta(total int64, page, limit int) PageMeta {
	if limit < 1 {
		limit = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PageMeta{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// FilterMeta reports which filters a list request applied and which the
// resource supports.
type FilterMeta struct {
	Applied   any `json:"applied"`
	Available any `json:"available"`
}

// SortMeta reports the sort in effect for a list response.
type SortMeta struct {
	By    string `json:"by"`
	Order string `json:"order"`
}

// listMeta flattens pagination fields next to timestamp/filters/sort,
// matching the meta layout clients already parse.
type listMeta struct {
	Timestamp time.Time `json:"timestamp"`
	PageMeta
	Filters FilterMeta `json:"filters"`
	Sort    SortMeta   `json:"sort"`
}

// Success writes an OK envelope with the given status, message, and optional
// data. extra entries are merged into meta next to the timestamp.
func Success(c *gin.Context, status int, message string, data any, extra Meta) {
	meta := Meta{"timestamp": time.Now().UTC()}
	for k, v := range extra {
		meta[k] = v
	}
	c.JSON(status, Envelope{
		Type:    TypeOK,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data any, extra Meta) {
	Success(c, http.StatusOK, message, data, extra)
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data any, extra Meta) {
	Success(c, http.StatusCreated, message, data, extra)
}

// List writes the list envelope: always 200, with pagination, filters, and
// sort merged into meta. data is the page of results (possibly empty).
func List(c *gin.Context, data any, page PageMeta, filters FilterMeta, sort SortMeta) {
	if filters.Available == nil {
		filters.Available = Meta{}
	}
	c.JSON(http.StatusOK, Envelope{
		Type: TypeOK,
		Data: data,
		Meta: listMeta{
			Timestamp: time.Now().UTC(),
			PageMeta:  page,
			Filters:   filters,
			Sort:      sort,
		},
	})
}

// Error writes an ERROR envelope with the given status and message and aborts
// the request. It is the single place error bodies are shaped; handlers and
// middleware route errors here through WriteError rather than formatting
// their own JSON.
func Error(c *gin.Context, status int, message string, extra Meta) {
	meta := Meta{"timestamp": time.Now().UTC()}
	for k, v := range extra {
		meta[k] = v
	}
	c.AbortWithStatusJSON(status, Envelope{
		Type:    TypeError,
		Message: message,
		Meta:    meta,
	})
}
