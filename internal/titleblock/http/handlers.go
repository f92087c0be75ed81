package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blechwerk/zeichnungsarchiv/internal/projects"
	"github.com/blechwerk/zeichnungsarchiv/internal/titleblock"
	"github.com/blechwerk/zeichnungsarchiv/internal/titleblock/extract"
)

// RecordStore is what the handlers need from the title-block repo.
type RecordStore interface {
	Get(ctx context.Context, projectID string) (*titleblock.Record, error)
	Put(ctx context.Context, projectID string, fields map[string]string) (*titleblock.Record, error)
	Delete(ctx context.Context, projectID string) error
}

// Extractor runs the extraction bridge for a project.
type Extractor interface {
	ExtractAndStore(ctx context.Context, projectID string) (*extract.Result, error)
}

type Handler struct {
	store     RecordStore
	extractor Extractor
}

func NewHandler(store RecordStore, extractor Extractor) *Handler {
	return &Handler{store: store, extractor: extractor}
}

// render flattens a record into the wire shape the client reads: the field
// map with the timestamps mixed in as additional keys.
func render(rec *titleblock.Record) map[string]string {
	out := make(map[string]string, len(rec.Fields)+2)
	for k, v := range rec.Fields {
		out[k] = v
	}
	out["updatedAt"] = rec.UpdatedAt.UTC().Format(time.RFC3339)
	if rec.ExtractedAt != nil {
		out["extractedAt"] = rec.ExtractedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func (h *Handler) get(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, render(rec))
}

func (h *Handler) put(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	rec, err := h.store.Put(c.Request.Context(), c.Param("projectId"), fields)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, render(rec))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("projectId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Zeichnungskopf deleted"})
}

type extractReq struct {
	ProjectID string `json:"projectId"`
}

func (h *Handler) extract(c *gin.Context) {
	var req extractReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId is required"})
		return
	}

	res, err := h.extractor.ExtractAndStore(c.Request.Context(), req.ProjectID)
	if err != nil {
		var procErr *extract.ProcessError
		var parseErr *extract.ParseError
		switch {
		case errors.Is(err, projects.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		case errors.Is(err, titleblock.ErrMissingZeichnungsnummer):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Zeichnungsnummer is required for extraction"})
		case errors.Is(err, extract.ErrTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		case errors.As(err, &procErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Extraction failed", "detail": procErr.Stderr})
		case errors.As(err, &parseErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Extraction output could not be parsed", "detail": parseErr.Output})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, res)
}

func Register(r gin.IRouter, store RecordStore, extractor Extractor) {
	h := NewHandler(store, extractor)
	r.GET("/zeichnungskopf/:projectId", h.get)
	r.PUT("/zeichnungskopf/:projectId", h.put)
	r.DELETE("/zeichnungskopf/:projectId", h.delete)
	r.POST("/extract-titleblock", h.extract)
}
