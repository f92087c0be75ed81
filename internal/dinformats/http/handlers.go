package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blechwerk/zeichnungsarchiv/internal/dinformats"
)

// FormatStore is what the handlers need from the DIN format repo.
type FormatStore interface {
	List(ctx context.Context) ([]dinformats.Format, error)
	Create(ctx context.Context, f dinformats.Format) (*dinformats.Format, error)
	Update(ctx context.Context, key string, patch dinformats.Format) (*dinformats.Format, error)
	Delete(ctx context.Context, key string) error
}

type Handler struct {
	store FormatStore
}

func NewHandler(store FormatStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) list(c *gin.Context) {
	formats, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, formats)
}

func (h *Handler) create(c *gin.Context) {
	var f dinformats.Format
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	created, err := h.store.Create(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) update(c *gin.Context) {
	var patch dinformats.Format
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	updated, err := h.store.Update(c.Request.Context(), c.Param("format"), patch)
	if err != nil {
		if errors.Is(err, dinformats.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Format not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("format")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Format deleted"})
}

func Register(r gin.IRouter, store FormatStore) {
	h := NewHandler(store)
	r.GET("/din-formats", h.list)
	r.POST("/din-formats", h.create)
	r.PUT("/din-formats/:format", h.update)
	r.DELETE("/din-formats/:format", h.delete)
}
