package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/blechwerk/zeichnungsarchiv/internal/files"
)

// FileService is what the handlers need from the file service.
type FileService interface {
	Upload(ctx context.Context, filename string, src io.Reader, projectID, classification string) (string, error)
	List(ctx context.Context, projectID string) ([]files.FileInfo, error)
	Path(name string) (string, error)
	Delete(ctx context.Context, name string) error
}

type Handler struct {
	svc FileService
}

func NewHandler(svc FileService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	name, err := h.svc.Upload(c.Request.Context(), fh.Filename, src,
		c.PostForm("projectId"), c.PostForm("classification"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"filename": name})
}

func (h *Handler) list(c *gin.Context) {
	infos, err := h.svc.List(c.Request.Context(), c.Query("projectId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, infos)
}

// fetch streams the stored bytes as an attachment download. A missing file is
// a plain 404, not a structured error body.
func (h *Handler) fetch(c *gin.Context) {
	path, err := h.svc.Path(c.Param("filename"))
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			c.String(http.StatusNotFound, "file not found")
			return
		}
		c.String(http.StatusInternalServerError, "error reading file")
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("filename")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}

func Register(r gin.IRouter, svc FileService) {
	h := NewHandler(svc)
	r.POST("/upload", h.upload)
	r.GET("/files", h.list)
	r.GET("/file/:filename", h.fetch)
	r.DELETE("/file/:filename", h.delete)
}
