package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blechwerk/zeichnungsarchiv/internal/dinformats"
)

type stubStore struct {
	formats   []dinformats.Format
	updateErr error
	deleted   []string
}

func (s *stubStore) List(context.Context) ([]dinformats.Format, error) {
	return s.formats, nil
}

func (s *stubStore) Create(_ context.Context, f dinformats.Format) (*dinformats.Format, error) {
	s.formats = append(s.formats, f)
	return &f, nil
}

func (s *stubStore) Update(_ context.Context, key string, patch dinformats.Format) (*dinformats.Format, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &patch, nil
}

func (s *stubStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func newRouter(store FormatStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, store)
	return r
}

func TestListFormats(t *testing.T) {
	store := &stubStore{formats: []dinformats.Format{
		{Format: "DIN A4", Width: 210, Height: 297, ContainedInA0: "16x", Name: "Blatt (Briefbogen)"},
	}}
	r := newRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/din-formats", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var formats []dinformats.Format
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &formats))
	require.Len(t, formats, 1)
	assert.Equal(t, "DIN A4", formats[0].Format)
}

func TestCreateFormat(t *testing.T) {
	store := &stubStore{}
	r := newRouter(store)

	body := `{"format": "DIN B1", "width": 707, "height": 1000, "containedInA0": "", "name": ""}`
	req := httptest.NewRequest(http.MethodPost, "/din-formats", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.formats, 1)
	assert.Equal(t, 707, store.formats[0].Width)
}

func TestUpdateUnknownFormat(t *testing.T) {
	store := &stubStore{updateErr: dinformats.ErrNotFound}
	r := newRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/din-formats/DIN%20Z9", strings.NewReader(`{"width": 100}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Format not found", resp["message"])
}

func TestDeleteFormatIsAlwaysOK(t *testing.T) {
	store := &stubStore{}
	r := newRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/din-formats/DIN%20A4", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"DIN A4"}, store.deleted)
}
