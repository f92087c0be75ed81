package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blechwerk/zeichnungsarchiv/internal/projects"
)

type stubStore struct {
	projects     []projects.Project
	deletedFiles int
	updateErr    error

	lastUpdateName   string
	lastUpdateNummer *string
}

func (s *stubStore) Create(_ context.Context, name, zeichnungsnummer string) (*projects.Project, error) {
	now := time.Now().UTC()
	p := projects.Project{
		ID:               "1700000000000",
		Name:             name,
		Zeichnungsnummer: zeichnungsnummer,
		CreatedAt:        now,
		EditDate:         now,
	}
	s.projects = append(s.projects, p)
	return &p, nil
}

func (s *stubStore) List(context.Context) ([]projects.Project, error) {
	return s.projects, nil
}

func (s *stubStore) Update(_ context.Context, id, name string, zeichnungsnummer *string) (*projects.Project, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.lastUpdateName = name
	s.lastUpdateNummer = zeichnungsnummer
	return &projects.Project{ID: id, Name: name}, nil
}

func (s *stubStore) Delete(context.Context, string) (int, error) {
	return s.deletedFiles, nil
}

func newRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, store)
	return r
}

func TestCreateProject(t *testing.T) {
	store := &stubStore{}
	r := newRouter(store)

	body := `{"name": "Getriebe", "zeichnungsnummer": "Z-100"}`
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var p projects.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "Getriebe", p.Name)
	assert.Equal(t, "Z-100", p.Zeichnungsnummer)
	assert.Equal(t, p.CreatedAt, p.EditDate)
	assert.NotEmpty(t, p.ID)
}

func TestCreateProjectRequiresName(t *testing.T) {
	r := newRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"name": ""}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListProjects(t *testing.T) {
	store := &stubStore{}
	r := newRouter(store)

	_, err := store.Create(context.Background(), "Getriebe", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var items []projects.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Getriebe", items[0].Name)
}

func TestUpdateProjectOmittedZeichnungsnummer(t *testing.T) {
	store := &stubStore{}
	r := newRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/projects/1", strings.NewReader(`{"name": "Welle"}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Welle", store.lastUpdateName)
	assert.Nil(t, store.lastUpdateNummer, "omitted drawing number must not be forwarded as empty")
}

func TestUpdateProjectExplicitEmptyZeichnungsnummer(t *testing.T) {
	store := &stubStore{}
	r := newRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/projects/1", strings.NewReader(`{"zeichnungsnummer": ""}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, store.lastUpdateNummer)
	assert.Equal(t, "", *store.lastUpdateNummer)
}

func TestUpdateUnknownProject(t *testing.T) {
	store := &stubStore{updateErr: projects.ErrNotFound}
	r := newRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/projects/nope", strings.NewReader(`{"name": "x"}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteProjectReportsDeletedFiles(t *testing.T) {
	store := &stubStore{deletedFiles: 3}
	r := newRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/projects/1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Message      string `json:"message"`
		DeletedFiles int    `json:"deletedFiles"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Project deleted", resp.Message)
	assert.Equal(t, 3, resp.DeletedFiles)
}
