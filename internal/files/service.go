package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"
)

var ErrNotFound = errors.New("file not found")

// DefaultClassification is assigned when an upload does not name one.
const DefaultClassification = "Stückliste"

// FileInfo is a listing entry: the filename joined with its metadata. Files
// present on disk without metadata are still listed, with null fields.
type FileInfo struct {
	Name           string     `json:"name"`
	UploadedAt     *time.Time `json:"uploadedAt"`
	ProjectID      *string    `json:"projectId"`
	Classification *string    `json:"classification"`
}

type Service struct {
	store *Store
	meta  *MetaRepo
}

func NewService(store *Store, meta *MetaRepo) *Service {
	return &Service{store: store, meta: meta}
}

// Upload persists the file bytes under their original base name, overwriting
// any same-named file, and records the metadata document.
func (s *Service) Upload(ctx context.Context, filename string, src io.Reader, projectID, classification string) (string, error) {
	name := filepath.Base(filename)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	if classification == "" {
		classification = DefaultClassification
	}

	if err := s.store.Save(name, src); err != nil {
		return "", err
	}

	err := s.meta.Put(ctx, name, Metadata{
		UploadedAt:     time.Now().UTC(),
		ProjectID:      projectID,
		Classification: classification,
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// List enumerates the upload directory and joins metadata onto each entry,
// optionally filtered to a single project.
func (s *Service) List(ctx context.Context, projectID string) ([]FileInfo, error) {
	names, err := s.store.List()
	if err != nil {
		return nil, err
	}

	out := make([]FileInfo, 0, len(names))
	for _, name := range names {
		info := FileInfo{Name: name}

		m, err := s.meta.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		if m != nil {
			t := m.UploadedAt
			info.UploadedAt = &t
			if m.ProjectID != "" {
				pid := m.ProjectID
				info.ProjectID = &pid
			}
			if m.Classification != "" {
				cl := m.Classification
				info.Classification = &cl
			}
		}

		if projectID != "" {
			if info.ProjectID == nil || *info.ProjectID != projectID {
				continue
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// Path returns the on-disk path for a stored file, or ErrNotFound.
func (s *Service) Path(name string) (string, error) {
	if !s.store.Exists(name) {
		return "", ErrNotFound
	}
	return s.store.Path(name), nil
}

// Delete unlinks the file and then drops its metadata. When the unlink fails
// (including a file that is already gone) the error is returned and the
// metadata entry is left intact, matching the original behaviour.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.store.Remove(name); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return s.meta.Delete(ctx, name)
}

// DeleteByProject removes every file owned by the project along with its
// metadata. Files already missing from disk are skipped, not failures. The
// count of owned files removed is returned for the cascade response.
func (s *Service) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	names, err := s.meta.FilesForProject(ctx, projectID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, name := range names {
		_ = s.store.Remove(name) // best effort, missing files are fine
		if err := s.meta.Delete(ctx, name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Sweep drops metadata entries whose file no longer exists on disk and
// returns how many were removed.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	names, err := s.meta.AllFilenames(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		if s.store.Exists(name) {
			continue
		}
		if err := s.meta.Delete(ctx, name); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
