package projects

import "context"

type FileCascade interface {
	DeleteByProject(ctx context.Context, projectID string) (int, error)
}

type TitleblockCascade interface {
	Delete(ctx context.Context, projectID string) error
}

type store interface {
	Create(ctx context.Context, name, zeichnungsnummer string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, id, name string, zeichnungsnummer *string) (*Project, error)
	Delete(ctx context.Context, id string) error
}

// Service wraps the repo with the delete cascade, which reaches across the
// file store and the title-block store.
type Service struct {
	repo        store
	files       FileCascade
	titleblocks TitleblockCascade
}

func NewService(repo store, files FileCascade, titleblocks TitleblockCascade) *Service {
	return &Service{repo: repo, files: files, titleblocks: titleblocks}
}

func (s *Service) Create(ctx context.Context, name, zeichnungsnummer string) (*Project, error) {
	return s.repo.Create(ctx, name, zeichnungsnummer)
}

func (s *Service) List(ctx context.Context) ([]Project, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id, name string, zeichnungsnummer *string) (*Project, error) {
	return s.repo.Update(ctx, id, name, zeichnungsnummer)
}

// Delete removes the project's files, its title-block record and finally the
// project itself, returning how many files the cascade removed. An unknown id
// cascades over nothing and succeeds.
func (s *Service) Delete(ctx context.Context, id string) (int, error) {
	deleted, err := s.files.DeleteByProject(ctx, id)
	if err != nil {
		return deleted, err
	}
	if err := s.titleblocks.Delete(ctx, id); err != nil {
		return deleted, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleted, err
	}
	return deleted, nil
}
