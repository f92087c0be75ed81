package titleblock

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/blechwerk/zeichnungsarchiv/internal/projects"
	"github.com/blechwerk/zeichnungsarchiv/internal/titleblock/extract"
)

// ErrMissingZeichnungsnummer is returned when extraction is requested for a
// project without a drawing number; no subprocess is spawned in that case.
var ErrMissingZeichnungsnummer = errors.New("project has no zeichnungsnummer")

type ProjectGetter interface {
	Get(ctx context.Context, id string) (*projects.Project, error)
}

type RecordStore interface {
	PutExtracted(ctx context.Context, projectID string, fields map[string]string) (*Record, error)
}

// Service runs the extraction bridge. Requests for the same project are
// serialized, and a counting semaphore caps how many extraction subprocesses
// run at once across all projects.
type Service struct {
	records   RecordStore
	projects  ProjectGetter
	runner    extract.Runner
	uploadDir string
	sem       *semaphore.Weighted

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(records RecordStore, projectRepo ProjectGetter, runner extract.Runner, uploadDir string, maxConcurrent int) *Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Service{
		records:   records,
		projects:  projectRepo,
		runner:    runner,
		uploadDir: uploadDir,
		sem:       semaphore.NewWeighted(int64(maxConcurrent)),
		locks:     map[string]*sync.Mutex{},
	}
}

func (s *Service) projectLock(projectID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[projectID] = l
	}
	return l
}

// ExtractAndStore resolves the project's drawing number, runs the extraction
// tool and, when it succeeds with data, replaces the stored title-block
// record with the tool's output. The tool's result is returned either way so
// the caller can relay {success, data} to the client.
func (s *Service) ExtractAndStore(ctx context.Context, projectID string) (*extract.Result, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	nummer := strings.TrimSpace(p.Zeichnungsnummer)
	if nummer == "" {
		return nil, ErrMissingZeichnungsnummer
	}

	lock := s.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	res, err := s.runner.Run(ctx, s.uploadDir, nummer)
	s.sem.Release(1)
	if err != nil {
		return nil, err
	}

	if res.Success && len(res.Data) > 0 {
		if _, err := s.records.PutExtracted(ctx, projectID, res.Data); err != nil {
			return nil, err
		}
	}
	return res, nil
}
