package files

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fileKeyPrefix    = "zng:file:"    // Metadata document per filename: zng:file:{filename}
	projectSetPrefix = "zng:project:" // Set of filenames owned by a project: zng:project:{project_id}
)

// Metadata is the per-filename upload record. The filename itself is the key,
// so it is not repeated in the document.
type Metadata struct {
	UploadedAt     time.Time `json:"uploadedAt"`
	ProjectID      string    `json:"projectId"`
	Classification string    `json:"classification"`
}

// MetaRepo stores upload metadata in Redis, one JSON document per filename
// plus a per-project set of owned filenames for cascade lookups.
type MetaRepo struct {
	client *redis.Client
}

func NewMetaRepo(client *redis.Client) *MetaRepo {
	return &MetaRepo{client: client}
}

func (r *MetaRepo) fileKey(name string) string {
	return fileKeyPrefix + name
}

func (r *MetaRepo) projectSetKey(projectID string) string {
	return projectSetPrefix + projectID
}

// Put writes the metadata for a filename, replacing any previous document.
// When a same-named file is re-uploaded under a different project, the
// filename moves from the old project's set to the new one.
func (r *MetaRepo) Put(ctx context.Context, name string, m Metadata) error {
	prev, err := r.Get(ctx, name)
	if err != nil {
		return err
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.fileKey(name), data, 0)
	if prev != nil && prev.ProjectID != "" && prev.ProjectID != m.ProjectID {
		pipe.SRem(ctx, r.projectSetKey(prev.ProjectID), name)
	}
	if m.ProjectID != "" {
		pipe.SAdd(ctx, r.projectSetKey(m.ProjectID), name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store metadata: %w", err)
	}
	return nil
}

// Get returns the metadata for a filename, or nil when none is recorded. A
// file on disk without metadata is a normal state, not an error.
func (r *MetaRepo) Get(ctx context.Context, name string) (*Metadata, error) {
	data, err := r.client.Get(ctx, r.fileKey(name)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}

	var m Metadata
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &m, nil
}

// Delete drops the metadata document and its project-set membership. Unknown
// filenames are a no-op.
func (r *MetaRepo) Delete(ctx context.Context, name string) error {
	prev, err := r.Get(ctx, name)
	if err != nil {
		return err
	}
	if prev == nil {
		return nil
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.fileKey(name))
	if prev.ProjectID != "" {
		pipe.SRem(ctx, r.projectSetKey(prev.ProjectID), name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	return nil
}

// FilesForProject returns the filenames whose metadata references the project.
func (r *MetaRepo) FilesForProject(ctx context.Context, projectID string) ([]string, error) {
	names, err := r.client.SMembers(ctx, r.projectSetKey(projectID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list project files: %w", err)
	}
	return names, nil
}

// AllFilenames scans every metadata key. Used by the maintenance sweep.
func (r *MetaRepo) AllFilenames(ctx context.Context) ([]string, error) {
	var (
		names  []string
		cursor uint64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, fileKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan metadata: %w", err)
		}
		for _, k := range keys {
			names = append(names, k[len(fileKeyPrefix):])
		}
		if next == 0 {
			return names, nil
		}
		cursor = next
	}
}
