package titleblock

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is the stored title-block document for one project. Fields are
// free-form; whatever keys a caller writes are persisted.
type Record struct {
	ProjectID   string            `json:"projectId"`
	Fields      map[string]string `json:"fields"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	ExtractedAt *time.Time        `json:"extractedAt,omitempty"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Get returns the record for a project, or nil when none exists.
func (r *Repo) Get(ctx context.Context, projectID string) (*Record, error) {
	const q = `
select project_id, fields, updated_at, extracted_at
from titleblocks
where project_id = $1;
`
	var rec Record
	err := r.db.QueryRow(ctx, q, projectID).
		Scan(&rec.ProjectID, &rec.Fields, &rec.UpdatedAt, &rec.ExtractedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Put replaces the record wholesale: the given fields stand in for whatever
// was stored before, the update stamp is refreshed and any extraction stamp
// is cleared.
func (r *Repo) Put(ctx context.Context, projectID string, fields map[string]string) (*Record, error) {
	const q = `
insert into titleblocks (project_id, fields, updated_at, extracted_at)
values ($1, $2, now(), null)
on conflict (project_id)
do update set fields = excluded.fields, updated_at = now(), extracted_at = null
returning project_id, fields, updated_at, extracted_at;
`
	return r.put(ctx, q, projectID, fields)
}

// PutExtracted replaces the record with extraction output and stamps both
// updated_at and extracted_at.
func (r *Repo) PutExtracted(ctx context.Context, projectID string, fields map[string]string) (*Record, error) {
	const q = `
insert into titleblocks (project_id, fields, updated_at, extracted_at)
values ($1, $2, now(), now())
on conflict (project_id)
do update set fields = excluded.fields, updated_at = now(), extracted_at = now()
returning project_id, fields, updated_at, extracted_at;
`
	return r.put(ctx, q, projectID, fields)
}

func (r *Repo) put(ctx context.Context, q, projectID string, fields map[string]string) (*Record, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	var rec Record
	err := r.db.QueryRow(ctx, q, projectID, fields).
		Scan(&rec.ProjectID, &rec.Fields, &rec.UpdatedAt, &rec.ExtractedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes the record; deleting an absent record is a no-op.
func (r *Repo) Delete(ctx context.Context, projectID string) error {
	_, err := r.db.Exec(ctx, `delete from titleblocks where project_id = $1;`, projectID)
	return err
}
