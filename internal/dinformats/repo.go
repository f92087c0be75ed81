package dinformats

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("format not found")

type Format struct {
	Format        string `json:"format"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	ContainedInA0 string `json:"containedInA0"`
	Name          string `json:"name"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// List returns all formats in insertion order, duplicates included.
func (r *Repo) List(ctx context.Context) ([]Format, error) {
	const q = `
select format, width, height, contained_in_a0, name
from din_formats
order by seq;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Format, 0, 16)
	for rows.Next() {
		var f Format
		if err := rows.Scan(&f.Format, &f.Width, &f.Height, &f.ContainedInA0, &f.Name); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Create appends unconditionally. The format key is not unique; duplicates
// are allowed and later update/delete calls act on the first match.
func (r *Repo) Create(ctx context.Context, f Format) (*Format, error) {
	const q = `
insert into din_formats (format, width, height, contained_in_a0, name)
values ($1, $2, $3, $4, $5)
returning format, width, height, contained_in_a0, name;
`
	var out Format
	err := r.db.QueryRow(ctx, q, f.Format, f.Width, f.Height, f.ContainedInA0, f.Name).
		Scan(&out.Format, &out.Width, &out.Height, &out.ContainedInA0, &out.Name)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update merges the patch into the first row matching the key. Zero values
// fall back to the stored value, so a caller cannot clear a field by sending
// an empty one; that quirk is part of the documented contract.
func (r *Repo) Update(ctx context.Context, key string, patch Format) (*Format, error) {
	const sel = `
select seq, format, width, height, contained_in_a0, name
from din_formats
where format = $1
order by seq
limit 1;
`
	var (
		seq int64
		f   Format
	)
	err := r.db.QueryRow(ctx, sel, key).
		Scan(&seq, &f.Format, &f.Width, &f.Height, &f.ContainedInA0, &f.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f = merge(f, patch)

	const upd = `
update din_formats
set format = $2, width = $3, height = $4, contained_in_a0 = $5, name = $6
where seq = $1;
`
	if _, err := r.db.Exec(ctx, upd, seq, f.Format, f.Width, f.Height, f.ContainedInA0, f.Name); err != nil {
		return nil, err
	}
	return &f, nil
}

// merge applies the fallback semantics: zero values in the patch keep the
// stored value.
func merge(f, patch Format) Format {
	if patch.Format != "" {
		f.Format = patch.Format
	}
	if patch.Width != 0 {
		f.Width = patch.Width
	}
	if patch.Height != 0 {
		f.Height = patch.Height
	}
	if patch.ContainedInA0 != "" {
		f.ContainedInA0 = patch.ContainedInA0
	}
	if patch.Name != "" {
		f.Name = patch.Name
	}
	return f
}

// Delete removes the first row matching the key. An unmatched key is a
// silent no-op.
func (r *Repo) Delete(ctx context.Context, key string) error {
	const q = `
delete from din_formats
where seq = (select min(seq) from din_formats where format = $1);
`
	_, err := r.db.Exec(ctx, q, key)
	return err
}
