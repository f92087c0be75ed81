package projects

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("project not found")

type Project struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Zeichnungsnummer string    `json:"zeichnungsnummer"`
	CreatedAt        time.Time `json:"createdAt"`
	EditDate         time.Time `json:"editDate"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Create inserts a new project. IDs are millisecond timestamps, kept from the
// original contract; two creates in the same millisecond collide on the
// primary key, so retry a few times with a fresh clock reading.
func (r *Repo) Create(ctx context.Context, name, zeichnungsnummer string) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("name required")
	}

	for i := 0; i < 5; i++ {
		id := strconv.FormatInt(time.Now().UnixMilli(), 10)

		const q = `
insert into projects (id, name, zeichnungsnummer, created_at, edit_date)
values ($1, $2, $3, now(), now())
returning id, name, zeichnungsnummer, created_at, edit_date;
`
		var p Project
		err := r.db.QueryRow(ctx, q, id, name, zeichnungsnummer).
			Scan(&p.ID, &p.Name, &p.Zeichnungsnummer, &p.CreatedAt, &p.EditDate)

		if err == nil {
			return &p, nil
		}

		// unique violation on id → same millisecond, retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			time.Sleep(time.Millisecond)
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// List returns every project in creation order.
func (r *Repo) List(ctx context.Context) ([]Project, error) {
	const q = `
select id, name, zeichnungsnummer, created_at, edit_date
from projects
order by created_at, id;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Zeichnungsnummer, &p.CreatedAt, &p.EditDate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*Project, error) {
	const q = `
select id, name, zeichnungsnummer, created_at, edit_date
from projects
where id = $1;
`
	var p Project
	err := r.db.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.Name, &p.Zeichnungsnummer, &p.CreatedAt, &p.EditDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update merges the provided fields into the stored project and refreshes the
// edit date. An empty name keeps the stored name; the drawing number is only
// written when the caller explicitly provided one (nil means "not sent"), but
// an explicitly sent empty string does clear it.
func (r *Repo) Update(ctx context.Context, id, name string, zeichnungsnummer *string) (*Project, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(p, name, zeichnungsnummer)

	const q = `
update projects
set name = $2, zeichnungsnummer = $3, edit_date = now()
where id = $1
returning id, name, zeichnungsnummer, created_at, edit_date;
`
	var out Project
	err = r.db.QueryRow(ctx, q, id, p.Name, p.Zeichnungsnummer).
		Scan(&out.ID, &out.Name, &out.Zeichnungsnummer, &out.CreatedAt, &out.EditDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// applyUpdate merges update fields into a project. An empty name is ignored;
// the drawing number is written whenever it was explicitly sent, empty or not.
func applyUpdate(p *Project, name string, zeichnungsnummer *string) {
	if name != "" {
		p.Name = name
	}
	if zeichnungsnummer != nil {
		p.Zeichnungsnummer = *zeichnungsnummer
	}
}

// Delete removes the project row. Deleting an unknown id is a no-op, matching
// the original filter-and-rewrite behaviour.
func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `delete from projects where id = $1;`, id)
	return err
}
