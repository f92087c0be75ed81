package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
create table if not exists projects (
	id               text primary key,
	name             text not null,
	zeichnungsnummer text not null default '',
	created_at       timestamptz not null default now(),
	edit_date        timestamptz not null default now()
);

create table if not exists din_formats (
	seq             bigserial primary key,
	format          text not null,
	width           integer not null default 0,
	height          integer not null default 0,
	contained_in_a0 text not null default '',
	name            text not null default ''
);

create table if not exists titleblocks (
	project_id   text primary key,
	fields       jsonb not null default '{}'::jsonb,
	updated_at   timestamptz not null default now(),
	extracted_at timestamptz
);
`

type seedFormat struct {
	format        string
	width, height int
	containedInA0 string
	name          string
}

// The eleven standard DIN A series entries the registry starts with.
var dinSeed = []seedFormat{
	{"DIN A0", 841, 1189, "1x", "Doppelbogen"},
	{"DIN A1", 594, 841, "2x", "Bogen"},
	{"DIN A2", 420, 594, "4x", "Halbbogen"},
	{"DIN A3", 297, 420, "8x", "Viertelbogen"},
	{"DIN A4", 210, 297, "16x", "Blatt (Briefbogen)"},
	{"DIN A5", 148, 210, "32x", "Halbblatt"},
	{"DIN A6", 105, 148, "64x", "Viertelblatt"},
	{"DIN A7", 74, 105, "128x", "Achtelblatt"},
	{"DIN A8", 52, 74, "256x", "Sechzehntelblatt"},
	{"DIN A9", 37, 52, "512x", "–"},
	{"DIN A10", 26, 37, "1024x", "–"},
}

// Migrate creates the tables if they do not exist and seeds the DIN format
// registry on first run, the same way the original service initialised its
// data files at startup.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var n int64
	if err := db.QueryRow(ctx, `select count(*) from din_formats`).Scan(&n); err != nil {
		return fmt.Errorf("count din formats: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, f := range dinSeed {
		_, err := db.Exec(ctx, `
insert into din_formats (format, width, height, contained_in_a0, name)
values ($1, $2, $3, $4, $5);
`, f.format, f.width, f.height, f.containedInA0, f.name)
		if err != nil {
			return fmt.Errorf("seed din format %s: %w", f.format, err)
		}
	}

	return nil
}
