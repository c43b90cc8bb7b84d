package dao

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
)

const (
	CredentialsSchema = "credentials"
	SuperadminTable   = "superadmin"
	adminTablePrefix  = "admin_"
)

// quoted renders "schema"."table". Callers only pass identifiers that were
// checked against the partition naming convention.
func quoted(schema, table string) string {
	return `"` + strings.ReplaceAll(schema, `"`, ``) + `"."` + strings.ReplaceAll(table, `"`, ``) + `"`
}

// dotted is the form gorm's Table() quotes segment by segment.
func dotted(schema, table string) string {
	return schema + "." + table
}

func AdminTable(session string) string {
	return adminTablePrefix + session
}

const partitionDDL = `
CREATE SCHEMA IF NOT EXISTS %[1]s;

CREATE TABLE IF NOT EXISTS %[2]s (
	id               text PRIMARY KEY,
	email            text NOT NULL UNIQUE,
	created_on       timestamptz NOT NULL,
	profile          jsonb,
	registered_event jsonb NOT NULL DEFAULT '[]'::jsonb
);

CREATE TABLE IF NOT EXISTS %[3]s (
	id                    text PRIMARY KEY,
	event_name            text NOT NULL,
	event_description     text,
	event_date            date,
	event_time            text,
	event_duration        text,
	last_date_to_register date,
	event_capacity        integer,
	event_type            text,
	event_team_allowed    boolean NOT NULL DEFAULT false,
	event_team_size       integer NOT NULL DEFAULT 0,
	venue                 text,
	person_incharge       text,
	event_status          text,
	event_prizes          text,
	event_thumbnail_id    text,
	remark                text,
	registered_user       text[] NOT NULL DEFAULT '{}',
	registered_team       text[],
	remarked_user         text[] NOT NULL DEFAULT '{}',
	remarked_team         text[],
	created_on            timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS %[4]s (
	id             text PRIMARY KEY,
	event_id       text NOT NULL,
	team_name      text NOT NULL,
	team_code      text NOT NULL,
	leader_id      text NOT NULL,
	members        text[] NOT NULL DEFAULT '{}',
	member_details jsonb NOT NULL DEFAULT '[]'::jsonb,
	registered_on  timestamptz NOT NULL,
	remark         text,
	CONSTRAINT team_event_name_key UNIQUE (event_id, team_name),
	CONSTRAINT team_event_code_key UNIQUE (event_id, team_code)
);

CREATE INDEX IF NOT EXISTS team_leader_idx ON %[4]s (leader_id);
`

const adminDDL = `
CREATE TABLE IF NOT EXISTS %s (
	id                    text PRIMARY KEY,
	email                 text NOT NULL UNIQUE,
	name                  text NOT NULL,
	team                  text NOT NULL DEFAULT '',
	role                  text NOT NULL DEFAULT '',
	phone_number          text NOT NULL DEFAULT '',
	college_or_university text NOT NULL DEFAULT '',
	course                text NOT NULL DEFAULT '',
	year                  integer NOT NULL DEFAULT 0,
	gender                text NOT NULL DEFAULT '',
	github_profile        text,
	linkedin_profile      text,
	created_on            timestamptz NOT NULL,
	created_by            jsonb
);
`

// statements splits a DDL script on semicolons that end a line.
func statements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";\n") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}

	return out
}

// SchemaManager creates partition schemas and admin tables on first use.
type SchemaManager struct {
	db    *gorm.DB
	ready sync.Map
}

func NewSchemaManager(db *gorm.DB) *SchemaManager {
	return &SchemaManager{
		db: db,
	}
}

func (m *SchemaManager) EnsurePartition(ctx context.Context, session string) error {
	if _, ok := m.ready.Load(session); ok {
		return nil
	}

	ddl := fmt.Sprintf(partitionDDL,
		`"`+session+`"`,
		quoted(session, "user"),
		quoted(session, "event"),
		quoted(session, "team"),
	)
	for _, stmt := range statements(ddl) {
		if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("m.db.Exec partition ddl -> %w", err)
		}
	}
	m.ready.Store(session, struct{}{})

	return nil
}

func (m *SchemaManager) EnsureAdminTable(ctx context.Context, session string) error {
	key := adminTablePrefix + session
	if _, ok := m.ready.Load(key); ok {
		return nil
	}

	ddl := fmt.Sprintf(adminDDL, quoted(CredentialsSchema, AdminTable(session)))
	if err := m.db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("m.db.Exec admin ddl -> %w", err)
	}
	m.ready.Store(key, struct{}{})

	return nil
}

// ListSchemas returns every schema name in the database.
func (m *SchemaManager) ListSchemas(ctx context.Context) ([]string, error) {
	var names []string
	result := m.db.WithContext(ctx).
		Table("information_schema.schemata").
		Order("schema_name").
		Pluck("schema_name", &names)
	if result.Error != nil {
		return nil, result.Error
	}

	return names, nil
}

// ListAdminTables returns the session suffix of every admin_* table in the credentials schema.
func (m *SchemaManager) ListAdminTables(ctx context.Context) ([]string, error) {
	var names []string
	result := m.db.WithContext(ctx).
		Table("information_schema.tables").
		Where("table_schema = ? AND table_name LIKE ?", CredentialsSchema, adminTablePrefix+"%").
		Order("table_name").
		Pluck("table_name", &names)
	if result.Error != nil {
		return nil, result.Error
	}

	suffixes := make([]string, 0, len(names))
	for _, n := range names {
		suffixes = append(suffixes, strings.TrimPrefix(n, adminTablePrefix))
	}

	return suffixes, nil
}

func (m *SchemaManager) SchemaExists(ctx context.Context, schema string) (bool, error) {
	var n int64
	result := m.db.WithContext(ctx).
		Table("information_schema.schemata").
		Where("schema_name = ?", schema).
		Count(&n)
	if result.Error != nil {
		return false, result.Error
	}

	return n > 0, nil
}

func (m *SchemaManager) AdminTableExists(ctx context.Context, session string) (bool, error) {
	var n int64
	result := m.db.WithContext(ctx).
		Table("information_schema.tables").
		Where("table_schema = ? AND table_name = ?", CredentialsSchema, AdminTable(session)).
		Count(&n)
	if result.Error != nil {
		return false, result.Error
	}

	return n > 0, nil
}
