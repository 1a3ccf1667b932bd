package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Statement is one named DDL step
type Statement struct {
	Name string
	SQL  string
}

// SchemaStatements provisions the five member tables and their indexes.
// Every statement is idempotent.
var SchemaStatements = []Statement{
	{
		Name: "users",
		SQL: `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    full_name VARCHAR(255),
    email VARCHAR(255),
    phone VARCHAR(50),
    address TEXT,
    profile_image TEXT,
    membership_number VARCHAR(50) UNIQUE,
    membership_type VARCHAR(50),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`,
	},
	{
		Name: "professional_info",
		SQL: `
CREATE TABLE IF NOT EXISTS professional_info (
    user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    specialization VARCHAR(255),
    years_of_experience INTEGER NOT NULL DEFAULT 0 CHECK (years_of_experience >= 0),
    current_position VARCHAR(255),
    organization VARCHAR(255)
);`,
	},
	{
		Name: "qualifications",
		SQL: `
CREATE TABLE IF NOT EXISTS qualifications (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    qualification TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`,
	},
	{
		Name: "certifications",
		SQL: `
CREATE TABLE IF NOT EXISTS certifications (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    certification TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`,
	},
	{
		Name: "user_preferences",
		SQL: `
CREATE TABLE IF NOT EXISTS user_preferences (
    user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    email_notifications BOOLEAN NOT NULL DEFAULT true,
    sms_notifications BOOLEAN NOT NULL DEFAULT false,
    push_notifications BOOLEAN NOT NULL DEFAULT false,
    profile_visibility VARCHAR(50) DEFAULT 'members',
    show_contact_info BOOLEAN NOT NULL DEFAULT false,
    show_qualifications BOOLEAN NOT NULL DEFAULT true,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`,
	},
	{
		Name: "idx_qualifications_user_id",
		SQL:  "CREATE INDEX IF NOT EXISTS idx_qualifications_user_id ON qualifications(user_id);",
	},
	{
		Name: "idx_certifications_user_id",
		SQL:  "CREATE INDEX IF NOT EXISTS idx_certifications_user_id ON certifications(user_id);",
	},
	{
		Name: "idx_users_email",
		SQL:  "CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);",
	},
}

// CreateSchema runs SchemaStatements in order, calling onApplied after each
func CreateSchema(ctx context.Context, db Execer, onApplied func(Statement)) error {
	for _, stmt := range SchemaStatements {
		if _, err := db.Exec(ctx, stmt.SQL); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.Name, err)
		}
		if onApplied != nil {
			onApplied(stmt)
		}
	}
	return nil
}
