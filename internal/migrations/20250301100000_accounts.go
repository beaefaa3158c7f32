package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	m.addMigration(&migration{
		version: "20250301100000",
		up:      mig_20250301100000_accounts_up,
		down:    mig_20250301100000_accounts_down,
	})
}

func mig_20250301100000_accounts_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS accounts (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email VARCHAR(255) NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS profile (
            id UUID PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
            first_name VARCHAR(255) NOT NULL DEFAULT '',
            last_name VARCHAR(255) NOT NULL DEFAULT '',
            role_project VARCHAR(50) NOT NULL DEFAULT 'client'
                CHECK (role_project IN ('client', 'designer', 'project_manager', 'superuser')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	// Seed with a default superuser
	password := "changeme-admin"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	_, err = tx.Exec(`
        INSERT INTO accounts (email, password_hash)
        VALUES ($1, $2)
        ON CONFLICT (email) DO NOTHING;
    `, "admin@atelier.local", string(hashedPassword))
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        INSERT INTO profile (id, first_name, last_name, role_project)
        SELECT id, 'Super', 'Admin', 'superuser' FROM accounts WHERE email = $1
        ON CONFLICT (id) DO NOTHING;
    `, "admin@atelier.local")

	return err
}

func mig_20250301100000_accounts_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS profile;`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DROP TABLE IF EXISTS accounts;`)
	return err
}
