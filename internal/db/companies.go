package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/contact-finder/internal/domains"
)

const companyColumns = `id, name, name_normalized, domain, confirmed_at, created_at, updated_at`

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	if err := row.Scan(&c.ID, &c.Name, &c.NameNormalized, &c.Domain, &c.ConfirmedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindOrCreateCompany finds an existing company by name or creates a new one
func (db *DB) FindOrCreateCompany(ctx context.Context, name string) (*Company, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	company, err := db.GetCompanyByNormalizedName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if company != nil {
		return company, nil
	}

	company, err = scanCompany(db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, name_normalized)
		 VALUES ($1, $2)
		 ON CONFLICT (name_normalized) DO UPDATE SET updated_at = NOW()
		 RETURNING `+companyColumns,
		name, normalized,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

// GetCompanyByNormalizedName retrieves a company by its normalized name
func (db *DB) GetCompanyByNormalizedName(ctx context.Context, normalized string) (*Company, error) {
	company, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE name_normalized = $1`,
		normalized,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// GetCompanyByDomain finds the company that confirmed a domain
func (db *DB) GetCompanyByDomain(ctx context.Context, domain string) (*Company, error) {
	company, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE domain = $1 LIMIT 1`,
		domains.NormalizeDomain(domain),
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company by domain: %w", err)
	}
	return company, nil
}

// ConfirmDomain pins the domain of a company. The first confirmation wins;
// confirming a different domain later returns a *domains.ConflictError and
// leaves the stored domain untouched.
func (db *DB) ConfirmDomain(ctx context.Context, name, domain string) (*Company, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}
	domain = domains.NormalizeDomain(domain)

	company, err := scanCompany(db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, name_normalized, domain, confirmed_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (name_normalized) DO UPDATE SET
		     domain = COALESCE(companies.domain, EXCLUDED.domain),
		     confirmed_at = COALESCE(companies.confirmed_at, EXCLUDED.confirmed_at),
		     updated_at = NOW()
		 RETURNING `+companyColumns,
		name, normalized, domain,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to confirm company domain: %w", err)
	}

	if company.Domain != nil && *company.Domain != domain {
		return company, &domains.ConflictError{Company: normalized, Confirmed: *company.Domain, Requested: domain}
	}
	return company, nil
}

// ListKnownDomains returns every confirmed company domain keyed by normalized name.
func (db *DB) ListKnownDomains(ctx context.Context) (map[string]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT name_normalized, domain FROM companies WHERE domain IS NOT NULL ORDER BY name_normalized`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list company domains: %w", err)
	}
	defer rows.Close()

	known := make(map[string]string)
	for rows.Next() {
		var name, domain string
		if err := rows.Scan(&name, &domain); err != nil {
			return nil, fmt.Errorf("failed to scan company domain: %w", err)
		}
		known[name] = domain
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list company domains: %w", err)
	}
	return known, nil
}
