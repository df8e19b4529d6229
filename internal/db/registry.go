package db

import (
	"context"

	"github.com/jonathan/contact-finder/internal/domains"
)

var _ domains.Registry = (*DB)(nil)

// Lookup implements domains.Registry.
func (db *DB) Lookup(ctx context.Context, company string) (string, bool, error) {
	c, err := db.GetCompanyByNormalizedName(ctx, NormalizeName(company))
	if err != nil {
		return "", false, err
	}
	if !c.HasConfirmedDomain() {
		return "", false, nil
	}
	return *c.Domain, true, nil
}

// Confirm implements domains.Registry.
func (db *DB) Confirm(ctx context.Context, company, domain string) error {
	_, err := db.ConfirmDomain(ctx, company, domain)
	return err
}
