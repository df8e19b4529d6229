package people

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/contact-finder/internal/types"
)

// MultiFinder runs several finders concurrently and merges their records in finder order.
// A failing finder contributes nothing; an error is returned only when every finder fails.
type MultiFinder struct {
	finders []Finder
	logger  zerolog.Logger
}

// NewMultiFinder creates a MultiFinder. Nil finders are ignored.
func NewMultiFinder(logger zerolog.Logger, finders ...Finder) *MultiFinder {
	m := &MultiFinder{logger: logger}
	for _, f := range finders {
		if f != nil {
			m.finders = append(m.finders, f)
		}
	}
	return m
}

// Len returns the number of configured finders.
func (m *MultiFinder) Len() int {
	return len(m.finders)
}

// FindPublicPeople implements Finder.
func (m *MultiFinder) FindPublicPeople(ctx context.Context, q Query) ([]types.PersonRecord, error) {
	if len(m.finders) == 0 {
		return nil, nil
	}

	results := make([][]types.PersonRecord, len(m.finders))
	errs := make([]error, len(m.finders))

	var g errgroup.Group
	for i, f := range m.finders {
		g.Go(func() error {
			people, err := f.FindPublicPeople(ctx, q)
			if err != nil {
				m.logger.Warn().Err(err).Str("domain", q.Domain).Msg("people finder failed")
				errs[i] = err
				return nil
			}
			results[i] = people
			return nil
		})
	}
	_ = g.Wait()

	var merged []types.PersonRecord
	failed := 0
	for i := range m.finders {
		if errs[i] != nil {
			failed++
			continue
		}
		merged = append(merged, results[i]...)
	}

	if failed == len(m.finders) {
		return nil, errors.Join(errs...)
	}
	return DedupePeople(merged), nil
}
