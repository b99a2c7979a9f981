package subdomain

import (
	"context"
	"errors"
)

// Chain consults lookups in order. A name is taken as soon as one lookup
// says so; an error is returned only when no lookup reported it taken.
type Chain []Lookup

func (c Chain) IsTaken(ctx context.Context, name string) (bool, error) {
	var errs []error
	for _, l := range c {
		taken, err := l.IsTaken(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if taken {
			return true, nil
		}
	}
	return false, errors.Join(errs...)
}

// StaticLookup is a fixed set of taken names.
type StaticLookup map[string]bool

func (s StaticLookup) IsTaken(_ context.Context, name string) (bool, error) {
	return s[name], nil
}
