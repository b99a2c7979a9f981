// Package subdomain turns free-text names into canonical tenant subdomains
// and decides whether a candidate may be allocated.
package subdomain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"babypool/internal/apperr"
	"babypool/internal/metrics"
)

const (
	MinLength = 3
	MaxLength = 30

	defaultLookupTimeout = 3 * time.Second
)

var canonical = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// DefaultReserved holds infrastructure names and the placeholder names used
// by demo sites.
var DefaultReserved = []string{
	"www", "api", "admin", "app", "mail", "smtp", "imap", "pop", "ftp",
	"cdn", "static", "assets", "img", "media", "dev", "staging", "test",
	"beta", "demo", "dashboard", "status", "support", "help", "docs",
	"blog", "auth", "login", "sso", "billing", "pay", "payments", "root",
	"ns1", "ns2", "mx", "vpn", "internal", "registry",
	"john", "jane", "johndoe", "janedoe", "example", "sample", "baby",
	"babypool", "mom", "dad", "parent", "parents",
}

// Lookup reports whether a candidate is already assigned to a tenant.
type Lookup interface {
	IsTaken(ctx context.Context, name string) (bool, error)
}

type Options struct {
	Reserved      []string
	Strict        bool
	LookupTimeout time.Duration
}

type Allocator struct {
	lookup   Lookup
	reserved map[string]struct{}
	strict   bool
	timeout  time.Duration
	logger   *zap.Logger
}

func NewAllocator(lookup Lookup, opts Options, logger *zap.Logger) *Allocator {
	words := opts.Reserved
	if words == nil {
		words = DefaultReserved
	}
	reserved := make(map[string]struct{}, len(words))
	for _, w := range words {
		reserved[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	timeout := opts.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Allocator{
		lookup:   lookup,
		reserved: reserved,
		strict:   opts.Strict,
		timeout:  timeout,
		logger:   logger,
	}
}

// Propose derives a canonical candidate from free text. The result may still
// be too short to be valid.
func Propose(freeText string) string {
	var b strings.Builder
	lastDash := true // suppresses a leading separator
	for _, r := range strings.ToLower(freeText) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if len(out) > MaxLength {
		out = strings.TrimRight(out[:MaxLength], "-")
	}
	return out
}

// CheckStatic applies the rules that need no registry: shape, length and
// the reserved-word set.
func (a *Allocator) CheckStatic(candidate string) error {
	if len(candidate) < MinLength || len(candidate) > MaxLength {
		return fmt.Errorf("%w: %q must be %d-%d characters", apperr.ErrInvalidSubdomain, candidate, MinLength, MaxLength)
	}
	if !canonical.MatchString(candidate) {
		return fmt.Errorf("%w: %q may only contain a-z, 0-9 and single hyphens", apperr.ErrInvalidSubdomain, candidate)
	}
	if _, ok := a.reserved[candidate]; ok {
		return fmt.Errorf("%w: %q", apperr.ErrSubdomainReserved, candidate)
	}
	return nil
}

// Check returns nil when candidate may be allocated. It never reserves the
// name.
func (a *Allocator) Check(ctx context.Context, candidate string) error {
	if err := a.CheckStatic(candidate); err != nil {
		return err
	}
	if a.lookup == nil {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	taken, err := a.lookup.IsTaken(lookupCtx, candidate)
	if err != nil {
		if a.strict {
			metrics.RegistryLookups.WithLabelValues("error").Inc()
			a.logger.Error("subdomain registry lookup failed",
				zap.String("candidate", candidate), zap.Error(err))
			return fmt.Errorf("%w: %v", apperr.ErrRegistryUnavailable, err)
		}
		metrics.RegistryLookups.WithLabelValues("degraded").Inc()
		a.logger.Warn("subdomain registry unreachable, treating candidate as available",
			zap.String("candidate", candidate), zap.Error(err))
		return nil
	}
	if taken {
		metrics.RegistryLookups.WithLabelValues("taken").Inc()
		return fmt.Errorf("%w: %q", apperr.ErrSubdomainTaken, candidate)
	}
	metrics.RegistryLookups.WithLabelValues("free").Inc()
	return nil
}

func (a *Allocator) IsAvailable(ctx context.Context, candidate string) bool {
	return a.Check(ctx, candidate) == nil
}

// Suggest returns up to n available names derived from freeText: the base
// candidate first, then base-2, base-3 and so on.
func (a *Allocator) Suggest(ctx context.Context, freeText string, n int) ([]string, error) {
	base := Propose(freeText)
	if n <= 0 || len(base) < MinLength {
		return nil, nil
	}

	var out []string
	for i := 1; len(out) < n && i <= n*5; i++ {
		candidate := base
		if i > 1 {
			suffix := "-" + strconv.Itoa(i)
			stem := base
			if len(stem)+len(suffix) > MaxLength {
				stem = strings.TrimRight(stem[:MaxLength-len(suffix)], "-")
			}
			candidate = stem + suffix
		}

		err := a.Check(ctx, candidate)
		switch {
		case err == nil:
			out = append(out, candidate)
		case errors.Is(err, apperr.ErrRegistryUnavailable):
			return out, err
		}
	}
	return out, nil
}
