package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"babypool/internal/metrics"
	"babypool/internal/site"
)

var (
	ErrBadBundle   = errors.New("bad site bundle")
	ErrStaleBundle = errors.New("bundle older than the published site")
)

// siteLocks serializes writes per subdomain so the age check and the swap
// happen as one step.
var siteLocks sync.Map

func lockSite(subdomain string) func() {
	v, _ := siteLocks.LoadOrStore(subdomain, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Source delivers queued site bundles.
type Source interface {
	ConsumeBuilds(consumerTag string, prefetch int) (<-chan amqp.Delivery, error)
}

// Builder is a local stand-in for the static build pipeline: a pool of
// workers that consume rendered bundles and write each one under
// <dir>/<subdomain>/.
type Builder struct {
	source  Source
	dir     string
	workers int
	stopCh  chan struct{}
	wg      sync.WaitGroup
	logger  *zap.Logger
}

func NewBuilder(source Source, dir string, workers int, logger *zap.Logger) *Builder {
	if workers <= 0 {
		workers = 1
	}
	return &Builder{
		source:  source,
		dir:     dir,
		workers: workers,
		stopCh:  make(chan struct{}),
		logger:  logger,
	}
}

func (b *Builder) Start() error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	msgs, err := b.source.ConsumeBuilds("site-builder", b.workers)
	if err != nil {
		return err
	}

	b.logger.Info("starting site builder", zap.String("dir", b.dir), zap.Int("workers", b.workers))
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.run(msgs)
	}
	return nil
}

func (b *Builder) run(msgs <-chan amqp.Delivery) {
	defer b.wg.Done()
	metrics.BuildWorkersActive.Inc()
	defer metrics.BuildWorkersActive.Dec()

	for {
		select {
		case <-b.stopCh:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			b.handle(msg)
		}
	}
}

// Stop signals the workers and waits for in-flight bundles.
func (b *Builder) Stop() {
	close(b.stopCh)
	b.wg.Wait()
	b.logger.Info("site builder stopped")
}

func (b *Builder) handle(msg amqp.Delivery) {
	var bundle site.Bundle
	err := json.Unmarshal(msg.Body, &bundle)
	if err == nil {
		var path string
		path, err = WriteBundle(b.dir, &bundle)
		if errors.Is(err, ErrStaleBundle) {
			metrics.BundlesBuilt.WithLabelValues("stale").Inc()
			b.logger.Info("skipping stale site bundle",
				zap.String("tenant", bundle.TenantID.String()),
				zap.Time("updated_at", bundle.UpdatedAt))
			_ = msg.Ack(false)
			return
		}
		if err == nil {
			metrics.BundlesBuilt.WithLabelValues("written").Inc()
			b.logger.Info("site bundle written",
				zap.String("tenant", bundle.TenantID.String()),
				zap.String("path", path),
				zap.String("checksum", bundle.Checksum))
			_ = msg.Ack(false)
			return
		}
	}

	metrics.BundlesBuilt.WithLabelValues("rejected").Inc()
	b.logger.Error("failed to build site bundle", zap.Error(err))
	_ = msg.Reject(false) // send to DLQ
}

// WriteBundle replaces <dir>/<subdomain> with the bundle's files. The new
// tree is staged next to the target and swapped in with a rename. The site
// directory's mtime records the bundle's UpdatedAt; a bundle older than the
// one on disk is refused with ErrStaleBundle.
func WriteBundle(dir string, bundle *site.Bundle) (string, error) {
	if bundle.Subdomain == "" || !filepath.IsLocal(bundle.Subdomain) || filepath.Base(bundle.Subdomain) != bundle.Subdomain {
		return "", fmt.Errorf("%w: subdomain %q", ErrBadBundle, bundle.Subdomain)
	}
	if !bundle.Verify() {
		return "", fmt.Errorf("%w: checksum mismatch for %s", ErrBadBundle, bundle.Subdomain)
	}
	for name := range bundle.Files {
		if !filepath.IsLocal(name) {
			return "", fmt.Errorf("%w: file name %q", ErrBadBundle, name)
		}
	}

	target := filepath.Join(dir, bundle.Subdomain)
	unlock := lockSite(target)
	defer unlock()

	if !bundle.UpdatedAt.IsZero() {
		if info, err := os.Stat(target); err == nil && info.ModTime().After(bundle.UpdatedAt) {
			return "", fmt.Errorf("%w: %s rendered at %s", ErrStaleBundle, bundle.Subdomain, bundle.UpdatedAt.Format(time.RFC3339Nano))
		}
	}

	staging, err := os.MkdirTemp(dir, "."+bundle.Subdomain+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	for name, content := range bundle.Files {
		path := filepath.Join(staging, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := os.Chmod(staging, 0o755); err != nil {
		return "", err
	}

	if !bundle.UpdatedAt.IsZero() {
		if err := os.Chtimes(staging, bundle.UpdatedAt, bundle.UpdatedAt); err != nil {
			return "", err
		}
	}

	if err := os.RemoveAll(target); err != nil {
		return "", fmt.Errorf("failed to clear %s: %w", target, err)
	}
	if err := os.Rename(staging, target); err != nil {
		return "", fmt.Errorf("failed to publish %s: %w", target, err)
	}
	return target, nil
}
