package subdomain

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type registryResponse struct {
	Subdomain string `json:"subdomain"`
	Available bool   `json:"available"`
}

// RemoteRegistry asks the central tenant registry whether a name is in use.
type RemoteRegistry struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewRemoteRegistry(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteRegistry {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &RemoteRegistry{
		httpClient: client,
		logger:     logger,
	}
}

func (r *RemoteRegistry) IsTaken(ctx context.Context, name string) (bool, error) {
	var out registryResponse
	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetPathParam("name", name).
		SetResult(&out).
		Get("/subdomains/{name}")
	if err != nil {
		return false, fmt.Errorf("registry lookup %q: %w", name, err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("registry lookup %q: unexpected status %d", name, resp.StatusCode())
	}

	r.logger.Debug("registry lookup",
		zap.String("subdomain", name),
		zap.Bool("available", out.Available),
		zap.Duration("elapsed", resp.Time()),
	)
	return !out.Available, nil
}
