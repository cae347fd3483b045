package service

import (
	"context"
	"fmt"
	"math"

	"github.com/docker/go-units"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// QuotaProvider returns the quota in bytes that applies to userID.
type QuotaProvider func(ctx context.Context, userID string) int64

// FixedQuota returns a provider that grants every user the same quota.
func FixedQuota(bytes int64) QuotaProvider {
	return func(context.Context, string) int64 { return bytes }
}

// QuotaGuard admits or rejects writes against a user's quota.
//
// Usage is summed from the documents table on every call; there is no running counter.
// No lock is held between Check and the write that follows, so two concurrent uploads
// near the limit can both be admitted.
type QuotaGuard struct {
	repo  repository.DocumentRepository
	quota QuotaProvider
}

// NewQuotaGuard creates a guard with a fixed per-deployment quota.
func NewQuotaGuard(repo repository.DocumentRepository, quota int64) *QuotaGuard {
	return &QuotaGuard{repo: repo, quota: FixedQuota(quota)}
}

// WithProvider replaces the quota source, e.g. to add per-user overrides.
func (g *QuotaGuard) WithProvider(p QuotaProvider) *QuotaGuard {
	if p != nil {
		g.quota = p
	}
	return g
}

// Check reports whether candidate more bytes fit: quota - used >= candidate.
func (g *QuotaGuard) Check(ctx context.Context, userID string, candidate int64) (bool, error) {
	used, err := g.repo.SumSizeByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("compute storage usage: %w", err)
	}
	return g.quota(ctx, userID)-used >= candidate, nil
}

// Admit is Check that reports rejection as ErrQuotaExceeded.
func (g *QuotaGuard) Admit(ctx context.Context, userID string, candidate int64) error {
	ok, err := g.Check(ctx, userID, candidate)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s requested", ErrQuotaExceeded, units.BytesSize(float64(candidate)))
	}
	return nil
}

// Info returns the live storage usage of userID.
func (g *QuotaGuard) Info(ctx context.Context, userID string) (*model.StorageInfo, error) {
	used, err := g.repo.SumSizeByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("compute storage usage: %w", err)
	}
	quota := g.quota(ctx, userID)

	var percent float64
	switch {
	case quota > 0:
		percent = math.Round(float64(used)*10000/float64(quota)) / 100
	case used > 0:
		percent = 100
	}

	return &model.StorageInfo{
		UsedSpace:    used,
		TotalQuota:   quota,
		Remaining:    max(0, quota-used),
		UsagePercent: percent,
		NearLimit:    percent >= model.NearLimitPercent,
		UsedHuman:    units.BytesSize(float64(used)),
		QuotaHuman:   units.BytesSize(float64(quota)),
	}, nil
}
