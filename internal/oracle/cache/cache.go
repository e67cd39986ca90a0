// Package cache decorates an oracle with a short-TTL Redis verdict cache.
//
// Admission checks hit the oracle three times per gated call; caching keeps
// the oracle's load and latency out of the hot path. The TTL bounds how long
// a stale suspension or rating can keep admitting an account, so it must be
// kept short.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"medgate/internal/oracle"
	"medgate/pkg/domain"
)

// Verdicts wraps an oracle with per-question caching. Cache failures fall
// through to the inner oracle; a broken cache must never deny admission.
type Verdicts struct {
	inner  oracle.Oracle
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New constructs the caching decorator.
func New(inner oracle.Oracle, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Verdicts {
	return &Verdicts{inner: inner, client: client, ttl: ttl, logger: logger}
}

func credentialKey(account domain.Account) string {
	return "medgate:oracle:credential:" + account.String()
}

func suspensionKey(account domain.Account) string {
	return "medgate:oracle:suspension:" + account.String()
}

func ratingKey(account domain.Account) string {
	return "medgate:oracle:rating:" + account.String()
}

func (v *Verdicts) HoldsCredential(ctx context.Context, account domain.Account) (bool, error) {
	if cached, ok := v.getBool(ctx, credentialKey(account)); ok {
		return cached, nil
	}
	holds, err := v.inner.HoldsCredential(ctx, account)
	if err != nil {
		return false, err
	}
	v.setBool(ctx, credentialKey(account), holds)
	return holds, nil
}

func (v *Verdicts) IsSuspended(ctx context.Context, account domain.Account) (bool, error) {
	if cached, ok := v.getBool(ctx, suspensionKey(account)); ok {
		return cached, nil
	}
	suspended, err := v.inner.IsSuspended(ctx, account)
	if err != nil {
		return false, err
	}
	v.setBool(ctx, suspensionKey(account), suspended)
	return suspended, nil
}

func (v *Verdicts) CompetencyRating(ctx context.Context, account domain.Account) (oracle.Rating, error) {
	key := ratingKey(account)
	if raw, err := v.client.Get(ctx, key).Result(); err == nil {
		var rating oracle.Rating
		if err := json.Unmarshal([]byte(raw), &rating); err == nil {
			return rating, nil
		}
		// Corrupt entry; drop it and refetch.
		v.client.Del(ctx, key)
	}

	rating, err := v.inner.CompetencyRating(ctx, account)
	if err != nil {
		return oracle.Rating{}, err
	}
	if raw, err := json.Marshal(rating); err == nil {
		if err := v.client.Set(ctx, key, raw, v.ttl).Err(); err != nil {
			v.warn(ctx, "rating cache write failed", account, err)
		}
	}
	return rating, nil
}

// Invalidate drops all cached verdicts for an account. Settings changes call
// this when the oracle reference is swapped.
func (v *Verdicts) Invalidate(ctx context.Context, account domain.Account) error {
	return v.client.Del(ctx, credentialKey(account), suspensionKey(account), ratingKey(account)).Err()
}

func (v *Verdicts) getBool(ctx context.Context, key string) (bool, bool) {
	raw, err := v.client.Get(ctx, key).Result()
	if err != nil {
		return false, false
	}
	return raw == "1", true
}

func (v *Verdicts) setBool(ctx context.Context, key string, value bool) {
	raw := "0"
	if value {
		raw = "1"
	}
	if err := v.client.Set(ctx, key, raw, v.ttl).Err(); err != nil {
		v.warn(ctx, "verdict cache write failed", "", err)
	}
}

func (v *Verdicts) warn(ctx context.Context, msg string, account domain.Account, err error) {
	if v.logger == nil {
		return
	}
	v.logger.WarnContext(ctx, msg,
		"account", fmt.Sprint(account),
		"error", err,
	)
}
