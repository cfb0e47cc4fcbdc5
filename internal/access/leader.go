package access

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LeaderLookup asks the backend whether a user leads any project.
type LeaderLookup interface {
	IsProjectLeader(ctx context.Context, token, userID string) (bool, error)
}

// Cache stores lookup results between requests.
type Cache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
}

// LeaderResolver resolves the project-leader capability once per user per
// TTL. Any lookup failure resolves to false and is not cached, so the next
// request retries.
type LeaderResolver struct {
	lookup LeaderLookup
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewLeaderResolver(lookup LeaderLookup, cache Cache, ttl time.Duration, logger *zap.Logger) *LeaderResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderResolver{lookup: lookup, cache: cache, ttl: ttl, logger: logger}
}

func (l *LeaderResolver) IsProjectLeader(ctx context.Context, token, userID string) bool {
	if userID == "" || token == "" {
		return false
	}
	key := "admin:leader:" + userID
	if l.cache != nil {
		if value, ok, err := l.cache.Get(ctx, key); err == nil && ok {
			return value == "1"
		} else if err != nil {
			l.logger.Warn("leader cache read failed", zap.Error(err))
		}
	}

	leader, err := l.lookup.IsProjectLeader(ctx, token, userID)
	if err != nil {
		l.logger.Info("project leader lookup failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}

	if l.cache != nil {
		value := "0"
		if leader {
			value = "1"
		}
		if err := l.cache.Set(ctx, key, value, l.ttl); err != nil {
			l.logger.Warn("leader cache write failed", zap.Error(err))
		}
	}
	return leader
}
