package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/salesdesk/internal/shared"
)

// ErrSubmitInFlight is returned when the draft is already being submitted.
var ErrSubmitInFlight = errors.New("sales: submission already in progress")

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SubmitGuard allows one submission per draft at a time.
type SubmitGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubmitGuard constructs the guard. ttl bounds how long a crashed
// submission can keep the draft locked.
func NewSubmitGuard(client *redis.Client, ttl time.Duration) *SubmitGuard {
	return &SubmitGuard{client: client, ttl: ttl}
}

// Acquire locks the draft for submission. The returned release func must be
// called once the backend answered.
func (g *SubmitGuard) Acquire(ctx context.Context, draftID string) (func(), error) {
	key := shared.DraftSubmitLockKey(draftID)
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("sales: acquire submit lock: %w", err)
	}
	if !ok {
		return nil, ErrSubmitInFlight
	}
	release := func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, g.client, []string{key}, token).Err()
	}
	return release, nil
}
