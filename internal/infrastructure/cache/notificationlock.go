package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/piprapay/ppgateway/internal/shared/logger"
)

const (
	notificationLockPrefix = "ppgateway:notify:lock:"
	defaultLockTTL         = 2 * time.Minute
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NotificationLock is a Redis lock keyed by pp_id. It keeps two concurrent
// deliveries of the same payment from both calling the provider.
type NotificationLock struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewNotificationLock(client *redis.Client, ttl time.Duration, log logger.Interface) *NotificationLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &NotificationLock{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

// Acquire takes the lock for ppID. ok is false when someone else holds it.
func (l *NotificationLock) Acquire(ctx context.Context, ppID string) (func(), bool, error) {
	if ppID == "" {
		return nil, false, errors.New("pp_id cannot be empty")
	}

	key := notificationLockPrefix + ppID
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire notification lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}

	release := func() {
		// the request context may already be done
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warnw("failed to release notification lock", "pp_id", ppID, "error", err)
		}
	}

	return release, true, nil
}
