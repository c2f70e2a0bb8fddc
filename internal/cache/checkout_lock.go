package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 仅删除自己持有的锁
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func checkoutLockKey(userID uint) string {
	return fmt.Sprintf("checkout:%d", userID)
}

// AcquireCheckoutLock 获取用户结算锁，返回释放函数；未启用 Redis 时直接成功
func AcquireCheckoutLock(ctx context.Context, userID uint, ttl time.Duration) (bool, func(), error) {
	noop := func() {}
	if !Enabled() || userID == 0 {
		return true, noop, nil
	}
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	key := BuildKey(checkoutLockKey(userID))
	token := uuid.NewString()
	ok, err := redisClient.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, noop, err
	}
	if !ok {
		return false, noop, nil
	}
	release := func() {
		_ = releaseLockScript.Run(context.Background(), redisClient, []string{key}, token).Err()
	}
	return true, release, nil
}
