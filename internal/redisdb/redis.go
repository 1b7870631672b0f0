package redisdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"StockNotifier/internal/models"
)

type RedisConnection struct {
	rdb *redis.Client
}

// Close redis connection
func (rc *RedisConnection) Close() {
	err := rc.rdb.Close()
	if err != nil {
		panic(err)
	}
}

func DeclareRedisDataBase(options redis.Options) *RedisConnection {
	rdb := redis.NewClient(&options)
	return &RedisConnection{rdb: rdb}
}

// Ping checks the connection is alive before the service starts serving.
func (rc *RedisConnection) Ping(ctx context.Context) error {
	if err := rc.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %s", models.ErrStoreUnavailable, err)
	}
	return nil
}

func stockKey(itemID int) string {
	return "item." + strconv.Itoa(itemID)
}

// reserveScript increments the item counter only while it is below the
// limit. Check and increment run as one script, so concurrent reservations
// cannot both take the last unit.
var reserveScript = redis.NewScript(`
local reserved = tonumber(redis.call('GET', KEYS[1]) or '0')
if reserved >= tonumber(ARGV[1]) then
	return -1
end
return redis.call('INCR', KEYS[1])
`)

// GetReservedStock reads the reserved count for an item. A missing key
// reads as 0; any transport error is reported as ErrStoreUnavailable so it
// is never mistaken for an empty counter.
func (rc *RedisConnection) GetReservedStock(ctx context.Context, itemID int) (int, error) {
	val, err := rc.rdb.Get(ctx, stockKey(itemID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", models.ErrStoreUnavailable, err)
	}

	reserved, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("reserved stock for item %d is not a number: %s", itemID, err)
	}
	return reserved, nil
}

// ReserveStock runs the capped increment. Returns false when the counter
// already reached limit.
func (rc *RedisConnection) ReserveStock(ctx context.Context, itemID, limit int) (bool, error) {
	res, err := reserveScript.Run(ctx, rc.rdb, []string{stockKey(itemID)}, limit).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %s", models.ErrStoreUnavailable, err)
	}
	return res >= 0, nil
}

// ResetStock sets the counter for every given item back to 0.
func (rc *RedisConnection) ResetStock(ctx context.Context, itemIDs []int) error {
	pipe := rc.rdb.Pipeline()
	for _, id := range itemIDs {
		pipe.Set(ctx, stockKey(id), 0, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %s", models.ErrStoreUnavailable, err)
	}
	return nil
}

// SaveJob stores a job's payload and status in a hash keyed by job id.
func (rc *RedisConnection) SaveJob(ctx context.Context, id, jobType string, data models.PushNotification) error {
	fields := map[string]any{
		"type":        jobType,
		"phoneNumber": data.PhoneNumber,
		"message":     data.Message,
		"status":      models.StatusCreated,
	}
	if err := rc.rdb.HSet(ctx, id, fields).Err(); err != nil {
		return errors.New("Failed to save job into Redis DB")
	}
	return nil
}

// SaveStatus updates the status field of a stored job.
func (rc *RedisConnection) SaveStatus(ctx context.Context, id string, status string) error {
	_, err := rc.rdb.HSet(ctx, id, "status", status).Result()
	if err != nil {
		return errors.New("Failed to save status into Redis DB")
	}
	return nil
}

// GetStatus reads the status field of a stored job.
func (rc *RedisConnection) GetStatus(ctx context.Context, id string) (string, error) {
	isExists, err := rc.rdb.HExists(ctx, id, "status").Result()
	if err != nil {
		return "", fmt.Errorf("%w: %s", models.ErrStoreUnavailable, err)
	}
	if !isExists {
		return "", errors.New("Failed to get status from Redis DB: no such job")
	}
	status, err := rc.rdb.HGet(ctx, id, "status").Result()
	if err != nil {
		return "", errors.New("Failed to get status from Redis DB")
	}

	return status, nil
}

// Publish broadcasts a message to a channel. Fire and forget: no delivery
// or persistence guarantee.
func (rc *RedisConnection) Publish(ctx context.Context, channel, message string) error {
	if err := rc.rdb.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("%w: %s", models.ErrStoreUnavailable, err)
	}
	return nil
}

// Subscribe opens a subscription on a channel and returns its message
// stream. The caller owns the returned PubSub and must Close it.
func (rc *RedisConnection) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return rc.rdb.Subscribe(ctx, channel)
}
