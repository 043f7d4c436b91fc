package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dayFormat = "2006-01-02"

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

// SetDateLock claims one stay date of a venue for a customer while checkout
// is in flight. Returns false when another customer already has the date.
// The database's booked_dates constraint remains the authority; this lock
// just fails fast across instances.
func (c *Cache) SetDateLock(ctx context.Context, venueID string, day time.Time, customer string, ttl time.Duration) (bool, error) {
	key := "lock:" + venueID + ":" + day.Format(dayFormat)
	res := c.client.SetNX(ctx, key, customer, ttl)
	return res.Val(), res.Err()
}

// ReleaseDateLock drops a date lock, typically when its hold expired.
func (c *Cache) ReleaseDateLock(ctx context.Context, venueID string, day time.Time) error {
	return c.client.Del(ctx, "lock:"+venueID+":"+day.Format(dayFormat)).Err()
}
