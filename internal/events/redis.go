package events

import (
	"context"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
)

func CartChannel(userID gocql.UUID) string {
	return "cart:" + userID.String()
}

// RedisCart fans cart changes out over pub/sub so every server instance can push them to its sockets.
type RedisCart struct {
	rdb *redis.Client
}

func NewRedisCart(rdb *redis.Client) *RedisCart {
	return &RedisCart{rdb: rdb}
}

func (r *RedisCart) CartChanged(ctx context.Context, userID gocql.UUID, change string) error {
	return r.rdb.Publish(ctx, CartChannel(userID), change).Err()
}

// Subscribe returns a channel of change payloads for userID. It is closed when ctx ends.
func (r *RedisCart) Subscribe(ctx context.Context, userID gocql.UUID) <-chan string {
	sub := r.rdb.Subscribe(ctx, CartChannel(userID))
	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- m.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
