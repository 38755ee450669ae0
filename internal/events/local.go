package events

import (
	"context"
	"sync"

	"github.com/gocql/gocql"
)

// Local delivers cart changes to subscribers in this process. It stands in for RedisCart
// when Redis is not configured.
type Local struct {
	mu   sync.Mutex
	subs map[gocql.UUID]map[chan string]struct{}
}

func NewLocal() *Local {
	return &Local{subs: make(map[gocql.UUID]map[chan string]struct{})}
}

func (l *Local) CartChanged(_ context.Context, userID gocql.UUID, change string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ch := range l.subs[userID] {
		select {
		case ch <- change:
		default:
			// slow reader, it will catch up on the next change
		}
	}
	return nil
}

func (l *Local) Subscribe(ctx context.Context, userID gocql.UUID) <-chan string {
	ch := make(chan string, 8)
	l.mu.Lock()
	if l.subs[userID] == nil {
		l.subs[userID] = make(map[chan string]struct{})
	}
	l.subs[userID][ch] = struct{}{}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.subs[userID], ch)
		if len(l.subs[userID]) == 0 {
			delete(l.subs, userID)
		}
		l.mu.Unlock()
		close(ch)
	}()
	return ch
}
