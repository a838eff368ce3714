package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/campuscrush/app/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Handlers receive decoded events on a scope's consumer goroutine.
// Either may be nil when a scope only cares about one topic.
type Handlers struct {
	OnMatch   func(MatchEvent)
	OnMessage func(MessageEvent)
}

// Scope is one subscription with its own event queue drained by a
// single serial consumer, so reconciliation for a scope never
// interleaves. Close tears the listener down; leaking scopes means
// duplicate reconciliation triggers.
type Scope struct {
	name   string
	pubsub *redis.PubSub
	queue  chan any
	once   sync.Once
	done   chan struct{}
}

type Subscriber struct {
	rdb *redis.Client
}

func NewSubscriber(rdb *redis.Client) *Subscriber {
	return &Subscriber{rdb: rdb}
}

// Open subscribes to the given topics and starts the scope's reader and
// consumer. The scope ends when Close is called or ctx is canceled.
func (s *Subscriber) Open(ctx context.Context, name string, h Handlers, topics ...string) *Scope {
	scope := &Scope{
		name:   name,
		pubsub: s.rdb.Subscribe(ctx, topics...),
		queue:  make(chan any, 64),
		done:   make(chan struct{}),
	}

	go scope.read(ctx)
	go scope.consume(h)

	go func() {
		<-ctx.Done()
		scope.Close()
	}()

	return scope
}

func (sc *Scope) Close() {
	sc.once.Do(func() {
		if err := sc.pubsub.Close(); err != nil {
			logger.Warn("close subscription", "scope", sc.name, "err", err)
		}
	})
	<-sc.done
}

// read decodes raw pub/sub payloads into the scope queue. It exits when
// the pubsub is closed, which closes the queue and stops the consumer.
func (sc *Scope) read(ctx context.Context) {
	defer close(sc.queue)

	for msg := range sc.pubsub.Channel() {
		switch msg.Channel {
		case TopicMatches:
			var ev MatchEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warn("bad match event payload", "scope", sc.name, "err", err)
				continue
			}
			sc.enqueue(ctx, ev)
		case TopicMessages:
			var ev MessageEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warn("bad message event payload", "scope", sc.name, "err", err)
				continue
			}
			sc.enqueue(ctx, ev)
		}
	}
}

func (sc *Scope) enqueue(ctx context.Context, ev any) {
	select {
	case sc.queue <- ev:
	case <-ctx.Done():
	}
}

func (sc *Scope) consume(h Handlers) {
	defer close(sc.done)

	for ev := range sc.queue {
		switch ev := ev.(type) {
		case MatchEvent:
			if h.OnMatch != nil {
				h.OnMatch(ev)
			}
		case MessageEvent:
			if h.OnMessage != nil {
				h.OnMessage(ev)
			}
		}
	}
}
