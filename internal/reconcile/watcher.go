package reconcile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/fitcoach/internal/fitlog"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const ChangesChannel = "fitcoach:changes"

// RedisPublisher announces changes on the redis changes channel, so any
// service instance running a Watcher reconciles them.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		rdb:     rdb,
		channel: ChangesChannel,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, change fitlog.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, string(payload)).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

type triggerNotifier interface {
	Notify(trigger Trigger) bool
}

// Watcher subscribes to the changes channel and hands every change to the
// scheduler as a trigger.
type Watcher struct {
	rdb       *redis.Client
	channel   string
	scheduler triggerNotifier
}

func NewWatcher(rdb *redis.Client, scheduler triggerNotifier) *Watcher {
	return &Watcher{
		rdb:       rdb,
		channel:   ChangesChannel,
		scheduler: scheduler,
	}
}

// Start subscribes and returns once the subscription is confirmed. Messages
// are consumed in the background until ctx is done; the returned channel is
// closed when the consumer has exited.
func (w *Watcher) Start(ctx context.Context) (<-chan struct{}, error) {
	pubsub := w.rdb.Subscribe(ctx, w.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", w.channel, err)
	}
	log.Infof("reconcile watcher subscribed to %s", w.channel)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if err := pubsub.Close(); err != nil {
				log.Errorf("close %s subscription: %s", w.channel, err)
			}
		}()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				log.Debugln("reconcile watcher context done, unsubscribing")
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				w.handle(msg.Payload)
			}
		}
	}()

	return done, nil
}

func (w *Watcher) handle(payload string) {
	var change fitlog.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		log.Errorf("reconcile watcher, invalid change message [%s]: %s", payload, err)
		return
	}
	if change.UserID == "" {
		log.Warnf("reconcile watcher, change without user: %s", payload)
		return
	}
	if !w.scheduler.Notify(TriggerFrom(change)) {
		log.Warnf("reconcile watcher, scheduler refused change for %s", change.UserID)
	}
}
