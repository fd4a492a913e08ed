package notify

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const NotificationsChannel = "fitcoach:notifications"

// RedisNotifier publishes notifications as JSON on a redis pub/sub channel,
// for push gateways and connected clients to pick up.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = NotificationsChannel
	}
	return &RedisNotifier{
		rdb:     rdb,
		channel: channel,
	}
}

func (n *RedisNotifier) Completed(ctx context.Context, p Progress) {
	n.publish(ctx, NewMessage(KindCompleted, p))
}

func (n *RedisNotifier) Progress(ctx context.Context, p Progress) {
	n.publish(ctx, NewMessage(KindProgress, p))
}

func (n *RedisNotifier) AlmostDone(ctx context.Context, p Progress) {
	n.publish(ctx, NewMessage(KindAlmostDone, p))
}

func (n *RedisNotifier) publish(ctx context.Context, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("marshal %s notification: %s", msg.Kind, err)
		return
	}
	if err := n.rdb.Publish(ctx, n.channel, string(payload)).Err(); err != nil {
		log.Errorf("publish %s notification for challenge %s: %s", msg.Kind, msg.ChallengeID, err)
	}
}
