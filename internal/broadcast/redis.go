package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultChannel = "room_events"

// RedisBridge — межпроцессный бекенд Broadcaster: локальная доставка
// через Hub плюс публикация конверта в pub/sub, чтобы инстансы с чужими
// сокетами доставили событие своим. Конверт помечен instance id —
// собственные публикации пропускаются.
type RedisBridge struct {
	hub      *Hub
	rdb      *redis.Client
	channel  string
	instance string
}

type envelope struct {
	Instance string  `json:"instance"`
	Kind     string  `json:"kind"` // room | user | disconnect
	RoomID   string  `json:"room_id,omitempty"`
	UserID   int64   `json:"user_id,omitempty"`
	Exclude  int64   `json:"exclude,omitempty"`
	Reason   string  `json:"reason,omitempty"`
	Message  Message `json:"message"`
}

func NewRedisBridge(hub *Hub, rdb *redis.Client) *RedisBridge {
	return &RedisBridge{
		hub:      hub,
		rdb:      rdb,
		channel:  defaultChannel,
		instance: uuid.NewString(),
	}
}

// NewRedisClient — клиент с проверкой Ping.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (b *RedisBridge) Broadcast(roomID string, msg Message, excludeUserID int64) {
	b.hub.Broadcast(roomID, msg, excludeUserID)
	b.publish(envelope{Kind: "room", RoomID: roomID, Exclude: excludeUserID, Message: msg})
}

func (b *RedisBridge) SendToUser(userID int64, msg Message) bool {
	delivered := b.hub.SendToUser(userID, msg)
	if !delivered {
		// сокет может жить на другом инстансе
		b.publish(envelope{Kind: "user", UserID: userID, Message: msg})
	}
	return delivered
}

func (b *RedisBridge) ForceDisconnect(roomID string, userID int64, reason string) {
	b.hub.ForceDisconnect(roomID, userID, reason)
	b.publish(envelope{Kind: "disconnect", RoomID: roomID, UserID: userID, Reason: reason})
}

func (b *RedisBridge) publish(env envelope) {
	env.Instance = b.instance
	data, err := json.Marshal(env)
	if err != nil {
		slog.Error("broadcast: marshal envelope", "err", err)
		return
	}
	// fire-and-forget: неудача публикации не валит HTTP-ответ
	if err := b.rdb.Publish(context.Background(), b.channel, data).Err(); err != nil {
		slog.Warn("broadcast: publish failed", "err", err)
	}
}

// Run читает канал до отмены ctx и вливает чужие конверты в локальный хаб.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
				slog.Warn("broadcast: bad envelope", "err", err)
				continue
			}
			if env.Instance == b.instance {
				continue
			}
			switch env.Kind {
			case "room":
				b.hub.Broadcast(env.RoomID, env.Message, env.Exclude)
			case "user":
				b.hub.SendToUser(env.UserID, env.Message)
			case "disconnect":
				b.hub.ForceDisconnect(env.RoomID, env.UserID, env.Reason)
			}
		}
	}
}
