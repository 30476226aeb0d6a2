// Package cache publishes per-game action records to a Redis stream for
// replay and audit. It is strictly observability: the game core never reads
// it back, and a nil Historian disables it entirely.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// streamKey is the Redis stream all game actions are appended to.
const streamKey = "game:actions"

// GameActionRecord is one entry in the action history: a single
// state-changing action within a game, ordered by ActionIndex.
type GameActionRecord struct {
	GameID      uuid.UUID              `json:"gameId"`
	ActionIndex int                    `json:"actionIndex"`
	ActorID     uuid.UUID              `json:"actorId"` // uuid.Nil for game-lifecycle events
	ActionType  string                 `json:"actionType"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"`
}

// Historian appends action records to Redis.
type Historian struct {
	rdb *redis.Client
	log *logrus.Logger
}

// New connects to Redis at addr and verifies the connection.
func New(addr string, log *logrus.Logger) (*Historian, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &Historian{rdb: rdb, log: log}, nil
}

// Publish appends one record to the action stream.
func (h *Historian) Publish(ctx context.Context, rec GameActionRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling action record: %w", err)
	}
	return h.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"game":   rec.GameID.String(),
			"record": body,
		},
	}).Err()
}

// Close releases the Redis connection.
func (h *Historian) Close() error {
	return h.rdb.Close()
}
