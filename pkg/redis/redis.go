package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

type IRedis interface {
	ClaimRoom(ctx context.Context, room string, callID string, expiration time.Duration) (bool, error)
	ReleaseRoom(ctx context.Context, room string) error
	SetCallState(ctx context.Context, callID string, state string, expiration time.Duration) error
	GetCallState(ctx context.Context, callID string) (string, error)
	DeleteCallState(ctx context.Context, callID string) error
	PublishTranscriptLine(ctx context.Context, callID string, line string) error
	SubscribeTranscript(ctx context.Context, callID string) (<-chan string, func() error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

// ClaimRoom marks a media room as owned by one call. Returns false when
// another call already holds the claim.
func (r *redisClient) ClaimRoom(ctx context.Context, room string, callID string, expiration time.Duration) (bool, error) {
	logrus.Debug(fmt.Sprintf("Claiming room %s for call %s", room, callID))
	ok, err := r.client.SetNX(ctx, roomClaimKey(room), callID, expiration).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error claiming room %s: %v", room, err))
		return false, err
	}
	if !ok {
		logrus.Debug(fmt.Sprintf("Room %s is already claimed", room))
	}
	return ok, nil
}

func (r *redisClient) ReleaseRoom(ctx context.Context, room string) error {
	logrus.Debug(fmt.Sprintf("Releasing room claim for %s", room))
	if err := r.client.Del(ctx, roomClaimKey(room)).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error releasing room %s: %v", room, err))
		return err
	}
	return nil
}

func (r *redisClient) SetCallState(ctx context.Context, callID string, state string, expiration time.Duration) error {
	logrus.Debug(fmt.Sprintf("Setting state for call %s", callID))
	err := r.client.Set(ctx, callStateKey(callID), state, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error setting state for call %s: %v", callID, err))
		return err
	}
	return nil
}

func (r *redisClient) GetCallState(ctx context.Context, callID string) (string, error) {
	logrus.Debug(fmt.Sprintf("Getting state for call %s", callID))
	val, err := r.client.Get(ctx, callStateKey(callID)).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("No state found for call %s", callID))
		return "", err
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting state for call %s: %v", callID, err))
		return "", err
	}
	return val, nil
}

func (r *redisClient) DeleteCallState(ctx context.Context, callID string) error {
	logrus.Debug(fmt.Sprintf("Deleting state for call %s", callID))
	result, err := r.client.Del(ctx, callStateKey(callID)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting state for call %s: %v", callID, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("State for call %s not found for deletion", callID))
	}
	return nil
}

func (r *redisClient) PublishTranscriptLine(ctx context.Context, callID string, line string) error {
	err := r.client.Publish(ctx, transcriptChannel(callID), line).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error publishing transcript line for call %s: %v", callID, err))
		return err
	}
	return nil
}

// SubscribeTranscript streams live transcript lines for one call. The
// returned closer must be called to tear the subscription down.
func (r *redisClient) SubscribeTranscript(ctx context.Context, callID string) (<-chan string, func() error) {
	channel := transcriptChannel(callID)
	logrus.Debug(fmt.Sprintf("Subscribing to transcript channel %s", channel))

	pubsub := r.client.Subscribe(ctx, channel)
	lines := make(chan string, 32)

	go func() {
		defer close(lines)
		for msg := range pubsub.Channel() {
			select {
			case lines <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines, pubsub.Close
}

func roomClaimKey(room string) string {
	return "room:" + room + ":claim"
}

func callStateKey(callID string) string {
	return "call:" + callID + ":state"
}

func transcriptChannel(callID string) string {
	return "call:" + callID + ":transcript"
}
