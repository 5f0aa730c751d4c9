package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotBusy is returned when another request currently holds the slot.
var ErrSlotBusy = errors.New("slot is being booked by another request")

// releaseSlotScript deletes the reservation only if it still carries the
// caller's token, so an expired and re-acquired reservation is left alone.
var releaseSlotScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	slotKeyPrefix = "appointment:slot:"

	// Reservation lifetime; long enough to cover the booking transaction.
	defaultSlotHold = 10 * time.Second

	// Timeout for the release call, which runs after the request context
	// may already be cancelled.
	slotReleaseTimeout = 2 * time.Second
)

// SlotGuard serialises booking attempts for one (doctor, date, time) slot.
// It only narrows the race window; the store constraint stays the source
// of truth.
type SlotGuard interface {
	// Reserve claims the slot. The returned release func is never nil and
	// is safe to call more than once.
	Reserve(ctx context.Context, doctorID int, date, slot string) (release func(), err error)
}

type redisSlotGuard struct {
	redisClient *redis.Client
	log         *logrus.Logger
	hold        time.Duration
}

func NewRedisSlotGuard(redisClient *redis.Client, log *logrus.Logger) SlotGuard {
	return &redisSlotGuard{
		redisClient: redisClient,
		log:         log,
		hold:        defaultSlotHold,
	}
}

func slotKey(doctorID int, date, slot string) string {
	return fmt.Sprintf("%s%d:%s:%s", slotKeyPrefix, doctorID, date, slot)
}

func (g *redisSlotGuard) Reserve(ctx context.Context, doctorID int, date, slot string) (func(), error) {
	key := slotKey(doctorID, date, slot)
	token := uuid.New().String()

	ok, err := g.redisClient.SetNX(ctx, key, token, g.hold).Result()
	if err != nil {
		return func() {}, fmt.Errorf("reserve slot %s: %w", key, err)
	}
	if !ok {
		return func() {}, ErrSlotBusy
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true

		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), slotReleaseTimeout)
		defer cancel()
		if err := releaseSlotScript.Run(releaseCtx, g.redisClient, []string{key}, token).Err(); err != nil {
			g.log.Warnf("Failed to release slot reservation %s: %+v", key, err)
		}
	}, nil
}
