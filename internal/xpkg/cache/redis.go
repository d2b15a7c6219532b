package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

var ErrTokenNotFound = errors.New("token not found or expired")

const (
	cartPrefix    = "cartItems:"
	plateauPrefix = "plateauItems:"
	revokedPrefix = "auth:revoked:"
	resetPrefix   = "auth:reset:"
)

func CartKey(owner string) string    { return cartPrefix + owner }
func PlateauKey(owner string) string { return plateauPrefix + owner }

// Store keeps the per-owner cart and plateau between requests, together
// with the short-lived auth tokens.
type Store struct {
	rdb   redis.UniversalClient
	ttl   time.Duration
	mylog logger.Logger
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.Redis, mylog logger.Logger) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewWithClient(rdb, cfg.CartTTL, mylog), nil
}

func NewWithClient(rdb redis.UniversalClient, ttl time.Duration, mylog logger.Logger) *Store {
	return &Store{rdb: rdb, ttl: ttl, mylog: mylog}
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) IsAlive(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Items loads the list stored under key. A missing key is an empty list; a
// key holding malformed JSON is deleted and also reads as empty.
func (s *Store) Items(ctx context.Context, key string) ([]models.LineItem, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var items []models.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		s.mylog.Action("corrupt_cache_entry").Warn("Dropping malformed cached list", "key", key, "error", err.Error())
		if delErr := s.rdb.Del(ctx, key).Err(); delErr != nil {
			return nil, fmt.Errorf("delete corrupt %s: %w", key, delErr)
		}
		return nil, nil
	}
	return items, nil
}

// SaveItems replaces the list under key and refreshes its TTL. Saving an
// empty list removes the key.
func (s *Store) SaveItems(ctx context.Context, key string, items []models.LineItem) error {
	if len(items) == 0 {
		return s.Delete(ctx, key)
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// RevokeToken remembers a token id until the token would have expired anyway.
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedPrefix+jti, 1, ttl).Err()
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) PutResetToken(ctx context.Context, token, uid string, ttl time.Duration) error {
	return s.rdb.Set(ctx, resetPrefix+token, uid, ttl).Err()
}

// TakeResetToken consumes a reset token and returns the user it was issued for.
func (s *Store) TakeResetToken(ctx context.Context, token string) (string, error) {
	uid, err := s.rdb.GetDel(ctx, resetPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return uid, nil
}
