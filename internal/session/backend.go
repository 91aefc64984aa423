package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/config"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Backend persists the flat key/value session snapshot.
// Save must apply all pairs atomically.
type Backend interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys []string) error
}

// DatabaseBackend keeps session state in the preferences table.
type DatabaseBackend struct {
	db *gorm.DB
}

func NewDatabaseBackend(db *gorm.DB) *DatabaseBackend {
	return &DatabaseBackend{db: db}
}

func (b *DatabaseBackend) Load(ctx context.Context) (map[string]string, error) {
	var prefs []models.Preference
	if err := b.db.WithContext(ctx).Find(&prefs).Error; err != nil {
		return nil, err
	}
	values := make(map[string]string, len(prefs))
	for _, p := range prefs {
		values[p.Key] = p.Value
	}
	return values, nil
}

func (b *DatabaseBackend) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	prefs := make([]models.Preference, 0, len(values))
	for k, v := range values {
		prefs = append(prefs, models.Preference{Key: k, Value: v})
	}
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&prefs).Error
	})
}

func (b *DatabaseBackend) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	// map conditions let gorm quote the column, key is reserved in MySQL
	return b.db.WithContext(ctx).Where(map[string]interface{}{"key": keys}).Delete(&models.Preference{}).Error
}

// RedisBackend keeps session state in a single redis hash.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend connects and pings the server so a misconfigured address fails at startup.
func NewRedisBackend(ctx context.Context, cfg *config.RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unavailable at %s: %w", cfg.Addr, err)
	}
	key := cfg.Key
	if key == "" {
		key = "projectmanager:session"
	}
	return &RedisBackend{client: client, key: key}, nil
}

// NewRedisBackendWithClient wraps an existing client.
func NewRedisBackendWithClient(client *redis.Client, key string) *RedisBackend {
	return &RedisBackend{client: client, key: key}
}

func (b *RedisBackend) Load(ctx context.Context) (map[string]string, error) {
	values, err := b.client.HGetAll(ctx, b.key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func (b *RedisBackend) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, b.key, values)
		return nil
	})
	return err
}

func (b *RedisBackend) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, b.key, keys...)
		return nil
	})
	return err
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// MemoryBackend is a process-local backend, used in tests and when persistence is disabled.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
	// FailSave makes Save return this error, leaving the stored values untouched.
	FailSave error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (b *MemoryBackend) Load(ctx context.Context) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.values), nil
}

func (b *MemoryBackend) Save(ctx context.Context, values map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailSave != nil {
		return b.FailSave
	}
	maps.Copy(b.values, values)
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context, keys []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		delete(b.values, k)
	}
	return nil
}
