package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"skydesk/internal/models"
	"skydesk/internal/schema"
)

// Config - настройки подключения к Valkey
type Config struct {
	Addr          string
	Password      string
	DB            int
	OptionsTTLSec int
}

// ValkeyClient кеширует справочные опции для селект-фильтров грида,
// по одному набору на сущность, на которую ссылается фильтр.
// Сам слой доступа к сущностям не кеширует ничего: кеш живет только здесь,
// на границе HTTP.
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client: rdb,
		ttl:    time.Duration(cfg.OptionsTTLSec) * time.Second,
	}, nil
}

// GetOptions возвращает закешированные опции по сущности; ошибка при промахе
func (v *ValkeyClient) GetOptions(ctx context.Context, ref models.Kind) ([]schema.Option, error) {
	data, err := v.client.Get(ctx, optionsKey(ref)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("options not cached for %s", ref)
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	var options []schema.Option
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, fmt.Errorf("invalid cached options: %w", err)
	}
	return options, nil
}

// SetOptions кладет опции в кеш с TTL
func (v *ValkeyClient) SetOptions(ctx context.Context, ref models.Kind, options []schema.Option) error {
	payload, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return v.client.Set(ctx, optionsKey(ref), payload, v.ttl).Err()
}

// InvalidateOptions сбрасывает кеш опций после мутации сущности
func (v *ValkeyClient) InvalidateOptions(ctx context.Context, ref models.Kind) error {
	return v.client.Del(ctx, optionsKey(ref)).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}

func optionsKey(ref models.Kind) string {
	return fmt.Sprintf("options:%s", ref.Subject())
}
