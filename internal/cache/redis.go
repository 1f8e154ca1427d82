package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/villasync/config"
	"github.com/Domenick1991/villasync/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client        *redis.Client
	propertiesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, propertiesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:        redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		propertiesTTL: propertiesTTL,
	}
}

func (c *RedisCache) GetProperties(ctx context.Context) ([]domain.Property, error) {
	data, err := c.client.Get(ctx, propertiesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var properties []domain.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (c *RedisCache) SetProperties(ctx context.Context, properties []domain.Property) error {
	payload, err := json.Marshal(properties)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, propertiesKey(), payload, c.propertiesTTL).Err()
}

func propertiesKey() string {
	return "cache:properties"
}
