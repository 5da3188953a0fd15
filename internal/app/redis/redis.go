package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"paytrack/internal/app/config"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	jwtPrefix = "jwt." // ключи отозванных токенов
	ratesKey  = "currency_rates"
	ratesTTL  = 10 * time.Minute
)

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	redisClient := redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	client.client = redisClient
	log.Info("redis connected")

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// WriteJWTToBlacklist кладёт токен в blacklist до истечения его срока
func (c *Client) WriteJWTToBlacklist(ctx context.Context, jwtStr string, jwtTTL time.Duration) error {
	return c.client.Set(ctx, jwtPrefix+jwtStr, true, jwtTTL).Err()
}

// CheckJWTInBlacklist возвращает nil, если токен в blacklist, и redis.Nil, если нет
func (c *Client) CheckJWTInBlacklist(ctx context.Context, jwtStr string) error {
	return c.client.Get(ctx, jwtPrefix+jwtStr).Err()
}

// GetRates читает закешированный справочник курсов. ok = false, если кеша нет
func (c *Client) GetRates(ctx context.Context) (map[string]decimal.Decimal, bool, error) {
	raw, err := c.client.Get(ctx, ratesKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rates := make(map[string]decimal.Decimal)
	if err := json.Unmarshal(raw, &rates); err != nil {
		return nil, false, err
	}
	return rates, true, nil
}

func (c *Client) SetRates(ctx context.Context, rates map[string]decimal.Decimal) error {
	raw, err := json.Marshal(rates)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ratesKey, raw, ratesTTL).Err()
}

// DropRates сбрасывает кеш после изменения курса
func (c *Client) DropRates(ctx context.Context) error {
	return c.client.Del(ctx, ratesKey).Err()
}
