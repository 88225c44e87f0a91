package redis

import (
	"context"
	"errors"
	"fmt"
	"panel/internal/app/config"
	"panel/internal/app/manifest"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
)

const manifestPrefix = "pack_manifest."

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client кеш манифестов паков
type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	client.client = redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if _, err := client.client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func manifestKey(uuid string) string {
	return manifestPrefix + uuid
}

// GetManifest false без ошибки, если записи нет
func (c *Client) GetManifest(ctx context.Context, uuid string) ([]manifest.FileEntry, bool, error) {
	data, err := c.client.Get(ctx, manifestKey(uuid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get manifest: %w", err)
	}

	var files []manifest.FileEntry
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, false, fmt.Errorf("decode manifest: %w", err)
	}
	return files, true, nil
}

func (c *Client) SetManifest(ctx context.Context, uuid string, files []manifest.FileEntry) error {
	data, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return c.client.Set(ctx, manifestKey(uuid), data, c.ttl()).Err()
}

func (c *Client) DeleteManifest(ctx context.Context, uuid string) error {
	return c.client.Del(ctx, manifestKey(uuid)).Err()
}

func (c *Client) ttl() time.Duration {
	if c.cfg.ManifestTTL > 0 {
		return c.cfg.ManifestTTL
	}
	return 10 * time.Minute
}
