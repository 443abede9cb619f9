package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var _ Store = (*RedisStore)(nil)

// RedisStore 以 Redis 保存文件（JSON），多個實例可共用
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore 依設定連線 Redis
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 文件儲存已連線",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)

	return NewRedisStoreWithClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisStoreWithClient 使用既有連線建立儲存
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Save 新增或覆寫文件
func (s *RedisStore) Save(ctx context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return common.NewValidationError("document id is required")
	}

	// 序列化文件
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := s.client.Set(ctx, s.key(doc.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Get 取得文件
func (s *RedisStore) Get(ctx context.Context, id string) (*Document, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	// 解析文件
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// Delete 刪除文件
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n == 0 {
		return common.ErrDocumentNotFound
	}
	return nil
}

// Ping 檢查 Redis 連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// key 生成儲存鍵
func (s *RedisStore) key(id string) string {
	return s.prefix + id
}
