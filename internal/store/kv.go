package store

import (
	"database/sql"
	"fmt"
)

// KVBucket kv_cache 表的键值读写视图
// 满足 cache.KV 接口，为过期缓存提供持久化底座
type KVBucket struct {
	db *sql.DB
}

// KV 获取键值缓存视图
func (s *Store) KV() *KVBucket {
	return &KVBucket{db: s.db}
}

// Get 读取键值，键不存在时第二个返回值为 false
func (b *KVBucket) Get(key string) (string, bool, error) {
	var value string
	err := b.db.QueryRow("SELECT value FROM kv_cache WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get kv entry: %w", err)
	}
	return value, true, nil
}

// Set 写入键值，覆盖旧值
func (b *KVBucket) Set(key, value string) error {
	_, err := b.db.Exec(`
		INSERT INTO kv_cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to set kv entry: %w", err)
	}
	return nil
}

// Delete 删除键，键不存在时也返回 nil
func (b *KVBucket) Delete(key string) error {
	if _, err := b.db.Exec("DELETE FROM kv_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete kv entry: %w", err)
	}
	return nil
}
