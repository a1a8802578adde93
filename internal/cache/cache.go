package cache

import (
	"encoding/json"
	"time"
)

// KV 底层持久化键值存储，本身不提供 TTL
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// record 落盘格式：JSON 值加过期时间戳（Unix 毫秒）
type record struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expiresAt"`
}

// Cache 带过期时间的键值缓存
// TTL 通过在记录里内嵌过期时间戳模拟，过期采取惰性策略：
// 仅在 Load 时判定，不主动删除过期记录
// 底层存储不可用时所有操作退化为 no-op，不会 panic 或返回错误
type Cache struct {
	kv  KV
	now func() time.Time
}

// New 创建缓存，kv 为 nil 时全部操作返回 false
func New(kv KV) *Cache {
	return &Cache{kv: kv, now: time.Now}
}

// Save 序列化 value 并连同过期时间写入 key，覆盖旧记录
// 存储不可用或序列化/写入失败时返回 false
func (c *Cache) Save(key string, value any, ttl time.Duration) bool {
	if c.kv == nil {
		return false
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	data, err := json.Marshal(record{
		Value:     raw,
		ExpiresAt: c.now().Add(ttl).UnixMilli(),
	})
	if err != nil {
		return false
	}
	return c.kv.Set(key, string(data)) == nil
}

// Load 读取 key 并反序列化到 dest
// 记录缺失、损坏或已过期（now >= expiresAt）均返回 false
func (c *Cache) Load(key string, dest any) bool {
	if c.kv == nil {
		return false
	}

	data, ok, err := c.kv.Get(key)
	if err != nil || !ok {
		return false
	}

	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return false
	}
	if c.now().UnixMilli() >= rec.ExpiresAt {
		return false
	}
	return json.Unmarshal(rec.Value, dest) == nil
}
