package ratelimit

import (
	"sync"
	"time"
)

// 空闲超过此时长的客户端桶会被清理
const bucketIdleTTL = 10 * time.Minute

// keyedBucket 绑定到单个客户端的桶及其最近访问时间
type keyedBucket struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// KeyedLimiter 按客户端标识（通常是IP）分桶的限流器。
// 每个key独立限流，长时间不活跃的key会被惰性清理。
type KeyedLimiter struct {
	qpm      int
	capacity int

	mu         sync.Mutex
	buckets    map[string]*keyedBucket
	lastSweep  time.Time
	sweepEvery time.Duration
}

// NewKeyedLimiter 创建按key分桶的限流器，qpm和capacity语义同NewTokenBucket
func NewKeyedLimiter(qpm int, capacity int) *KeyedLimiter {
	return &KeyedLimiter{
		qpm:        qpm,
		capacity:   capacity,
		buckets:    make(map[string]*keyedBucket),
		lastSweep:  time.Now(),
		sweepEvery: time.Minute,
	}
}

// Allow 判断指定key的一个请求是否允许通过
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	entry, ok := l.buckets[key]
	if !ok {
		entry = &keyedBucket{bucket: NewTokenBucket(l.qpm, l.capacity)}
		l.buckets[key] = entry
	}
	entry.lastSeen = time.Now()
	l.sweepLocked()
	l.mu.Unlock()

	return entry.bucket.Allow()
}

// sweepLocked 惰性清理长期不活跃的桶，调用方需持有锁
func (l *KeyedLimiter) sweepLocked() {
	now := time.Now()
	if now.Sub(l.lastSweep) < l.sweepEvery {
		return
	}
	l.lastSweep = now
	for key, entry := range l.buckets {
		if now.Sub(entry.lastSeen) > bucketIdleTTL {
			delete(l.buckets, key)
		}
	}
}
