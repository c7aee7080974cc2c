package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 桶容量内的突发请求全部放行，超出后拒绝。
func TestTokenBucketBurstThenDeny(t *testing.T) {
	tb := NewTokenBucket(60, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "第%d个突发请求应被放行", i+1)
	}
	assert.False(t, tb.Allow(), "超出桶容量的请求应被拒绝")
}

// 时间推移后令牌按速率补充。
func TestTokenBucketRefill(t *testing.T) {
	current := time.Now()
	tb := NewTokenBucket(60, 2) // 每秒1个令牌
	tb.now = func() time.Time { return current }
	tb.lastRefillTime = current

	require.True(t, tb.Allow())
	require.True(t, tb.Allow())
	require.False(t, tb.Allow())

	// 前进1.5秒，应补充1个令牌（再次Allow后又耗尽）
	current = current.Add(1500 * time.Millisecond)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

// 令牌数不超过桶容量。
func TestTokenBucketCapacityCap(t *testing.T) {
	current := time.Now()
	tb := NewTokenBucket(6000, 2)
	tb.now = func() time.Time { return current }
	tb.lastRefillTime = current

	// 长时间空闲后也只能突发capacity个
	current = current.Add(time.Hour)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestTokenBucketDefaultCapacity(t *testing.T) {
	tb := NewTokenBucket(10, 0)
	assert.Equal(t, 5.0, tb.capacity)

	tb = NewTokenBucket(1, 0)
	assert.Equal(t, 1.0, tb.capacity)
}

// Wait 在上下文取消时返回错误。
func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow()) // 耗尽令牌

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// 不同key互不影响。
func TestKeyedLimiterIsolation(t *testing.T) {
	l := NewKeyedLimiter(60, 1)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "另一个key的桶应是独立的")
}
