package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/tracing"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound 键不存在时返回，包装底层的 redis.Nil
var ErrNotFound = redis.Nil

// ErrRedisUnavailable Redis降级运行时所有操作返回该错误，
// 调用方据此跳过去重和缓存，不中断主流程
var ErrRedisUnavailable = errors.New("redis不可用，降级运行中")

var redisTracer = otel.Tracer("resume-extract-go/storage/redis")

// checkAndAddScript 原子地检查成员是否已在集合中并加入集合。
// 返回1表示此前已存在，0表示新加入。
const checkAndAddScript = `
	local exists = redis.call('SISMEMBER', KEYS[1], ARGV[1])
	redis.call('SADD', KEYS[1], ARGV[1])
	redis.call('EXPIRE', KEYS[1], ARGV[2])
	return exists
`

// Redis 封装Redis客户端
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端连接
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,

		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子，记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// available 判断客户端是否可用。
// Redis是可选依赖，降级启动时Storage里的*Redis为nil，
// 所有方法都必须先过这道检查，避免nil解引用拖垮消费者协程。
func (r *Redis) available() bool {
	return r != nil && r.Client != nil
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	if r.available() {
		return r.Client.Close()
	}
	return nil
}

// Ping 检查Redis连接
func (r *Redis) Ping(ctx context.Context) error {
	if !r.available() {
		return ErrRedisUnavailable
	}
	return r.Client.Ping(ctx).Err()
}

// GetMD5ExpireDuration 返回配置的MD5记录过期时间
func (r *Redis) GetMD5ExpireDuration() time.Duration {
	days := 0
	if r != nil && r.config != nil {
		days = r.config.MD5RecordExpireDays
	}
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

// CheckAndAddRawFileMD5 原子地检查并记录原始文件MD5，exists为true表示重复上传
func (r *Redis) CheckAndAddRawFileMD5(ctx context.Context, md5Hex string) (exists bool, err error) {
	return r.checkAndAddMD5(ctx, "Redis.CheckAndAddRawFileMD5", constants.KeyFileMD5Set, md5Hex)
}

// CheckAndAddParsedTextMD5 原子地检查并记录归一化文本MD5，exists为true表示内容重复
func (r *Redis) CheckAndAddParsedTextMD5(ctx context.Context, md5Hex string) (exists bool, err error) {
	return r.checkAndAddMD5(ctx, "Redis.CheckAndAddParsedTextMD5", constants.KeyTextMD5Set, md5Hex)
}

func (r *Redis) checkAndAddMD5(ctx context.Context, spanName, setKey, md5Hex string) (bool, error) {
	if !r.available() {
		return false, ErrRedisUnavailable
	}

	ctx, span := redisTracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemRedis,
		attribute.String("net.peer.name", r.config.Address),
		attribute.String("db.operation", "EVAL"),
		attribute.String("db.redis.key", tracing.SafeRedisKey(setKey)),
		attribute.String("db.redis.member", md5Hex),
	)

	expiry := r.GetMD5ExpireDuration().Seconds()
	res, err := r.Client.Eval(ctx, checkAndAddScript, []string{setKey}, md5Hex, expiry).Result()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return false, fmt.Errorf("执行原子检查和添加操作失败: %w", err)
	}

	existsVal, ok := res.(int64)
	if !ok {
		err := fmt.Errorf("意外的Redis返回类型: %T", res)
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return false, err
	}

	exists := existsVal == 1
	span.SetAttributes(attribute.Bool("already_exists", exists))
	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// RemoveRawFileMD5 从去重集合中移除原始文件MD5，用于处理失败后的回滚
func (r *Redis) RemoveRawFileMD5(ctx context.Context, md5Hex string) error {
	if !r.available() {
		return ErrRedisUnavailable
	}

	ctx, span := redisTracer.Start(ctx, "Redis.RemoveRawFileMD5",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemRedis,
		attribute.String("db.operation", "SREM"),
		attribute.String("db.redis.key", tracing.SafeRedisKey(constants.KeyFileMD5Set)),
		attribute.String("db.redis.member", md5Hex),
	)

	result, err := r.Client.SRem(ctx, constants.KeyFileMD5Set, md5Hex).Result()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("从集合中移除MD5失败: %w", err)
	}

	span.SetAttributes(attribute.Int64("removed_count", result))
	span.SetStatus(codes.Ok, "")
	return nil
}

// SetFileMD5ToSubmissionUUID 记录文件MD5到提交UUID的映射，用于重复上传时定位原始提交
func (r *Redis) SetFileMD5ToSubmissionUUID(ctx context.Context, md5Hex, submissionUUID string) error {
	if !r.available() {
		return ErrRedisUnavailable
	}
	key := fmt.Sprintf(constants.KeyFileMD5ToSubmissionUUID, md5Hex)
	return r.Client.SetNX(ctx, key, submissionUUID, r.GetMD5ExpireDuration()).Err()
}

// GetSubmissionUUIDByFileMD5 查询文件MD5关联的提交UUID，未找到时返回 ErrNotFound
func (r *Redis) GetSubmissionUUIDByFileMD5(ctx context.Context, md5Hex string) (string, error) {
	if !r.available() {
		return "", ErrRedisUnavailable
	}
	key := fmt.Sprintf(constants.KeyFileMD5ToSubmissionUUID, md5Hex)
	return r.Client.Get(ctx, key).Result()
}

// CacheProfileJSON 按文本MD5缓存抽取结果JSON
func (r *Redis) CacheProfileJSON(ctx context.Context, textMD5 string, profileJSON string) error {
	if !r.available() {
		return ErrRedisUnavailable
	}
	key := fmt.Sprintf(constants.KeyProfileByTextMD5, textMD5)
	return r.Client.Set(ctx, key, profileJSON, constants.ProfileCacheDuration).Err()
}

// GetCachedProfileJSON 按文本MD5读取缓存的抽取结果，未命中时返回 ErrNotFound
func (r *Redis) GetCachedProfileJSON(ctx context.Context, textMD5 string) (string, error) {
	if !r.available() {
		return "", ErrRedisUnavailable
	}
	key := fmt.Sprintf(constants.KeyProfileByTextMD5, textMD5)
	return r.Client.Get(ctx, key).Result()
}
