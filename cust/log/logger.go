package center

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const (
	EnvPRD = "PRD"

	defaultKeyPrefix = "log"
	defaultTTL       = 10 * 24 * time.Hour
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type LogEntry struct {
	Service   string `json:"service"`
	Level     string `json:"level"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
}

type Option func(o *options)

type options struct {
	writer    io.Writer
	level     log.Level
	rdb       *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// WithWriter 标准输出以外的输出位置
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// WithLevel 低于 level 的日志被丢弃
func WithLevel(l log.Level) Option {
	return func(o *options) { o.level = l }
}

// WithRedis PRD 环境下日志同时写入 Redis
func WithRedis(addr, passwd string, db int) Option {
	return func(o *options) {
		o.rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: passwd,
			DB:       db,
		})
	}
}

func WithRedisClient(rdb *redis.Client) Option {
	return func(o *options) { o.rdb = rdb }
}

func WithKeyPrefix(p string) Option {
	return func(o *options) { o.keyPrefix = p }
}

// WithTTL Redis 中日志的过期时间，默认 10 天
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// NewLogger 默认输出到 stdout，env 为 PRD 且配置了 Redis 时同时写入 Redis。
// 每条日志带上 ts 和 service 字段。
func NewLogger(env, svcName string, opts ...Option) log.Logger {
	o := &options{
		writer:    os.Stdout,
		level:     log.LevelDebug,
		keyPrefix: defaultKeyPrefix,
		ttl:       defaultTTL,
	}
	for _, opt := range opts {
		opt(o)
	}

	loggers := []log.Logger{log.NewStdLogger(o.writer)}
	if env == EnvPRD && o.rdb != nil {
		loggers = append(loggers, newRedisHandler(o.rdb, svcName, o.keyPrefix, o.ttl))
	}
	var logger log.Logger = newMultiLogger(loggers...)
	logger = log.With(logger, "ts", log.DefaultTimestamp, "service", svcName)
	return log.NewFilter(logger, log.FilterLevel(o.level))
}

type MultiLogger struct {
	loggers []log.Logger
}

func newMultiLogger(loggers ...log.Logger) *MultiLogger {
	return &MultiLogger{
		loggers: loggers,
	}
}

// Log 写入所有 logger，返回第一个错误
func (m *MultiLogger) Log(level log.Level, keyvals ...interface{}) error {
	var first error
	for _, logger := range m.loggers {
		if err := logger.Log(level, keyvals...); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RedisHandler 是一个log.Logger，将日志存储到Redis。
type RedisHandler struct {
	client      *redis.Client
	serviceName string // 日志json格式中的服务名 用做检索
	keyPrefix   string
	ttl         time.Duration
	now         func() time.Time
}

func newRedisHandler(client *redis.Client, name, prefix string, ttl time.Duration) *RedisHandler {
	return &RedisHandler{
		client:      client,
		serviceName: name,
		keyPrefix:   prefix,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Log 实现了log.Logger接口。写入失败只输出到 stderr，不影响调用方。
func (h *RedisHandler) Log(level log.Level, keyvals ...interface{}) error {
	key, data, err := h.formatEntry(level, keyvals...)
	if err != nil {
		return err
	}
	if err := h.client.Set(context.Background(), key, data, h.ttl).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "write log to redis failed: %v\n", err)
	}
	return nil
}

func (h *RedisHandler) formatEntry(level log.Level, keyvals ...interface{}) (string, []byte, error) {
	nano := h.now().UnixNano()
	entry := &LogEntry{
		Service:   h.serviceName,
		Level:     levelToString(level),
		Timestamp: nano,
		Message:   formatKeyvals(level, keyvals...),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s:%s:%d", h.keyPrefix, h.serviceName, nano), data, nil
}

func formatKeyvals(level log.Level, keyvals ...interface{}) string {
	var b strings.Builder
	b.WriteString("level=")
	b.WriteString(levelToString(level))
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
		} else {
			fmt.Fprintf(&b, " %v=MISSING_VALUE", keyvals[i]) // 处理键没有值的情况
		}
	}
	return b.String()
}

// levelToString 将日志级别转换为字符串
func levelToString(level log.Level) string {
	switch level {
	case log.LevelDebug:
		return "DEBUG"
	case log.LevelInfo:
		return "INFO"
	case log.LevelWarn:
		return "WARN"
	case log.LevelError:
		return "ERROR"
	case log.LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}
