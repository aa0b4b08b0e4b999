package okxlimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/go-gotop/okex/limiter"
)

// NewRedisLimiter 基于 redis 固定窗口计数的限流，多个进程共用同一个 api key 时使用
func NewRedisLimiter(rdb *redis.Client, opt ...limiter.Option) *RedisLimiter {
	o := defaultOptions()
	for _, v := range opt {
		v(o)
	}

	ip, err := limiter.GetOutBoundIP()
	if err != nil {
		o.Logger.Warnf("get outbound ip error: %v", err)
	}

	return &RedisLimiter{
		ip:   ip,
		rdb:  rdb,
		opts: o,
		now:  time.Now,
	}
}

type RedisLimiter struct {
	ip   string
	rdb  *redis.Client
	opts *limiter.Options
	now  func() time.Time
}

// Allow redis 不可用时放行，由交易所侧的限速兜底
func (r *RedisLimiter) Allow(ctx context.Context, t *limiter.LimiterReq) bool {
	lt := t.LimiterType
	if lt == "" {
		lt = limiter.NormalRequestLimit
	}
	pl, ok := r.opts.Lookup(lt)
	if !ok {
		return true
	}
	period, err := limiter.ParsePeriod(pl.Period)
	if err != nil {
		r.opts.Logger.Errorf("parse period limit for %s error: %v", lt, err)
		return true
	}

	key := r.windowKey(lt, t.AccountId, period)
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, period)
	if _, err := pipe.Exec(ctx); err != nil {
		r.opts.Logger.Warnf("redis limiter %s error: %v", key, err)
		return true
	}
	return incr.Val() <= pl.Times
}

func (r *RedisLimiter) windowKey(lt limiter.LimitType, accountId string, period time.Duration) string {
	uniq := accountId
	if uniq == "" {
		uniq = r.ip
	}
	window := r.now().UnixNano() / int64(period)
	return fmt.Sprintf("%s:%s:%s:%s:%d", r.opts.KeyPrefix, Exchange, lt, uniq, window)
}
