package limiter

import (
	"github.com/go-kratos/kratos/v2/log"
)

type Option func(*Options)

// PeriodLimit 在 Period 周期内最多允许 Times 次请求
type PeriodLimit struct {
	Period string
	Times  int64
}

type Options struct {
	// 每种请求的次数限制
	PeriodLimits map[LimitType]PeriodLimit
	// redis key 前缀
	KeyPrefix string
	Logger    *log.Helper
}

func WithPeriodLimit(t LimitType, p PeriodLimit) Option {
	return func(o *Options) {
		if o.PeriodLimits == nil {
			o.PeriodLimits = make(map[LimitType]PeriodLimit)
		}
		o.PeriodLimits[t] = p
	}
}

func WithPeriodLimits(m map[LimitType]PeriodLimit) Option {
	return func(o *Options) {
		o.PeriodLimits = m
	}
}

func WithKeyPrefix(prefix string) Option {
	return func(o *Options) {
		o.KeyPrefix = prefix
	}
}

func WithLogger(logger log.Logger) Option {
	return func(o *Options) {
		o.Logger = log.NewHelper(logger)
	}
}

// Lookup 找到请求类型对应的限制，找不到时退回普通请求的限制
func (o *Options) Lookup(t LimitType) (PeriodLimit, bool) {
	if pl, ok := o.PeriodLimits[t]; ok {
		return pl, true
	}
	pl, ok := o.PeriodLimits[NormalRequestLimit]
	return pl, ok
}
