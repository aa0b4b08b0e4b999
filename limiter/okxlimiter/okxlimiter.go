package okxlimiter

import (
	"context"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/time/rate"

	"github.com/go-gotop/okex/exchange"
	"github.com/go-gotop/okex/limiter"
)

const (
	Exchange = exchange.OkexExchange
)

// okex v3 现货与账户接口的默认限速
func defaultOptions() *limiter.Options {
	return &limiter.Options{
		PeriodLimits: map[limiter.LimitType]limiter.PeriodLimit{
			limiter.CreateOrderLimit:    {Period: "2s", Times: 100},
			limiter.CancelOrderLimit:    {Period: "2s", Times: 100},
			limiter.SearchOrderLimit:    {Period: "2s", Times: 20},
			limiter.AccountRequestLimit: {Period: "2s", Times: 20},
			limiter.MarketRequestLimit:  {Period: "2s", Times: 20},
			limiter.NormalRequestLimit:  {Period: "2s", Times: 20},
		},
		KeyPrefix: "limiter",
		Logger:    log.NewHelper(log.DefaultLogger),
	}
}

// NewOkxLimiter 进程内令牌桶限流，每个账户每种请求一个桶
func NewOkxLimiter(opt ...limiter.Option) *OkxLimiter {
	o := defaultOptions()
	for _, v := range opt {
		v(o)
	}

	return &OkxLimiter{
		opts:       o,
		limiterMap: make(map[string]*rate.Limiter),
	}
}

type OkxLimiter struct {
	opts       *limiter.Options
	limiterMap map[string]*rate.Limiter // 限流器
	mutex      sync.Mutex
}

func (o *OkxLimiter) Allow(_ context.Context, t *limiter.LimiterReq) bool {
	l := o.get(t)
	if l == nil {
		return true
	}
	return l.Allow()
}

func (o *OkxLimiter) get(t *limiter.LimiterReq) *rate.Limiter {
	lt := t.LimiterType
	if lt == "" {
		lt = limiter.NormalRequestLimit
	}
	key := string(lt) + "_" + t.AccountId

	o.mutex.Lock()
	defer o.mutex.Unlock()

	if l, ok := o.limiterMap[key]; ok {
		return l
	}
	pl, ok := o.opts.Lookup(lt)
	if !ok {
		return nil
	}
	every, err := pl.Interval()
	if err != nil {
		o.opts.Logger.Errorf("parse period limit for %s error: %v", lt, err)
		return nil
	}
	l := rate.NewLimiter(rate.Every(every), int(pl.Times))
	o.limiterMap[key] = l
	return l
}
