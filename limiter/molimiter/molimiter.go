// molimiter 不做任何限制的限流器，所有请求直接放行
// 添加这个限流器是为了使用端代码的统一性，同时记录每种请求的次数，方便测试中断言
package molimiter

import (
	"context"
	"sync"

	"github.com/go-gotop/okex/limiter"
)

func NewMockLimiter() *MockLimiter {
	return &MockLimiter{
		counter: make(map[limiter.LimitType]int64),
	}
}

type MockLimiter struct {
	mux     sync.Mutex
	counter map[limiter.LimitType]int64
}

func (m *MockLimiter) Allow(_ context.Context, t *limiter.LimiterReq) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.counter[t.LimiterType]++
	return true
}

// Count 返回某种请求被检查的次数
func (m *MockLimiter) Count(t limiter.LimitType) int64 {
	m.mux.Lock()
	defer m.mux.Unlock()
	return m.counter[t]
}
