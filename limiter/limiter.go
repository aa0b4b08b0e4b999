package limiter

import "context"

type LimitType string

const (
	CreateOrderLimit    LimitType = "CREATE_ORDER"    // 下单
	CancelOrderLimit    LimitType = "CANCEL_ORDER"    // 撤单
	SearchOrderLimit    LimitType = "SEARCH_ORDER"    // 查询订单/成交
	AccountRequestLimit LimitType = "ACCOUNT_REQUEST" // 账户/钱包请求
	MarketRequestLimit  LimitType = "MARKET_REQUEST"  // 公共行情请求
	NormalRequestLimit  LimitType = "NORMAL_REQUEST"  // 普通请求
)

type LimiterReq struct {
	AccountId   string //  交易账户 api key
	LimiterType LimitType
}

// Limiter 请求发出前的本地限流判断，返回 false 时请求不会被发送
//
//go:generate mockgen -destination=mocks/limiter.go -package=mklimiter . Limiter
type Limiter interface {
	Allow(ctx context.Context, t *LimiterReq) bool
}
