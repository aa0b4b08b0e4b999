package exchange

import (
	"errors"
)

// SideType buy, sell
type SideType string

// OrderType limit, market
type OrderType string

// OrderState -2, -1, 0, 1, 2, 3, 4
type OrderState string

// TimeInForce 0 normal, 1 post only, 2 FOK, 3 IOC
type TimeInForce string

// InstrumentType SPOT, MARGIN
type InstrumentType string

// AccountType 资金划转的账户类型
type AccountType string

// Global enums
const (
	OkexExchange = "OKEX"

	InstrumentTypeSpot   InstrumentType = "SPOT"
	InstrumentTypeMargin InstrumentType = "MARGIN"

	SideTypeBuy  SideType = "buy"
	SideTypeSell SideType = "sell"

	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"

	OrderStateFailed          OrderState = "-2"
	OrderStateCanceled        OrderState = "-1"
	OrderStateOpen            OrderState = "0"
	OrderStatePartiallyFilled OrderState = "1"
	OrderStateFilled          OrderState = "2"
	OrderStateSubmitting      OrderState = "3"
	OrderStateCanceling       OrderState = "4"
	// 未完成订单 (0 和 1)
	OrderStateIncomplete OrderState = "6"
	// 已完成订单 (-1 和 2)
	OrderStateComplete OrderState = "7"

	TimeInForceNormal   TimeInForce = "0"
	TimeInForcePostOnly TimeInForce = "1"
	// Fill or Kill 无法全部立即成交就撤销
	TimeInForceFOK TimeInForce = "2"
	// Immediate or Cancel 无法立即成交(吃单)的部分就撤销
	TimeInForceIOC TimeInForce = "3"

	AccountTypeSub     AccountType = "0"
	AccountTypeSpot    AccountType = "1"
	AccountTypeFutures AccountType = "3"
	AccountTypeC2C     AccountType = "4"
	AccountTypeMargin  AccountType = "5"
	AccountTypeWallet  AccountType = "6"
	AccountTypeETT     AccountType = "7"
	AccountTypeSwap    AccountType = "9"
)

var (
	// ErrOrderNotFound 订单未找到
	ErrOrderNotFound = errors.New("order not found")
	// ErrRateLimitExceeded 访问限制
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// String 返回订单状态的可读名称
func (s OrderState) String() string {
	switch s {
	case OrderStateFailed:
		return "FAILED"
	case OrderStateCanceled:
		return "CANCELED"
	case OrderStateOpen:
		return "OPEN"
	case OrderStatePartiallyFilled:
		return "PARTIALLY_FILLED"
	case OrderStateFilled:
		return "FILLED"
	case OrderStateSubmitting:
		return "SUBMITTING"
	case OrderStateCanceling:
		return "CANCELING"
	case OrderStateIncomplete:
		return "INCOMPLETE"
	case OrderStateComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// IsFinal 订单是否已进入终态
func (s OrderState) IsFinal() bool {
	return s == OrderStateFailed || s == OrderStateCanceled || s == OrderStateFilled
}
