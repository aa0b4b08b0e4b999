package okexc

import (
	"github.com/shopspring/decimal"

	"github.com/go-gotop/okex/exchange"
)

// SpotAccount 币币账户余额
type SpotAccount struct {
	ID        string          `json:"id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
	Hold      decimal.Decimal `json:"hold"`
	Holds     decimal.Decimal `json:"holds"`
	Frozen    decimal.Decimal `json:"frozen"`
}

// Ticker 单个币对的行情快照
type Ticker struct {
	InstrumentID   string          `json:"instrument_id"`
	ProductID      string          `json:"product_id"`
	Last           decimal.Decimal `json:"last"`
	LastQty        decimal.Decimal `json:"last_qty"`
	BestAsk        decimal.Decimal `json:"best_ask"`
	BestAskSize    decimal.Decimal `json:"best_ask_size"`
	BestBid        decimal.Decimal `json:"best_bid"`
	BestBidSize    decimal.Decimal `json:"best_bid_size"`
	Open24h        decimal.Decimal `json:"open_24h"`
	High24h        decimal.Decimal `json:"high_24h"`
	Low24h         decimal.Decimal `json:"low_24h"`
	BaseVolume24h  decimal.Decimal `json:"base_volume_24h"`
	QuoteVolume24h decimal.Decimal `json:"quote_volume_24h"`
	Timestamp      string          `json:"timestamp"`
}

// OrderResult 下单和撤单的返回
type OrderResult struct {
	OrderID      string `json:"order_id"`
	ClientOid    string `json:"client_oid"`
	Result       bool   `json:"result"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// TakeOrderRequest 币币下单
type TakeOrderRequest struct {
	Type         exchange.OrderType
	Side         exchange.SideType
	InstrumentID string
	// 限价单和市价卖单的数量
	Size decimal.Decimal
	// 限价单价格
	Price decimal.Decimal
	// 市价买单的金额
	Funds decimal.Decimal
	// 为空时自动生成
	ClientOid string
	// 1 币币，2 币币杠杆，默认 1
	MarginTrading int
	OrderType     exchange.TimeInForce
}

// TransferRequest 资金划转
type TransferRequest struct {
	Currency     string
	Amount       decimal.Decimal
	From         exchange.AccountType
	To           exchange.AccountType
	SubAccount   string
	InstrumentID string
}

// WithdrawRequest 提币
type WithdrawRequest struct {
	Currency string
	Amount   decimal.Decimal
	// 3 OKEx, 4 数字货币地址
	Destination string
	ToAddress   string
	TradePwd    string
	Fee         decimal.Decimal
}

// PageQuery from / to / limit 分页参数，空值不发送
type PageQuery struct {
	From  string
	To    string
	Limit string
}

// LedgerQuery 账户流水查询
type LedgerQuery struct {
	PageQuery
	Currency string
	Type     string
}

// OrdersQuery 订单列表查询
type OrdersQuery struct {
	PageQuery
	Status       exchange.OrderState
	InstrumentID string
}

// FillsQuery 成交明细查询
type FillsQuery struct {
	PageQuery
	OrderID      string
	InstrumentID string
}
