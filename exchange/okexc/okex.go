package okexc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-gotop/okex/exchange"
	"github.com/go-gotop/okex/requests/okhttp"
)

const (
	defaultClientOidPrefix = "gt"
	maxClientOidLen        = 32
	defaultListLimit       = "100"
	defaultLedgerLimit     = 1

	// 订单不存在
	codeOrderNotExist = 33014
)

func NewOkex(cli *okhttp.Client, opts ...Option) *Okex {
	o := &options{
		logger:          log.NewHelper(log.DefaultLogger),
		clientOidPrefix: defaultClientOidPrefix,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Okex{
		client: cli,
		opts:   o,
	}
}

// Okex okex v3 账户、钱包和币币接口
type Okex struct {
	client *okhttp.Client
	opts   *options
}

func (o *Okex) Name() string {
	return exchange.OkexExchange
}

// Do 调用 endpoint，pathArgs 依次填充路径占位符，cursor 为 true 时读取分页游标
func (o *Okex) Do(ctx context.Context, ep Endpoint, pathArgs []string, params okhttp.Params, cursor bool) (*okhttp.Response, error) {
	path, err := ep.Resolve(pathArgs...)
	if err != nil {
		return nil, err
	}
	r := &okhttp.Request{
		Method:   ep.Method,
		Endpoint: path,
		SecType:  okhttp.SecTypeOptional,
		Limit:    ep.Limit,
	}
	if ep.Signed {
		r.SecType = okhttp.SecTypeSigned
	}
	r.SetParams(params)

	var ropts []okhttp.RequestOption
	if cursor {
		ropts = append(ropts, okhttp.WithCursor())
	}
	return o.client.CallAPI(ctx, r, ropts...)
}

func (o *Okex) Currencies(ctx context.Context) (*okhttp.Response, error) {
	return o.Do(ctx, CurrenciesEndpoint, nil, nil, false)
}

func (o *Okex) Wallet(ctx context.Context) (*okhttp.Response, error) {
	return o.Do(ctx, WalletEndpoint, nil, nil, false)
}

func (o *Okex) CurrencyWallet(ctx context.Context, currency string) (*okhttp.Response, error) {
	return o.Do(ctx, CurrencyWalletEndpoint, []string{currency}, nil, false)
}

// Transfer 资金划转
func (o *Okex) Transfer(ctx context.Context, req *TransferRequest) (*okhttp.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("transfer request is nil")
	}
	if req.Currency == "" {
		return nil, fmt.Errorf("transfer currency is empty")
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("invalid transfer amount: %v", req.Amount)
	}
	params := okhttp.P(
		"currency", req.Currency,
		"amount", req.Amount,
		"from", string(req.From),
		"to", string(req.To),
	).SetIf("sub_account", req.SubAccount)
	if req.InstrumentID != "" {
		params = params.Set("instrument_id", exchange.ToInstrumentID(req.InstrumentID))
	}
	return o.Do(ctx, TransferEndpoint, nil, params, false)
}

// Withdraw 提币
func (o *Okex) Withdraw(ctx context.Context, req *WithdrawRequest) (*okhttp.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("withdraw request is nil")
	}
	if req.Currency == "" || req.ToAddress == "" {
		return nil, fmt.Errorf("withdraw currency and address are required")
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("invalid withdraw amount: %v", req.Amount)
	}
	params := okhttp.P(
		"currency", req.Currency,
		"amount", req.Amount,
		"destination", req.Destination,
		"to_address", req.ToAddress,
		"trade_pwd", req.TradePwd,
		"fee", req.Fee,
	)
	return o.Do(ctx, WithdrawEndpoint, nil, params, false)
}

// WithdrawalFee currency 为空时返回全部币种
func (o *Okex) WithdrawalFee(ctx context.Context, currency string) (*okhttp.Response, error) {
	return o.Do(ctx, WithdrawalFeeEndpoint, nil, okhttp.Params{}.SetIf("currency", currency), false)
}

func (o *Okex) WithdrawalHistory(ctx context.Context) (*okhttp.Response, error) {
	return o.Do(ctx, WithdrawalHistoryEndpoint, nil, nil, false)
}

func (o *Okex) CurrencyWithdrawalHistory(ctx context.Context, currency string) (*okhttp.Response, error) {
	return o.Do(ctx, CurrencyWithdrawalHistoryEndpoint, []string{currency}, nil, false)
}

// Ledger 资金账户流水，支持分页
func (o *Okex) Ledger(ctx context.Context, q *LedgerQuery) (*okhttp.Response, error) {
	if q == nil {
		return nil, fmt.Errorf("ledger query is nil")
	}
	params := okhttp.Params{}.
		SetIf("currency", q.Currency).
		SetIf("type", q.Type)
	return o.Do(ctx, LedgerEndpoint, nil, q.PageQuery.apply(params), true)
}

func (o *Okex) DepositAddress(ctx context.Context, currency string) (*okhttp.Response, error) {
	if currency == "" {
		return nil, fmt.Errorf("deposit address currency is empty")
	}
	return o.Do(ctx, DepositAddressEndpoint, nil, okhttp.P("currency", currency), false)
}

func (o *Okex) DepositHistory(ctx context.Context) (*okhttp.Response, error) {
	return o.Do(ctx, DepositHistoryEndpoint, nil, nil, false)
}

func (o *Okex) CurrencyDepositHistory(ctx context.Context, currency string) (*okhttp.Response, error) {
	return o.Do(ctx, CurrencyDepositHistoryEndpoint, []string{currency}, nil, false)
}

// Accounts 币币账户列表
func (o *Okex) Accounts(ctx context.Context) ([]SpotAccount, error) {
	resp, err := o.Do(ctx, SpotAccountsEndpoint, nil, nil, false)
	if err != nil {
		return nil, err
	}
	var accounts []SpotAccount
	if err := resp.Unmarshal(&accounts); err != nil {
		return nil, fmt.Errorf("error parsing response data: %w", err)
	}
	return accounts, nil
}

func (o *Okex) CurrencyAccount(ctx context.Context, currency string) (*SpotAccount, error) {
	resp, err := o.Do(ctx, SpotCurrencyAccountEndpoint, []string{currency}, nil, false)
	if err != nil {
		return nil, err
	}
	account := &SpotAccount{}
	if err := resp.Unmarshal(account); err != nil {
		return nil, fmt.Errorf("error parsing response data: %w", err)
	}
	return account, nil
}

// LedgerRecord 币币账户流水，limit <= 0 时取 1 条
func (o *Okex) LedgerRecord(ctx context.Context, currency string, limit int) (*okhttp.Response, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	return o.Do(ctx, SpotLedgerEndpoint, []string{currency}, okhttp.P("limit", limit), false)
}

// TakeOrder 币币下单，result 为 false 时返回错误。
// req 不会被修改，自动生成的 client_oid 从返回的 OrderResult 中获取。
func (o *Okex) TakeOrder(ctx context.Context, req *TakeOrderRequest) (*OrderResult, error) {
	if req == nil {
		return nil, fmt.Errorf("order request is nil")
	}
	params, err := o.toOrderParams(*req)
	if err != nil {
		return nil, err
	}
	resp, err := o.Do(ctx, SpotOrderEndpoint, nil, params, false)
	if err != nil {
		return nil, err
	}
	res, err := parseOrderResult(resp)
	if res != nil && res.ClientOid == "" {
		if oid, ok := params.Get("client_oid"); ok {
			res.ClientOid = oid.(string)
		}
	}
	if err != nil {
		return res, err
	}
	o.opts.logger.Infof("order placed, instrument: %s, order_id: %s, client_oid: %s", req.InstrumentID, res.OrderID, res.ClientOid)
	return res, nil
}

// RevokeOrder 撤销指定订单，oid 可以是 order_id 或 client_oid
func (o *Okex) RevokeOrder(ctx context.Context, oid, instrumentID string) (*OrderResult, error) {
	params := okhttp.P("instrument_id", exchange.ToInstrumentID(instrumentID))
	resp, err := o.Do(ctx, SpotRevokeOrderEndpoint, []string{oid}, params, false)
	if err != nil {
		return nil, orderError(err)
	}
	return parseOrderResult(resp)
}

// RevokeOrders 批量撤单
func (o *Okex) RevokeOrders(ctx context.Context, instrumentID string, orderIDs []string) (*okhttp.Response, error) {
	if len(orderIDs) == 0 {
		return nil, fmt.Errorf("order ids are empty")
	}
	params := okhttp.P(
		"instrument_id", exchange.ToInstrumentID(instrumentID),
		"order_ids", orderIDs,
	)
	return o.Do(ctx, SpotRevokeOrdersEndpoint, nil, params, false)
}

// OrdersList 订单列表，返回分页游标
func (o *Okex) OrdersList(ctx context.Context, q *OrdersQuery) (*okhttp.Response, error) {
	if q == nil {
		return nil, fmt.Errorf("orders query is nil")
	}
	limit := q.Limit
	if limit == "" {
		limit = defaultListLimit
	}
	params := okhttp.P(
		"status", string(q.Status),
		"instrument_id", exchange.ToInstrumentID(q.InstrumentID),
		"limit", limit,
	).
		SetIf("from", q.From).
		SetIf("to", q.To)
	return o.Do(ctx, SpotOrdersListEndpoint, nil, params, true)
}

func (o *Okex) OrderInfo(ctx context.Context, oid, instrumentID string) (*okhttp.Response, error) {
	params := okhttp.P("instrument_id", exchange.ToInstrumentID(instrumentID))
	resp, err := o.Do(ctx, SpotOrderInfoEndpoint, []string{oid}, params, false)
	if err != nil {
		return nil, orderError(err)
	}
	return resp, nil
}

// Fills 成交明细，返回分页游标
func (o *Okex) Fills(ctx context.Context, q *FillsQuery) (*okhttp.Response, error) {
	if q == nil {
		return nil, fmt.Errorf("fills query is nil")
	}
	page := q.PageQuery
	if page.Limit == "" {
		page.Limit = defaultListLimit
	}
	params := okhttp.P(
		"order_id", q.OrderID,
		"instrument_id", exchange.ToInstrumentID(q.InstrumentID),
	)
	return o.Do(ctx, SpotFillsEndpoint, nil, page.apply(params), true)
}

// Instruments 币对信息
func (o *Okex) Instruments(ctx context.Context) (*okhttp.Response, error) {
	return o.Do(ctx, SpotInstrumentsEndpoint, nil, nil, false)
}

// Depth 深度，size 返回档位数，depth 按价格合并
func (o *Okex) Depth(ctx context.Context, instrumentID, size, depth string) (*okhttp.Response, error) {
	params := okhttp.Params{}.
		SetIf("size", size).
		SetIf("depth", depth)
	return o.Do(ctx, SpotDepthEndpoint, []string{exchange.ToInstrumentID(instrumentID)}, params, false)
}

func (o *Okex) Tickers(ctx context.Context) (*okhttp.Response, error) {
	return o.Do(ctx, SpotTickersEndpoint, nil, nil, false)
}

func (o *Okex) Ticker(ctx context.Context, instrumentID string) (*Ticker, error) {
	resp, err := o.Do(ctx, SpotTickerEndpoint, []string{exchange.ToInstrumentID(instrumentID)}, nil, false)
	if err != nil {
		return nil, err
	}
	t := &Ticker{}
	if err := resp.Unmarshal(t); err != nil {
		return nil, fmt.Errorf("error parsing response data: %w", err)
	}
	return t, nil
}

// Trades 最新成交
func (o *Okex) Trades(ctx context.Context, instrumentID string, q PageQuery) (*okhttp.Response, error) {
	return o.Do(ctx, SpotTradesEndpoint, []string{exchange.ToInstrumentID(instrumentID)}, q.apply(okhttp.Params{}), false)
}

// Candles K 线，granularity 为秒数，如 60、900、86400
func (o *Okex) Candles(ctx context.Context, instrumentID, start, end, granularity string) (*okhttp.Response, error) {
	params := okhttp.Params{}.
		SetIf("start", start).
		SetIf("end", end).
		SetIf("granularity", granularity)
	return o.Do(ctx, SpotCandlesEndpoint, []string{exchange.ToInstrumentID(instrumentID)}, params, false)
}

func (q PageQuery) apply(p okhttp.Params) okhttp.Params {
	return p.SetIf("from", q.From).
		SetIf("to", q.To).
		SetIf("limit", q.Limit)
}

// 参数顺序与签名串一致: type, side, instrument_id, size, client_oid, price, funds, margin_trading
func (o *Okex) toOrderParams(req TakeOrderRequest) (okhttp.Params, error) {
	if req.InstrumentID == "" {
		return nil, fmt.Errorf("order instrument id is empty")
	}
	if req.Side != exchange.SideTypeBuy && req.Side != exchange.SideTypeSell {
		return nil, fmt.Errorf("invalid order side: %s", req.Side)
	}
	switch req.Type {
	case exchange.OrderTypeLimit:
		if !req.Size.IsPositive() || !req.Price.IsPositive() {
			return nil, fmt.Errorf("limit order requires positive size and price, size: %v, price: %v", req.Size, req.Price)
		}
	case exchange.OrderTypeMarket:
		if req.Side == exchange.SideTypeBuy && !req.Funds.IsPositive() {
			return nil, fmt.Errorf("market buy order requires positive funds: %v", req.Funds)
		}
		if req.Side == exchange.SideTypeSell && !req.Size.IsPositive() {
			return nil, fmt.Errorf("market sell order requires positive size: %v", req.Size)
		}
	default:
		return nil, fmt.Errorf("invalid order type: %s", req.Type)
	}

	if req.ClientOid == "" {
		req.ClientOid = o.newClientOid()
	}
	if req.MarginTrading == 0 {
		req.MarginTrading = 1
	}

	m := okhttp.P(
		"type", string(req.Type),
		"side", string(req.Side),
		"instrument_id", exchange.ToInstrumentID(req.InstrumentID),
	)
	m = setDecimal(m, "size", req.Size)
	m = m.Set("client_oid", req.ClientOid)
	m = setDecimal(m, "price", req.Price)
	m = setDecimal(m, "funds", req.Funds)
	m = m.Set("margin_trading", req.MarginTrading)
	m = m.SetIf("order_type", string(req.OrderType))
	return m, nil
}

// newClientOid 字母开头，最长 32 位
func (o *Okex) newClientOid() string {
	id := o.opts.clientOidPrefix + strings.ReplaceAll(uuid.New().String(), "-", "")
	if len(id) > maxClientOidLen {
		id = id[:maxClientOidLen]
	}
	return id
}

func setDecimal(p okhttp.Params, key string, d decimal.Decimal) okhttp.Params {
	if d.IsZero() {
		return p
	}
	return p.Set(key, d)
}

// orderError 订单不存在时包装为 exchange.ErrOrderNotFound
func orderError(err error) error {
	var apiErr *okhttp.APIError
	if errors.As(err, &apiErr) && apiErr.Code == codeOrderNotExist {
		return fmt.Errorf("%w: %v", exchange.ErrOrderNotFound, err)
	}
	return err
}

func parseOrderResult(resp *okhttp.Response) (*OrderResult, error) {
	res := &OrderResult{}
	if err := resp.Unmarshal(res); err != nil {
		return nil, fmt.Errorf("error parsing response data: %w", err)
	}
	if !res.Result {
		return res, fmt.Errorf("operation failed, code: %s, message: %s", res.ErrorCode, res.ErrorMessage)
	}
	return res, nil
}
