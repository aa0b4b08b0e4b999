package okexc

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-gotop/okex/limiter"
)

// Endpoint 一个 REST 接口的定义，Path 中的 {name} 占位符由 Resolve 按顺序填充
type Endpoint struct {
	Name   string
	Method string
	Path   string
	Limit  limiter.LimitType
	Signed bool
}

// Resolve 按顺序替换路径占位符，参数会做 path escape
func (e Endpoint) Resolve(args ...string) (string, error) {
	var b strings.Builder
	rest := e.Path
	i := 0
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("endpoint %s: unclosed placeholder in %s", e.Name, e.Path)
		}
		name := rest[start+1 : start+end]
		if i >= len(args) {
			return "", fmt.Errorf("endpoint %s: missing path argument %s", e.Name, name)
		}
		if args[i] == "" {
			return "", fmt.Errorf("endpoint %s: path argument %s is empty", e.Name, name)
		}
		b.WriteString(rest[:start])
		b.WriteString(url.PathEscape(args[i]))
		rest = rest[start+end+1:]
		i++
	}
	if i != len(args) {
		return "", fmt.Errorf("endpoint %s: expected %d path arguments, got %d", e.Name, i, len(args))
	}
	b.WriteString(rest)
	return b.String(), nil
}

// 账户 / 钱包
var (
	CurrenciesEndpoint     = Endpoint{Name: "currencies", Method: http.MethodGet, Path: "/api/account/v3/currencies", Limit: limiter.AccountRequestLimit, Signed: true}
	WalletEndpoint         = Endpoint{Name: "wallet", Method: http.MethodGet, Path: "/api/account/v3/wallet", Limit: limiter.AccountRequestLimit, Signed: true}
	CurrencyWalletEndpoint = Endpoint{Name: "currency_wallet", Method: http.MethodGet, Path: "/api/account/v3/wallet/{currency}", Limit: limiter.AccountRequestLimit, Signed: true}
	TransferEndpoint       = Endpoint{Name: "transfer", Method: http.MethodPost, Path: "/api/account/v3/transfer", Limit: limiter.AccountRequestLimit, Signed: true}
	WithdrawEndpoint       = Endpoint{Name: "withdraw", Method: http.MethodPost, Path: "/api/account/v3/withdrawals", Limit: limiter.AccountRequestLimit, Signed: true}
	WithdrawalFeeEndpoint  = Endpoint{Name: "withdrawal_fee", Method: http.MethodGet, Path: "/api/account/v3/withdrawal/fee", Limit: limiter.AccountRequestLimit, Signed: true}

	WithdrawalHistoryEndpoint         = Endpoint{Name: "withdrawal_history", Method: http.MethodGet, Path: "/api/account/v3/withdrawal/history", Limit: limiter.AccountRequestLimit, Signed: true}
	CurrencyWithdrawalHistoryEndpoint = Endpoint{Name: "currency_withdrawal_history", Method: http.MethodGet, Path: "/api/account/v3/withdrawal/history/{currency}", Limit: limiter.AccountRequestLimit, Signed: true}
	LedgerEndpoint                    = Endpoint{Name: "ledger", Method: http.MethodGet, Path: "/api/account/v3/ledger", Limit: limiter.AccountRequestLimit, Signed: true}
	DepositAddressEndpoint            = Endpoint{Name: "deposit_address", Method: http.MethodGet, Path: "/api/account/v3/deposit/address", Limit: limiter.AccountRequestLimit, Signed: true}
	DepositHistoryEndpoint            = Endpoint{Name: "deposit_history", Method: http.MethodGet, Path: "/api/account/v3/deposit/history", Limit: limiter.AccountRequestLimit, Signed: true}
	CurrencyDepositHistoryEndpoint    = Endpoint{Name: "currency_deposit_history", Method: http.MethodGet, Path: "/api/account/v3/deposit/history/{currency}", Limit: limiter.AccountRequestLimit, Signed: true}
)

// 币币
var (
	SpotAccountsEndpoint        = Endpoint{Name: "spot_accounts", Method: http.MethodGet, Path: "/api/spot/v3/accounts", Limit: limiter.AccountRequestLimit, Signed: true}
	SpotCurrencyAccountEndpoint = Endpoint{Name: "spot_currency_account", Method: http.MethodGet, Path: "/api/spot/v3/accounts/{currency}", Limit: limiter.AccountRequestLimit, Signed: true}
	SpotLedgerEndpoint          = Endpoint{Name: "spot_ledger", Method: http.MethodGet, Path: "/api/spot/v3/accounts/{currency}/ledger", Limit: limiter.AccountRequestLimit, Signed: true}
	SpotOrderEndpoint           = Endpoint{Name: "spot_order", Method: http.MethodPost, Path: "/api/spot/v3/orders", Limit: limiter.CreateOrderLimit, Signed: true}
	SpotRevokeOrderEndpoint     = Endpoint{Name: "spot_revoke_order", Method: http.MethodPost, Path: "/api/spot/v3/cancel_orders/{order_id}", Limit: limiter.CancelOrderLimit, Signed: true}
	SpotRevokeOrdersEndpoint    = Endpoint{Name: "spot_revoke_orders", Method: http.MethodPost, Path: "/api/spot/v3/cancel_batch_orders", Limit: limiter.CancelOrderLimit, Signed: true}
	SpotOrdersListEndpoint      = Endpoint{Name: "spot_orders_list", Method: http.MethodGet, Path: "/api/spot/v3/orders", Limit: limiter.SearchOrderLimit, Signed: true}
	SpotOrderInfoEndpoint       = Endpoint{Name: "spot_order_info", Method: http.MethodGet, Path: "/api/spot/v3/orders/{order_id}", Limit: limiter.SearchOrderLimit, Signed: true}
	SpotFillsEndpoint           = Endpoint{Name: "spot_fills", Method: http.MethodGet, Path: "/api/spot/v3/fills", Limit: limiter.SearchOrderLimit, Signed: true}

	SpotInstrumentsEndpoint = Endpoint{Name: "spot_instruments", Method: http.MethodGet, Path: "/api/spot/v3/products", Limit: limiter.MarketRequestLimit}
	SpotDepthEndpoint       = Endpoint{Name: "spot_depth", Method: http.MethodGet, Path: "/api/spot/v3/products/{instrument_id}/book", Limit: limiter.MarketRequestLimit}
	SpotTickersEndpoint     = Endpoint{Name: "spot_tickers", Method: http.MethodGet, Path: "/api/spot/v3/products/ticker", Limit: limiter.MarketRequestLimit}
	SpotTickerEndpoint      = Endpoint{Name: "spot_ticker", Method: http.MethodGet, Path: "/api/spot/v3/products/{instrument_id}/ticker", Limit: limiter.MarketRequestLimit}
	SpotTradesEndpoint      = Endpoint{Name: "spot_trades", Method: http.MethodGet, Path: "/api/spot/v3/products/{instrument_id}/trades", Limit: limiter.MarketRequestLimit}
	SpotCandlesEndpoint     = Endpoint{Name: "spot_candles", Method: http.MethodGet, Path: "/api/spot/v3/products/{instrument_id}/candles", Limit: limiter.MarketRequestLimit}
)

// Endpoints 按名称索引的全部接口
var Endpoints = map[string]Endpoint{}

func init() {
	for _, e := range []Endpoint{
		CurrenciesEndpoint, WalletEndpoint, CurrencyWalletEndpoint, TransferEndpoint,
		WithdrawEndpoint, WithdrawalFeeEndpoint, WithdrawalHistoryEndpoint,
		CurrencyWithdrawalHistoryEndpoint, LedgerEndpoint, DepositAddressEndpoint,
		DepositHistoryEndpoint, CurrencyDepositHistoryEndpoint,
		SpotAccountsEndpoint, SpotCurrencyAccountEndpoint, SpotLedgerEndpoint,
		SpotOrderEndpoint, SpotRevokeOrderEndpoint, SpotRevokeOrdersEndpoint,
		SpotOrdersListEndpoint, SpotOrderInfoEndpoint, SpotFillsEndpoint,
		SpotInstrumentsEndpoint, SpotDepthEndpoint, SpotTickersEndpoint,
		SpotTickerEndpoint, SpotTradesEndpoint, SpotCandlesEndpoint,
	} {
		Endpoints[e.Name] = e
	}
}
