package exchange

import (
	"strings"
)

const (
	BTCUSDT = "BTC/USDT"
	ETHUSDT = "ETH/USDT"
	LTCUSDT = "LTC/USDT"
	OKBUSDT = "OKB/USDT"
	ETHBTC  = "ETH/BTC"

	USDT = "USDT"
	BTC  = "BTC"
	ETH  = "ETH"
	LTC  = "LTC"
	OKB  = "OKB"
)

// ToInstrumentID 统一交易对名称转换为 okex 的 instrument_id, BTC/USDT -> BTC-USDT
func ToInstrumentID(symbol string) string {
	s := strings.TrimSpace(symbol)
	s = strings.NewReplacer("/", "-", "_", "-").Replace(s)
	return strings.ToUpper(s)
}

// FromInstrumentID okex 的 instrument_id 转换为统一交易对名称, BTC-USDT -> BTC/USDT
func FromInstrumentID(instrumentID string) string {
	return strings.ReplaceAll(strings.ToUpper(instrumentID), "-", "/")
}

// SplitInstrumentID 拆分交易币种与计价币种
func SplitInstrumentID(instrumentID string) (base string, quote string) {
	parts := strings.SplitN(ToInstrumentID(instrumentID), "-", 2)
	if len(parts) != 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
