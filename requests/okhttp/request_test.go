package okhttp

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gotop/okex/limiter"
)

func TestQueryString(t *testing.T) {
	tt := []struct {
		name   string
		params Params
		want   string
	}{
		{name: "empty", params: Params{}, want: ""},
		{name: "nil", params: nil, want: ""},
		{name: "numbers", params: P("a", 1, "b", 2), want: "?a=1&b=2"},
		{name: "order kept", params: P("z", "1", "a", "2", "m", "3"), want: "?z=1&a=2&m=3"},
		{name: "list", params: P("order_ids", []string{"1", "2"}, "limit", 100), want: "?order_ids=1,2&limit=100"},
		{name: "decimal", params: P("price", decimal.RequireFromString("0.015")), want: "?price=0.015"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.params.QueryString())
		})
	}
}

func TestParamsSet(t *testing.T) {
	p := P("a", 1, "b", 2)
	p = p.Set("a", 3)
	p = p.Set("c", 4)
	p = p.SetIf("d", "")
	assert.Equal(t, "?a=3&b=2&c=4", p.QueryString())

	v, ok := p.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 4, v)
	_, ok = p.Get("d")
	assert.False(t, ok)
}

func TestParamsMarshalJSON(t *testing.T) {
	p := P(
		"type", "limit",
		"side", "buy",
		"instrument_id", "BTC-USDT",
		"size", decimal.RequireFromString("0.1"),
		"order_ids", []string{"1", "2"},
		"margin_trading", 1,
	)
	b, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"limit","side":"buy","instrument_id":"BTC-USDT","size":"0.1","order_ids":["1","2"],"margin_trading":1}`, string(b))

	b, err = Params{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "1,2,3", Stringify([]int{1, 2, 3}))
	assert.Equal(t, "1.5", Stringify(1.5))
}

func TestRequestBody(t *testing.T) {
	r := &Request{Method: http.MethodGet, Endpoint: "/api/spot/v3/orders"}
	r.SetParam("instrument_id", "BTC-USDT")
	body, err := r.Body()
	require.NoError(t, err)
	assert.Empty(t, body)
	assert.Equal(t, "/api/spot/v3/orders?instrument_id=BTC-USDT", r.RequestPath())

	r = &Request{Method: http.MethodPost, Endpoint: "/api/spot/v3/orders"}
	body, err = r.Body()
	require.NoError(t, err)
	assert.Empty(t, body)

	r.SetParams(P("instrument_id", "BTC-USDT"))
	body, err = r.Body()
	require.NoError(t, err)
	assert.Equal(t, `{"instrument_id":"BTC-USDT"}`, body)
}

func TestRequestValidate(t *testing.T) {
	r := &Request{Method: "get", Endpoint: "/api/spot/v3/products"}
	require.NoError(t, r.validate())
	assert.Equal(t, http.MethodGet, r.Method)
	assert.Equal(t, limiter.NormalRequestLimit, r.Limit)

	r = &Request{Endpoint: "/api/spot/v3/products"}
	require.NoError(t, r.validate())
	assert.Equal(t, http.MethodGet, r.Method)

	assert.Error(t, (&Request{Method: http.MethodPut, Endpoint: "/x"}).validate())
	assert.Error(t, (&Request{Method: http.MethodGet}).validate())
	assert.Error(t, (&Request{Method: http.MethodGet, Endpoint: "api/x"}).validate())
}

func TestRequestValidateRejectsReservedChars(t *testing.T) {
	tt := []struct {
		name   string
		params Params
	}{
		{name: "injected param", params: P("a", "x y&z=1")},
		{name: "space", params: P("a", "x y")},
		{name: "fragment", params: P("a", "x#y")},
		{name: "equal in key", params: P("a=b", "1")},
		{name: "newline", params: P("a", "1\r\nX-Evil: 1")},
		{name: "list element", params: P("order_ids", []string{"1", "2&x=3"})},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			r := &Request{Method: http.MethodGet, Endpoint: "/p"}
			r.SetParams(tc.params)
			assert.Error(t, r.validate())
		})
	}

	r := &Request{Method: http.MethodGet, Endpoint: "/p"}
	r.SetParams(P("start", "2019-03-19T16:00:00.000Z", "order_ids", []string{"1", "2"}))
	assert.NoError(t, r.validate())
}

func TestRequestOptions(t *testing.T) {
	r := &Request{}
	WithCursor()(r)
	WithHeader("X-A", "1", false)(r)
	WithHeader("X-A", "2", false)(r)
	assert.True(t, r.cursor)
	assert.Equal(t, []string{"1", "2"}, r.header.Values("X-A"))

	WithHeader("X-A", "3", true)(r)
	assert.Equal(t, []string{"3"}, r.header.Values("X-A"))

	h := http.Header{}
	h.Set("X-B", "b")
	WithHeaders(h)(r)
	assert.Equal(t, "b", r.header.Get("X-B"))
	assert.Empty(t, r.header.Get("X-A"))
}
