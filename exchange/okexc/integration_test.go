package okexc

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	center "github.com/go-gotop/okex/cust/log"
	"github.com/go-gotop/okex/exchange"
	"github.com/go-gotop/okex/limiter/okxlimiter"
	"github.com/go-gotop/okex/requests/okhttp"
)

// 需要设置 OKEX_APIKEY / OKEX_SECRETKEY / OKEX_PASSPHRASE，只做查询，不下单
func TestOkexLive(t *testing.T) {
	if os.Getenv(okhttp.EnvAPIKey) == "" {
		t.Skip("OKEX_APIKEY not set")
	}
	cred, err := okhttp.CredentialFromEnv()
	require.NoError(t, err)

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	require.NoError(t, err)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	logger := center.NewLogger(os.Getenv("ENV"), "okex-live")
	cli := okhttp.NewClient(
		okhttp.WithCredential(cred),
		okhttp.WithLogger(logger),
		okhttp.WithLimiter(okxlimiter.NewOkxLimiter()),
		okhttp.WithTracerProvider(tp),
	)
	o := NewOkex(cli, WithLogger(logger))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ts, err := cli.ServerTime(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, ts)

	ticker, err := o.Ticker(ctx, exchange.BTCUSDT)
	require.NoError(t, err)
	assert.True(t, ticker.Last.IsPositive())

	_, err = o.Accounts(ctx)
	require.NoError(t, err)

	resp, err := o.OrdersList(ctx, &OrdersQuery{Status: exchange.OrderStateComplete, InstrumentID: exchange.BTCUSDT, PageQuery: PageQuery{Limit: "5"}})
	require.NoError(t, err)
	t.Logf("cursor: %+v", resp.Cursor)
}
