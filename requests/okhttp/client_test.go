package okhttp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/go-gotop/okex/exchange"
	"github.com/go-gotop/okex/limiter"
	mklimiter "github.com/go-gotop/okex/limiter/mocks"
)

const serverISO = "2019-03-08T10:59:25.789Z"

type recorded struct {
	method string
	uri    string
	header http.Header
	body   string
}

type clientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	mux      sync.Mutex
	requests []recorded
	spans    *tracetest.SpanRecorder
	cli      *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(clientTestSuite))
}

func (s *clientTestSuite) SetupTest() {
	s.requests = nil
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == DefaultServerTimePath {
			_, _ = w.Write([]byte(`{"iso":"` + serverISO + `","epoch":"1552042765.789"}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		s.mux.Lock()
		s.requests = append(s.requests, recorded{
			method: r.Method,
			uri:    r.URL.RequestURI(),
			header: r.Header.Clone(),
			body:   string(body),
		})
		s.mux.Unlock()
		s.handler(w, r)
	}))
	s.spans = tracetest.NewSpanRecorder()
	s.cli = NewClient(
		BaseUrl(s.server.URL),
		WithCredential(NewCredential("key", "secret", "pass")),
		WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(s.spans))),
	)
}

func (s *clientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *clientTestSuite) lastRequest() recorded {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.Require().NotEmpty(s.requests)
	return s.requests[len(s.requests)-1]
}

func (s *clientTestSuite) TestSignedGetWithoutParams() {
	r := &Request{Method: http.MethodGet, Endpoint: "/api/spot/v3/products", SecType: SecTypeSigned}
	resp, err := s.cli.CallAPI(context.Background(), r)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Nil(resp.Cursor)

	// 没有参数时 URL 即 base + path，不带 ?
	s.Equal(s.server.URL+"/api/spot/v3/products", r.FullURL())

	got := s.lastRequest()
	s.Equal("/api/spot/v3/products", got.uri)
	s.Equal(ApplicationJSON, got.header.Get(HeaderContentType))
	s.Equal("key", got.header.Get(HeaderAccessKey))
	s.Equal("pass", got.header.Get(HeaderPassphrase))
	s.Equal(serverISO, got.header.Get(HeaderTimestamp))
	s.Equal("aZKtnKHw0alfDm7ZrveUQORltkdv+Qaiw6ZslZZMJPQ=", got.header.Get(HeaderAccessSign))
	s.Empty(got.body)
}

func (s *clientTestSuite) TestSignedGetWithParams() {
	r := &Request{Method: http.MethodGet, Endpoint: "/api/spot/v3/orders", SecType: SecTypeSigned}
	r.SetParams(P("status", "all", "instrument_id", "BTC-USDT", "limit", 100))
	_, err := s.cli.CallAPI(context.Background(), r)
	s.Require().NoError(err)

	got := s.lastRequest()
	path := "/api/spot/v3/orders?status=all&instrument_id=BTC-USDT&limit=100"
	s.Equal(path, got.uri)
	want := Sign(BuildCanonicalMessage(serverISO, http.MethodGet, path, ""), "secret")
	s.Equal(want, got.header.Get(HeaderAccessSign))
}

func (s *clientTestSuite) TestSignedPostBody() {
	r := &Request{Method: http.MethodPost, Endpoint: "/api/spot/v3/cancel_batch_orders", SecType: SecTypeSigned}
	r.SetParams(P("instrument_id", "BTC-USDT", "order_ids", []string{"1", "2"}))
	_, err := s.cli.CallAPI(context.Background(), r)
	s.Require().NoError(err)

	got := s.lastRequest()
	s.Equal(http.MethodPost, got.method)
	body := `{"instrument_id":"BTC-USDT","order_ids":["1","2"]}`
	s.Equal(body, got.body)
	want := Sign(BuildCanonicalMessage(serverISO, http.MethodPost, got.uri, body), "secret")
	s.Equal(want, got.header.Get(HeaderAccessSign))
}

func (s *clientTestSuite) TestPublicRequestWithoutCredential() {
	cli := NewClient(BaseUrl(s.server.URL))
	_, err := cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/products/ticker", SecType: SecTypeOptional})
	s.Require().NoError(err)
	got := s.lastRequest()
	s.Empty(got.header.Get(HeaderAccessSign))
	s.Empty(got.header.Get(HeaderAccessKey))

	_, err = cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/accounts", SecType: SecTypeSigned})
	s.ErrorIs(err, ErrMissingCredential)
}

func (s *clientTestSuite) TestNon2xxReturnsAPIError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":30008,"message":"timestamp request expired"}`))
	}
	_, err := s.cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/accounts", SecType: SecTypeSigned})
	s.Require().Error(err)
	s.True(IsAPIError(err))

	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusBadRequest, apiErr.StatusCode)
	s.Equal(int64(30008), apiErr.Code)
	s.Equal("timestamp request expired", apiErr.Message)
	s.Contains(string(apiErr.Body), "30008")

	spans := s.spans.Ended()
	s.Require().NotEmpty(spans)
	s.Equal(codes.Error, spans[len(spans)-1].Status().Code)
}

func (s *clientTestSuite) TestNon2xxWithStringErrorCode() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error_code":"30012","error_message":"invalid authorization"}`))
	}
	_, err := s.cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/accounts", SecType: SecTypeSigned})
	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(int64(30012), apiErr.Code)
	s.Equal("invalid authorization", apiErr.Message)
}

func (s *clientTestSuite) TestNon2xxWithHTMLBody() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}
	_, err := s.cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/accounts", SecType: SecTypeSigned})
	s.True(IsAPIError(err))
	s.False(IsInvalidResponseError(err))
	s.Contains(err.Error(), "bad gateway")
}

func (s *clientTestSuite) TestInvalidJSON() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}
	_, err := s.cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/accounts", SecType: SecTypeSigned})
	s.Require().Error(err)
	s.True(IsInvalidResponseError(err))
	s.False(IsAPIError(err))

	var invalidErr *InvalidResponseError
	s.Require().True(errors.As(err, &invalidErr))
	s.Equal("not json", invalidErr.Body)
}

func (s *clientTestSuite) TestCursor() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderBefore, "100")
		w.Header().Set(HeaderAfter, "90")
		_, _ = w.Write([]byte(`[{"order_id":"100"}]`))
	}
	resp, err := s.cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/fills", SecType: SecTypeSigned}, WithCursor())
	s.Require().NoError(err)
	s.Require().NotNil(resp.Cursor)
	s.Equal("100", resp.Cursor.Before)
	s.Equal("90", resp.Cursor.After)
	s.Equal("100", resp.JSON.GetIndex(0).Get("order_id").MustString())
}

func (s *clientTestSuite) TestCursorHeadersMissing() {
	resp, err := s.cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/fills", SecType: SecTypeSigned}, WithCursor())
	s.Require().NoError(err)
	s.Nil(resp.Cursor)
}

func (s *clientTestSuite) TestLimiterRefused() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()
	ml := mklimiter.NewMockLimiter(ctrl)
	ml.EXPECT().Allow(gomock.Any(), &limiter.LimiterReq{AccountId: "key", LimiterType: limiter.CreateOrderLimit}).Return(false)

	cli := NewClient(BaseUrl(s.server.URL), WithCredential(NewCredential("key", "secret", "pass")), WithLimiter(ml))
	_, err := cli.CallAPI(context.Background(), &Request{
		Method:   http.MethodPost,
		Endpoint: "/api/spot/v3/orders",
		SecType:  SecTypeSigned,
		Limit:    limiter.CreateOrderLimit,
	})
	s.ErrorIs(err, exchange.ErrRateLimitExceeded)
	s.Empty(s.requests)
}

func (s *clientTestSuite) TestLimiterDefaultType() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()
	ml := mklimiter.NewMockLimiter(ctrl)
	ml.EXPECT().Allow(gomock.Any(), &limiter.LimiterReq{LimiterType: limiter.NormalRequestLimit}).Return(true)

	cli := NewClient(BaseUrl(s.server.URL), WithLimiter(ml))
	_, err := cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/products"})
	s.NoError(err)
}

func (s *clientTestSuite) TestLocalTimestamp() {
	cli := NewClient(BaseUrl(s.server.URL), WithCredential(NewCredential("key", "secret", "pass")), UseServerTime(false))
	_, err := cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/accounts", SecType: SecTypeSigned})
	s.Require().NoError(err)

	ts := s.lastRequest().header.Get(HeaderTimestamp)
	parsed, err := time.Parse(TimestampFormat, ts)
	s.Require().NoError(err)
	s.WithinDuration(time.Now(), parsed, time.Minute)
}

func (s *clientTestSuite) TestServerTimeFallback() {
	cli := NewClient(BaseUrl(s.server.URL), ServerTimePath("/missing/time"))
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}
	_, err := cli.ServerTime(context.Background())
	s.True(IsAPIError(err))

	ts := cli.Timestamp(context.Background())
	_, err = time.Parse(TimestampFormat, ts)
	s.NoError(err)
}

func (s *clientTestSuite) TestServerTime() {
	ts, err := s.cli.ServerTime(context.Background())
	s.Require().NoError(err)
	s.Equal(serverISO, ts)
}

func (s *clientTestSuite) TestLocaleAndHeaders() {
	cli := NewClient(BaseUrl(s.server.URL+"/"), Locale("en_US"))
	s.Equal(s.server.URL, cli.BaseURL())
	_, err := cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/products"}, WithHeader("X-Trace", "abc", true))
	s.Require().NoError(err)
	got := s.lastRequest()
	s.Equal("locale=en_US", got.header.Get(HeaderCookie))
	s.Equal("abc", got.header.Get("X-Trace"))
}

func (s *clientTestSuite) TestTransportError() {
	cli := NewClient(BaseUrl(s.server.URL), UseServerTime(false))
	var sent *http.Request
	cli.do = func(req *http.Request) (*http.Response, error) {
		sent = req
		return nil, errors.New("connection reset by peer")
	}
	_, err := cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/products"})
	s.Require().Error(err)
	s.False(IsAPIError(err))
	s.True(strings.Contains(err.Error(), "failed to execute request"))
	s.True(strings.Contains(err.Error(), "connection reset by peer"))
	s.Require().NotNil(sent)
	s.Equal(s.server.URL+"/api/spot/v3/products", sent.URL.String())
	s.Empty(s.requests)
}

func (s *clientTestSuite) TestRequestRejectedBeforeSend() {
	r := &Request{Endpoint: "/api/spot/v3/orders"}
	r.SetParam("instrument_id", "BTC-USDT&status=all")
	_, err := s.cli.CallAPI(context.Background(), r)
	s.Require().Error(err)
	s.Empty(s.requests)
}

func (s *clientTestSuite) TestSpanRecorded() {
	_, err := s.cli.CallAPI(context.Background(), &Request{Endpoint: "/api/spot/v3/products"})
	s.Require().NoError(err)
	spans := s.spans.Ended()
	s.Require().Len(spans, 1)
	s.Equal("okhttp /api/spot/v3/products", spans[0].Name())
	s.Equal(codes.Unset, spans[0].Status().Code)
}
