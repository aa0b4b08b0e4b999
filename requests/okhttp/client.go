package okhttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bitly/go-simplejson"
	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-gotop/okex/exchange"
	"github.com/go-gotop/okex/limiter"
)

const (
	HeaderContentType = "Content-Type"
	HeaderCookie      = "Cookie"
	HeaderAccessKey   = "OK-ACCESS-KEY"
	HeaderAccessSign  = "OK-ACCESS-SIGN"
	HeaderTimestamp   = "OK-ACCESS-TIMESTAMP"
	HeaderPassphrase  = "OK-ACCESS-PASSPHRASE"
	HeaderBefore      = "OK-BEFORE"
	HeaderAfter       = "OK-AFTER"

	ApplicationJSON = "application/json"

	tracerName = "github.com/go-gotop/okex/requests/okhttp"
)

// Redefining the standard package
var Json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewJSON(data []byte) (j *simplejson.Json, err error) {
	j, err = simplejson.NewJson(data)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Cursor 分页游标，来自响应头 OK-BEFORE / OK-AFTER
type Cursor struct {
	Before string
	After  string
}

// Response 解析后的响应
type Response struct {
	StatusCode int
	Header     http.Header
	Data       []byte
	JSON       *simplejson.Json
	// Cursor 未请求游标或响应头缺失时为 nil
	Cursor *Cursor
}

// Unmarshal 将响应 body 解析到 v
func (r *Response) Unmarshal(v interface{}) error {
	return Json.Unmarshal(r.Data, v)
}

// NewClient initialize an API client instance.
// 签名请求需要通过 WithCredential 传入密钥。
func NewClient(ops ...Option) *Client {
	opts := &options{
		baseURL:        DefaultBaseURL,
		httpClient:     http.DefaultClient,
		useServerTime:  true,
		serverTimePath: DefaultServerTimePath,
		logger:         log.NewHelper(log.DefaultLogger),
	}
	for _, o := range ops {
		o(opts)
	}
	if opts.proxyUrl != "" {
		proxy, err := url.Parse(opts.proxyUrl)
		if err != nil {
			panic(err)
		}
		hc := *opts.httpClient
		hc.Transport = &http.Transport{
			Proxy: http.ProxyURL(proxy),
		}
		opts.httpClient = &hc
	}
	if opts.tracerProvider == nil {
		opts.tracerProvider = otel.GetTracerProvider()
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.baseURL, "/"),
		opts:      opts,
		userAgent: "GoTop",
		tracer:    opts.tracerProvider.Tracer(tracerName),
	}
}

type doFunc func(req *http.Request) (*http.Response, error)

// Client define API client
type Client struct {
	baseURL   string
	opts      *options
	userAgent string
	do        doFunc
	tracer    trace.Tracer
}

func (c *Client) parseRequest(ctx context.Context, r *Request, opts ...RequestOption) error {
	// Set request options from user
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return err
	}

	requestPath := r.RequestPath()
	bodyString, err := r.Body()
	if err != nil {
		return err
	}

	header := http.Header{}
	if r.header != nil {
		header = r.header.Clone()
	}
	header.Set(HeaderContentType, ApplicationJSON)
	header.Set("User-Agent", c.userAgent)
	if c.opts.locale != "" {
		header.Set(HeaderCookie, "locale="+c.opts.locale)
	}

	cred := c.opts.credential
	if r.SecType == SecTypeSigned && cred == nil {
		return ErrMissingCredential
	}
	if r.SecType != SecTypeNone && cred != nil {
		timestamp := c.Timestamp(ctx)
		signature := Sign(BuildCanonicalMessage(timestamp, r.Method, requestPath, bodyString), cred.SecretKey())
		header.Set(HeaderAccessKey, cred.APIKey())
		header.Set(HeaderAccessSign, signature)
		header.Set(HeaderTimestamp, timestamp)
		header.Set(HeaderPassphrase, cred.Passphrase())
	}

	r.fullURL = c.baseURL + requestPath
	r.header = header
	r.body = bytes.NewBufferString(bodyString)
	return nil
}

// CallAPI 签名并发送请求。非 2xx 返回 *APIError，body 不是 JSON 返回 *InvalidResponseError。
func (c *Client) CallAPI(ctx context.Context, r *Request, opts ...RequestOption) (resp *Response, err error) {
	ctx, span := c.tracer.Start(ctx, "okhttp "+r.Endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("okex.endpoint", r.Endpoint),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err = c.allow(ctx, r); err != nil {
		return nil, err
	}

	err = c.parseRequest(ctx, r, opts...)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.fullURL, r.body)
	if err != nil {
		return nil, err
	}
	req.Header = r.header

	res, data, err := c.send(req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		apiErr := newAPIError(res, data)
		c.opts.logger.Errorw("msg", "okex api request failed",
			"method", r.Method,
			"path", r.Endpoint,
			"status", res.StatusCode,
			"response", string(data))
		return nil, apiErr
	}

	j, err := NewJSON(data)
	if err != nil {
		return nil, &InvalidResponseError{StatusCode: res.StatusCode, Body: string(data), Err: err}
	}

	resp = &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Data:       data,
		JSON:       j,
	}
	if r.cursor {
		resp.Cursor = c.readCursor(r, res.Header)
	}
	return resp, nil
}

func (c *Client) allow(ctx context.Context, r *Request) error {
	if c.opts.limiter == nil {
		return nil
	}
	lt := r.Limit
	if lt == "" {
		lt = limiter.NormalRequestLimit
	}
	req := &limiter.LimiterReq{LimiterType: lt}
	if c.opts.credential != nil {
		req.AccountId = c.opts.credential.APIKey()
	}
	if !c.opts.limiter.Allow(ctx, req) {
		return fmt.Errorf("%s %s: %w", r.Method, r.Endpoint, exchange.ErrRateLimitExceeded)
	}
	return nil
}

func (c *Client) send(req *http.Request) (res *http.Response, data []byte, err error) {
	f := c.do
	if f == nil {
		f = c.opts.httpClient.Do
	}
	res, err = f(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		cerr := res.Body.Close()
		// Only overwrite the retured error if the original error was nil and an
		// error occurred while closing the body.
		if err == nil && cerr != nil {
			err = cerr
		}
	}()
	data, err = io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return res, data, nil
}

// readCursor 响应头缺失时只记录日志，不作为错误
func (c *Client) readCursor(r *Request, h http.Header) *Cursor {
	before, hasBefore := headerValue(h, HeaderBefore)
	after, hasAfter := headerValue(h, HeaderAfter)
	if !hasBefore || !hasAfter {
		c.opts.logger.Warnf("pagination headers missing on %s %s, before=%v after=%v", r.Method, r.Endpoint, hasBefore, hasAfter)
	}
	if !hasBefore && !hasAfter {
		return nil
	}
	return &Cursor{Before: before, After: after}
}

func headerValue(h http.Header, key string) (string, bool) {
	v := h.Values(key)
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Timestamp 签名用的时间戳。开启 UseServerTime 时取服务器时间，失败则退回本地 UTC 时间。
func (c *Client) Timestamp(ctx context.Context) string {
	if !c.opts.useServerTime {
		return currentTimestamp()
	}
	ts, err := c.ServerTime(ctx)
	if err != nil {
		c.opts.logger.Warnf("fetch server time failed, fallback to local time: %v", err)
		return currentTimestamp()
	}
	return ts
}

// ServerTime 服务器的 ISO 时间
func (c *Client) ServerTime(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.opts.serverTimePath, nil)
	if err != nil {
		return "", err
	}
	res, data, err := c.send(req)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", newAPIError(res, data)
	}
	j, err := NewJSON(data)
	if err != nil {
		return "", &InvalidResponseError{StatusCode: res.StatusCode, Body: string(data), Err: err}
	}
	iso, err := j.Get("iso").String()
	if err != nil || iso == "" {
		return "", fmt.Errorf("server time response has no iso field: %s", string(data))
	}
	return iso, nil
}

// SetApiEndpoint set api Endpoint
func (c *Client) SetApiEndpoint(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// BaseURL 当前的 api 地址
func (c *Client) BaseURL() string {
	return c.baseURL
}
