package okhttp

import (
	"net/http"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-gotop/okex/limiter"
)

const (
	DefaultBaseURL        = "https://www.okex.com"
	DefaultServerTimePath = "/api/futures/v3/time"
)

type Option func(o *options)

type options struct {
	baseURL        string
	proxyUrl       string
	httpClient     *http.Client
	credential     *Credential
	useServerTime  bool
	serverTimePath string
	locale         string
	logger         *log.Helper
	limiter        limiter.Limiter
	tracerProvider trace.TracerProvider
}

func BaseUrl(b string) Option {
	return func(o *options) { o.baseURL = b }
}

func ProxyURL(p string) Option {
	return func(o *options) { o.proxyUrl = p }
}

func HttpClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

func WithCredential(c *Credential) Option {
	return func(o *options) { o.credential = c }
}

// UseServerTime 签名时间戳取自服务器时间，默认开启
func UseServerTime(b bool) Option {
	return func(o *options) { o.useServerTime = b }
}

func ServerTimePath(p string) Option {
	return func(o *options) { o.serverTimePath = p }
}

// Locale 以 Cookie 形式传递语言，如 en_US、zh_CN
func Locale(l string) Option {
	return func(o *options) { o.locale = l }
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = log.NewHelper(logger) }
}

func WithLimiter(l limiter.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}
