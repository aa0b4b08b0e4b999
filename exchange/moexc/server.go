// moexc 模拟的 okex v3 REST 服务，测试中代替真实交易所
// 记录收到的请求，按路径返回预设的响应，并校验签名
package moexc

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-gotop/okex/requests/okhttp"
)

const (
	ServerTimePath = okhttp.DefaultServerTimePath
	DefaultISO     = "2019-03-08T10:59:25.789Z"
)

// Reply 预设的响应
type Reply struct {
	Status int
	Header map[string]string
	Body   string
}

// Request 服务端收到的请求
type Request struct {
	Method string
	URI    string
	Header http.Header
	Body   string
}

type Option func(o *options)

type options struct {
	iso    string
	secret string
}

// ISO 服务器时间接口返回的时间
func ISO(iso string) Option {
	return func(o *options) { o.iso = iso }
}

// Secret 用于校验签名的 secret key
func Secret(s string) Option {
	return func(o *options) { o.secret = s }
}

func NewServer(opts ...Option) *Server {
	o := &options{iso: DefaultISO}
	for _, opt := range opts {
		opt(o)
	}
	s := &Server{
		opts:    o,
		replies: make(map[string]Reply),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

type Server struct {
	srv      *httptest.Server
	opts     *options
	mux      sync.Mutex
	replies  map[string]Reply
	requests []Request
}

func (s *Server) URL() string {
	return s.srv.URL
}

func (s *Server) Close() {
	s.srv.Close()
}

// Reply 设置 path 的响应，未设置的路径返回 {}
func (s *Server) Reply(path string, r Reply) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.replies[path] = r
}

// Requests 服务器时间以外的请求
func (s *Server) Requests() []Request {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]Request(nil), s.requests...)
}

// Last 最近一次请求，没有时 ok 为 false
func (s *Server) Last() (r Request, ok bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Verify 按收到的内容重新计算签名
func (s *Server) Verify(r Request) bool {
	ts := r.Header.Get(okhttp.HeaderTimestamp)
	sign := r.Header.Get(okhttp.HeaderAccessSign)
	if ts == "" || sign == "" {
		return false
	}
	return sign == okhttp.Sign(okhttp.BuildCanonicalMessage(ts, r.Method, r.URI, r.Body), s.opts.secret)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == ServerTimePath {
		_, _ = w.Write([]byte(`{"iso":"` + s.opts.iso + `","epoch":"1552042765.789"}`))
		return
	}
	body, _ := io.ReadAll(r.Body)

	s.mux.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		URI:    r.URL.RequestURI(),
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	rep, ok := s.replies[r.URL.Path]
	s.mux.Unlock()

	if !ok {
		_, _ = w.Write([]byte(`{}`))
		return
	}
	for k, v := range rep.Header {
		w.Header().Set(k, v)
	}
	if rep.Status != 0 {
		w.WriteHeader(rep.Status)
	}
	_, _ = w.Write([]byte(rep.Body))
}
