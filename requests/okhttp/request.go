package okhttp

import (
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-gotop/okex/limiter"
)

type SecType int

const queryReserved = "&=#? \t\r\n"

const (
	SecTypeNone     SecType = iota
	SecTypeOptional         // 配置了密钥时签名，公共行情接口使用
	SecTypeSigned           // 必须签名
)

// Param 单个请求参数
type Param struct {
	Key   string
	Value interface{}
}

// Params 有序的请求参数，参与签名的查询串和 body 都按插入顺序生成
type Params []Param

// P 由 key, value 交替的列表构造 Params
func P(kv ...interface{}) Params {
	p := make(Params, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		p = p.Set(fmt.Sprintf("%v", kv[i]), kv[i+1])
	}
	return p
}

// Set 已存在的 key 原位替换，否则追加到末尾
func (p Params) Set(key string, value interface{}) Params {
	for i := range p {
		if p[i].Key == key {
			p[i].Value = value
			return p
		}
	}
	return append(p, Param{Key: key, Value: value})
}

// SetIf 值非空时才设置
func (p Params) SetIf(key string, value string) Params {
	if value == "" {
		return p
	}
	return p.Set(key, value)
}

func (p Params) Get(key string) (interface{}, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// QueryString 生成 ?k1=v1&k2=v2，没有参数时返回空串
func (p Params) QueryString() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('?')
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(kv.Key)
		b.WriteByte('=')
		b.WriteString(Stringify(kv.Value))
	}
	return b.String()
}

// MarshalJSON 按插入顺序输出 JSON 对象
func (p Params) MarshalJSON() ([]byte, error) {
	stream := Json.BorrowStream(nil)
	defer Json.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, kv := range p {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(kv.Key)
		stream.WriteVal(kv.Value)
	}
	stream.WriteObjectEnd()
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

// Stringify 查询串中的取值，切片以逗号连接
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = Stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprintf("%v", v)
}

// Request define an API request
type Request struct {
	Method   string
	Endpoint string
	SecType  SecType
	Limit    limiter.LimitType
	params   Params
	header   http.Header
	cursor   bool
	body     io.Reader
	fullURL  string
}

// SetParam set param with key/value
func (r *Request) SetParam(key string, value interface{}) *Request {
	r.params = r.params.Set(key, value)
	return r
}

// SetParams set params with key/values, keeping their order
func (r *Request) SetParams(p Params) *Request {
	for _, kv := range p {
		r.SetParam(kv.Key, kv.Value)
	}
	return r
}

func (r *Request) Params() Params {
	return r.params
}

// RequestPath endpoint 加上查询串，参与签名
func (r *Request) RequestPath() string {
	return r.Endpoint + r.params.QueryString()
}

// Body POST 请求的 JSON body，其他方法或没有参数时为空
func (r *Request) Body() (string, error) {
	if r.Method != http.MethodPost || len(r.params) == 0 {
		return "", nil
	}
	b, err := r.params.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FullURL parseRequest 之后可用
func (r *Request) FullURL() string {
	return r.fullURL
}

func (r *Request) validate() error {
	if r.Endpoint == "" {
		return fmt.Errorf("request endpoint is empty")
	}
	if !strings.HasPrefix(r.Endpoint, "/") {
		return fmt.Errorf("request endpoint %q must start with /", r.Endpoint)
	}
	r.Method = strings.ToUpper(r.Method)
	switch r.Method {
	case "":
		r.Method = http.MethodGet
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %s", r.Method)
	}
	if r.Limit == "" {
		r.Limit = limiter.NormalRequestLimit
	}
	// 查询串不做转义，含分隔符或空白的参数会改变请求行
	for _, kv := range r.params {
		if kv.Key == "" || strings.ContainsAny(kv.Key, queryReserved) {
			return fmt.Errorf("invalid param key %q", kv.Key)
		}
		if v := Stringify(kv.Value); strings.ContainsAny(v, queryReserved) {
			return fmt.Errorf("param %s has invalid value %q", kv.Key, v)
		}
	}
	return nil
}

// RequestOption define option type for request
type RequestOption func(*Request)

// WithCursor 读取响应头中的 OK-BEFORE / OK-AFTER 分页游标
func WithCursor() RequestOption {
	return func(r *Request) {
		r.cursor = true
	}
}

// WithHeader set or add a header value to the request
func WithHeader(key, value string, replace bool) RequestOption {
	return func(r *Request) {
		if r.header == nil {
			r.header = http.Header{}
		}
		if replace {
			r.header.Set(key, value)
		} else {
			r.header.Add(key, value)
		}
	}
}

// WithHeaders set or replace the headers of the request
func WithHeaders(header http.Header) RequestOption {
	return func(r *Request) {
		r.header = header.Clone()
	}
}
