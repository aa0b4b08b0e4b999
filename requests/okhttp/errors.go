package okhttp

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

var (
	// ErrMissingCredential 签名请求没有配置密钥
	ErrMissingCredential = errors.New("okhttp: credential is required for signed request")
)

// APIError define API error when response status is not 2xx
type APIError struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	// Code 与 Message 从 body 中尽力解析，解析不到时为零值
	Code    int64
	Message string
}

// Error return error code and message
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("<APIError> status=%d, body=%s", e.StatusCode, string(e.Body))
	}
	return fmt.Sprintf("<APIError> status=%d, code=%d, msg=%s", e.StatusCode, e.Code, e.Message)
}

// IsAPIError check if e is an API error
func IsAPIError(e error) bool {
	var apiErr *APIError
	return errors.As(e, &apiErr)
}

// InvalidResponseError 2xx 响应但 body 不是合法的 JSON
type InvalidResponseError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("<InvalidResponseError> status=%d, body=%s", e.StatusCode, e.Body)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

func IsInvalidResponseError(e error) bool {
	var invalidErr *InvalidResponseError
	return errors.As(e, &invalidErr)
}

func newAPIError(res *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Header:     res.Header.Clone(),
		Body:       body,
	}
	j, err := NewJSON(body)
	if err != nil {
		return apiErr
	}
	// v3 的错误体有 {"code":30008,"message":""} 与 {"error_code":"30008","error_message":""} 两种
	for _, k := range []string{"code", "error_code"} {
		if code, ok := jsonInt64(j.Get(k).Interface()); ok {
			apiErr.Code = code
			break
		}
	}
	for _, k := range []string{"message", "error_message", "msg"} {
		if msg, err := j.Get(k).String(); err == nil && msg != "" {
			apiErr.Message = msg
			break
		}
	}
	return apiErr
}

func jsonInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case fmt.Stringer:
		n, err := strconv.ParseInt(t.String(), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	case float64:
		return int64(t), true
	default:
		return 0, false
	}
}
