package okhttp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

const (
	// TimestampFormat okex v3 要求的 ISO 8601 毫秒时间格式
	TimestampFormat = "2006-01-02T15:04:05.000Z"
)

// BuildCanonicalMessage 拼接待签名串: timestamp + METHOD + requestPath(含查询串) + body
// 只有 POST 的 body 参与签名
func BuildCanonicalMessage(timestamp, method, requestPath, body string) string {
	method = strings.ToUpper(method)
	if method != http.MethodPost || body == "{}" || body == "null" {
		body = ""
	}
	return timestamp + method + requestPath + body
}

// Sign 以 secret 为密钥对 message 做 HMAC-SHA256，结果 base64 编码
func Sign(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func currentTimestamp() string {
	return formatTimestamp(time.Now())
}

// formatTimestamp 先转换到 UTC 再格式化，保证结尾的 Z 名副其实
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
