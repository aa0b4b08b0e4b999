package okexc

import (
	"github.com/go-kratos/kratos/v2/log"
)

type Option func(o *options)

type options struct {
	logger *log.Helper
	// 自动生成 client_oid 的前缀，需以字母开头
	clientOidPrefix string
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = log.NewHelper(logger) }
}

func ClientOidPrefix(p string) Option {
	return func(o *options) { o.clientOidPrefix = p }
}
