package okhttp

import (
	"fmt"
	"os"

	"github.com/go-gotop/okex/utils"
)

const (
	EnvAPIKey             = "OKEX_APIKEY"
	EnvSecretKey          = "OKEX_SECRETKEY"
	EnvSecretKeyEncrypted = "OKEX_SECRETKEY_ENCRYPTED"
	EnvPassphrase         = "OKEX_PASSPHRASE"
)

// Credential 创建后不可修改，client 持有其指针
type Credential struct {
	apiKey     string
	secretKey  string
	passphrase string
}

func NewCredential(apiKey, secretKey, passphrase string) *Credential {
	return &Credential{
		apiKey:     apiKey,
		secretKey:  secretKey,
		passphrase: passphrase,
	}
}

// CredentialFromEnv 从环境变量读取密钥。
// 设置了 OKEX_SECRETKEY_ENCRYPTED 时使用 ENCRYPTION_KEY 解密得到 secret。
func CredentialFromEnv() (*Credential, error) {
	apiKey := os.Getenv(EnvAPIKey)
	passphrase := os.Getenv(EnvPassphrase)
	secretKey := os.Getenv(EnvSecretKey)

	if encrypted := os.Getenv(EnvSecretKeyEncrypted); encrypted != "" {
		key, err := utils.LoadEncryptionKey()
		if err != nil {
			return nil, err
		}
		secretKey, err = utils.Decrypt(encrypted, key)
		if err != nil {
			return nil, fmt.Errorf("decrypt %s: %w", EnvSecretKeyEncrypted, err)
		}
	}

	c := NewCredential(apiKey, secretKey, passphrase)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Credential) APIKey() string {
	return c.apiKey
}

func (c *Credential) SecretKey() string {
	return c.secretKey
}

func (c *Credential) Passphrase() string {
	return c.passphrase
}

func (c *Credential) Validate() error {
	switch {
	case c.apiKey == "":
		return fmt.Errorf("okex api key is required")
	case c.secretKey == "":
		return fmt.Errorf("okex secret key is required")
	case c.passphrase == "":
		return fmt.Errorf("okex passphrase is required")
	}
	return nil
}

// String 日志中只输出 api key 的前几位
func (c *Credential) String() string {
	k := c.apiKey
	if len(k) > 4 {
		k = k[:4]
	}
	return fmt.Sprintf("Credential{apiKey: %s***}", k)
}
