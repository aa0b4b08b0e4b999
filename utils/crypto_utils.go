package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	EnvEncryptionKey = "ENCRYPTION_KEY"

	nonceSize = 24
)

// 使用环境变量来读取服务器上的key

// LoadEncryptionKey 从环境变量中加载 32 字节的加密密钥
func LoadEncryptionKey() (*[32]byte, error) {
	keyStr := os.Getenv(EnvEncryptionKey)
	if keyStr == "" {
		return nil, fmt.Errorf("%s environment variable is not set", EnvEncryptionKey)
	}
	if len(keyStr) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 characters long, but got %d characters", len(keyStr))
	}

	var key [32]byte
	copy(key[:], keyStr)
	return &key, nil
}

// Encrypt the data and return a Base64-encoded string
func Encrypt(originStr string, key *[32]byte) (string, error) {
	data := []byte(originStr)
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}

	encrypted := secretbox.Seal(nonce[:], data, &nonce, key)

	// encode encrypted data into base64 strings
	encoded := base64.StdEncoding.EncodeToString(encrypted)
	return encoded, nil
}

// Decrypt decrypts Base64-encoded strings and returns the original data as a string
func Decrypt(encoded string, key *[32]byte) (string, error) {
	// decode Base64 encoded string to get the encrypted data
	encrypted, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(encrypted) < nonceSize+secretbox.Overhead {
		return "", fmt.Errorf("ciphertext too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], encrypted[:nonceSize])

	decrypted, ok := secretbox.Open(nil, encrypted[nonceSize:], &nonce, key)
	if !ok {
		return "", fmt.Errorf("decryption failed")
	}
	// Convert the decrypted byte slice to a string and return
	return string(decrypted), nil
}
