package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"PageSchedulerAPI/config"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	errInvalidEncryptionKeyLength = errors.New("TOKEN_ENCRYPTION_KEY must be exactly 32 bytes for ChaCha20-Poly1305")
	errCiphertextTooShort         = errors.New("encrypted token is too short or malformed")
)

// EncryptToken encrypts an access token for storage using ChaCha20-Poly1305.
// The key is read from the TOKEN_ENCRYPTION_KEY environment variable; when no
// key is configured the token is stored as-is (not recommended in production).
func EncryptToken(token string) (string, error) {
	keyBytes, err := getEncryptionKey()
	if err != nil {
		return "", err
	}
	if len(keyBytes) == 0 {
		return token, nil
	}

	aead, err := chacha20poly1305.NewX(keyBytes)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := aead.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptToken decrypts a token encrypted with EncryptToken.
func DecryptToken(encryptedToken string) (string, error) {
	keyBytes, err := getEncryptionKey()
	if err != nil {
		return "", err
	}
	if len(keyBytes) == 0 {
		return encryptedToken, nil
	}

	aead, err := chacha20poly1305.NewX(keyBytes)
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(encryptedToken)
	if err != nil {
		return "", err
	}

	nonceSize := aead.NonceSize()
	if len(data) < nonceSize+aead.Overhead() {
		return "", errCiphertextTooShort
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

func getEncryptionKey() ([]byte, error) {
	key := config.Load().TokenEncryptionKey
	if len(key) == 0 {
		return nil, nil
	}

	keyBytes := []byte(key)
	if len(keyBytes) != chacha20poly1305.KeySize {
		return nil, errInvalidEncryptionKeyLength
	}

	return keyBytes, nil
}
