// Package otp генерирует одноразовые числовые коды и одноразовые гранты сброса пароля.
package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

const (
	// MinCode наименьший допустимый код, исключает ведущие нули.
	MinCode = 100000
	// MaxCode наибольший допустимый код.
	MaxCode = 999999

	grantBytes = 32
)

// Generate возвращает равномерно распределённый код в диапазоне [MinCode, MaxCode].
func Generate() (string, error) {
	const op = "otp.Generate"
	n, err := rand.Int(rand.Reader, big.NewInt(MaxCode-MinCode+1))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return strconv.FormatInt(n.Int64()+MinCode, 10), nil
}

// Equal сравнивает коды за постоянное время.
func Equal(expected, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}

// NewGrant создаёт грант сброса пароля: значение отдаётся клиенту,
// в хранилище кладётся только его хэш.
func NewGrant() (token, hash string, err error) {
	const op = "otp.NewGrant"
	buf := make([]byte, grantBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	token = hex.EncodeToString(buf)
	return token, HashGrant(token), nil
}

// HashGrant возвращает SHA-256 хэш гранта в hex.
func HashGrant(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
