package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	upperAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	alnum      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// RoundMoney rounds to the two decimal places used in responses and stats.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RandomUpperAlnum returns n characters drawn from A-Z0-9.
func RandomUpperAlnum(n int) (string, error) {
	return randomFrom(upperAlnum, n)
}

// RandomAlnum returns n characters drawn from A-Za-z0-9.
func RandomAlnum(n int) (string, error) {
	return randomFrom(alnum, n)
}

func randomFrom(alphabet string, n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
