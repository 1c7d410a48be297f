package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	upperAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	base36     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

func randomFrom(alphabet string, n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		k, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[k.Int64()])
	}
	return b.String(), nil
}

// PaymentReference returns a reference code like KWIK-7Q2M9XA1.
func PaymentReference() (string, error) {
	s, err := randomFrom(upperAlnum, 8)
	if err != nil {
		return "", fmt.Errorf("payment reference: %w", err)
	}
	return "KWIK-" + s, nil
}

// LocalEventID returns an id for an event stored only in the local cache:
// local_<unix millis>_<9 base36 chars>.
func LocalEventID(now time.Time) (string, error) {
	s, err := randomFrom(base36, 9)
	if err != nil {
		return "", fmt.Errorf("local event id: %w", err)
	}
	return "local_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + s, nil
}
