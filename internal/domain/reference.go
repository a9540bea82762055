package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// The purchase reference travels end-to-end through the external payment
// transport as an opaque ASCII string "<productKey>:<price>". Keys must
// not contain ':' (enforced at catalog construction), so a single split
// recovers both halves unambiguously.

// ErrBadReference indicates a reference that does not parse as
// "<productKey>:<price>" with a non-negative integer price.
var ErrBadReference = errors.New("malformed payment reference")

// EncodeReference builds the wire reference for a product key and the
// price observed at request time.
func EncodeReference(productKey string, price int64) string {
	return fmt.Sprintf("%s:%d", productKey, price)
}

// ParseReference splits a wire reference back into the product key and
// the declared price. It returns ErrBadReference for anything that is not
// exactly one key, one colon, and one non-negative integer.
func ParseReference(ref string) (productKey string, price int64, err error) {
	key, rawPrice, ok := strings.Cut(ref, ":")
	if !ok || key == "" || rawPrice == "" {
		return "", 0, ErrBadReference
	}
	price, perr := strconv.ParseInt(rawPrice, 10, 64)
	if perr != nil || price < 0 {
		return "", 0, ErrBadReference
	}
	return key, price, nil
}
