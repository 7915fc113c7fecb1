package checkout

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
	"time"
)

// NewOrderNumber returns ORD-<unix millis>-<64 random bits, base36, 13 chars>.
// Uniqueness is also enforced by the orders.order_number index.
func NewOrderNumber(now time.Time) string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("checkout: crypto/rand unavailable: " + err.Error())
	}
	suffix := strings.ToUpper(strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36))
	if pad := 13 - len(suffix); pad > 0 {
		suffix = strings.Repeat("0", pad) + suffix
	}
	return "ORD-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}
