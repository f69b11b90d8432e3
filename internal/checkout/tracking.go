package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewTrackingID mints the human-readable order reference, e.g.
// "SK1717171717171X4F9". Assigned exactly once at order creation; a
// unique index on orders.trackingId backs that up.
func NewTrackingID() string {
	var b strings.Builder
	b.WriteString("SK")
	b.WriteString(fmt.Sprintf("%d", time.Now().UnixMilli()))
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(trackingAlphabet))))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(trackingAlphabet[n.Int64()])
	}
	return b.String()
}
