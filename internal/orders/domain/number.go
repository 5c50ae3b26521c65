package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// OrderNumberPrefix starts every human-facing order number
const OrderNumberPrefix = "ORD-"

// GenerateOrderNumber returns the prefix, the year, month/day/time digits and a
// four digit random suffix, e.g. ORD-202403151430221234.
func GenerateOrderNumber(now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("%s%s%s%04d",
		OrderNumberPrefix,
		now.Format("2006"),
		now.Format("0102150405"),
		rand.Intn(10000),
	)
}
