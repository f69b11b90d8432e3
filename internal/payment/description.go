package payment

import (
	"fmt"
	"strings"
)

// maxDescriptionLen is the gateway's limit on link descriptions.
const maxDescriptionLen = 255

// CartLine is the name/quantity pair rendered into a link description.
type CartLine struct {
	Name     string
	Quantity int
}

// CartDescription renders "ShopKart Order: name (2x), other (1x)",
// truncated with an ellipsis when it exceeds the gateway limit.
func CartDescription(lines []CartLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s (%dx)", line.Name, line.Quantity))
	}
	return Truncate("ShopKart Order: " + strings.Join(parts, ", "))
}

// Truncate enforces the description limit, keeping 252 characters plus
// "..." for anything longer.
func Truncate(description string) string {
	if len(description) > maxDescriptionLen {
		return description[:maxDescriptionLen-3] + "..."
	}
	return description
}
