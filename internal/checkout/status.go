package checkout

import "backend/internal/models"

// statusRank orders the forward-only fulfillment states. Cancelled is
// handled separately since it is reachable only from the first two.
var statusRank = map[string]int{
	models.OrderStatusPending:   0,
	models.OrderStatusConfirmed: 1,
	models.OrderStatusShipped:   2,
	models.OrderStatusDelivered: 3,
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s string) bool {
	if s == models.OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Cancellable reports whether an order in the given status may still
// be cancelled.
func Cancellable(status string) bool {
	return status == models.OrderStatusPending || status == models.OrderStatusConfirmed
}

// CanTransition validates an admin status update. Fulfillment only
// moves forward; cancellation follows the same rule as user
// cancellation; nothing leaves a terminal state.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if from == models.OrderStatusCancelled {
		return false
	}
	if to == models.OrderStatusCancelled {
		return Cancellable(from)
	}
	return statusRank[to] > statusRank[from]
}
