// Package statemachine describes the order lifecycle as the chef dashboard
// presents it. The marketplace API owns the real rules; nothing here blocks a
// status update, it only suggests the next steps.
package statemachine

import "food-marketplace-client/models"

// progression is the forward path an order normally takes
var progression = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusDelivered,
}

// IsTerminal reports whether the order has finished its lifecycle.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// NextStatuses returns the statuses a chef would normally move an order to:
// every later step of the progression, then cancellation. Terminal statuses
// have none.
func NextStatuses(status models.OrderStatus) []models.OrderStatus {
	if IsTerminal(status) {
		return nil
	}
	idx := indexOf(status)
	if idx < 0 {
		return nil
	}
	nexts := make([]models.OrderStatus, 0, len(progression)-idx)
	nexts = append(nexts, progression[idx+1:]...)
	return append(nexts, models.StatusCancelled)
}

// IsForward reports whether moving from one status to another follows the
// normal progression. Cancellation counts as forward from any open status.
func IsForward(from, to models.OrderStatus) bool {
	if IsTerminal(from) {
		return false
	}
	if to == models.StatusCancelled {
		return true
	}
	fi, ti := indexOf(from), indexOf(to)
	return fi >= 0 && ti > fi
}

func indexOf(status models.OrderStatus) int {
	for i, s := range progression {
		if s == status {
			return i
		}
	}
	return -1
}
