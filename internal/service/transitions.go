package service

import "github.com/jeroroldan/admin-panel-sub001/internal/model"

// orderRank orders the forward path of an order. Cancelled is off the path.
var orderRank = map[string]int{
	model.OrderPending:    0,
	model.OrderConfirmed:  1,
	model.OrderProcessing: 2,
	model.OrderShipped:    3,
	model.OrderDelivered:  4,
}

// CanTransitionOrder reports whether an order may move from one status to
// another. Steps may be skipped forward; delivered and cancelled are final.
func CanTransitionOrder(from, to string) bool {
	if from == model.OrderDelivered || from == model.OrderCancelled {
		return false
	}
	if to == model.OrderCancelled {
		return true
	}
	fromRank, okFrom := orderRank[from]
	toRank, okTo := orderRank[to]
	return okFrom && okTo && toRank > fromRank
}

var saleTransitions = map[string][]string{
	model.SalePending:   {model.SaleCompleted, model.SaleCancelled},
	model.SaleCompleted: {model.SaleRefunded},
}

// CanTransitionSale reports whether a sale may move from one status to another.
func CanTransitionSale(from, to string) bool {
	for _, next := range saleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// releasesStock reports whether entering status gives the deducted units back.
func releasesStock(status string) bool {
	switch status {
	case model.OrderCancelled, model.SaleRefunded:
		return true
	}
	return false
}
