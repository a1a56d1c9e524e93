package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fooddelivery"

const (
	OperationAdd       = "add"
	OperationDecrement = "decrement"
)

const (
	ReasonEmptyCart        = "empty_cart"
	ReasonMixedRestaurants = "mixed_restaurants"
	ReasonStorage          = "storage"
)

const (
	OutcomeDelivered = "delivered"
	OutcomeMalformed = "malformed"
	OutcomeFailed    = "failed"
)

var (
	CartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Cart lines added or decremented.",
	}, []string{"operation"})

	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders committed by checkout.",
	})

	CheckoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_failures_total",
		Help:      "Checkouts that ended without an order.",
	}, []string{"reason"})

	OrderTotalPrice = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_total_price",
		Help:      "Total price of placed orders.",
		Buckets:   []float64{5, 10, 20, 35, 50, 75, 100, 150, 250},
	})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Order placed events handled by the notification listener.",
	}, []string{"outcome"})
)
