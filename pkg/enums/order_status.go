package enums

import "fmt"

// OrderStatus tracks an order snapshot after checkout completion.
type OrderStatus string

const (
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusUnpaid   OrderStatus = "unpaid"
	OrderStatusCanceled OrderStatus = "canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPaid,
	OrderStatusUnpaid,
	OrderStatusCanceled,
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// OrderStatusFromPayment maps a checkout payment status onto an order status.
func OrderStatusFromPayment(paymentStatus string) OrderStatus {
	switch paymentStatus {
	case "paid", "no_payment_required":
		return OrderStatusPaid
	default:
		return OrderStatusUnpaid
	}
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
