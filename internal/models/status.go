package models

// OrderStatus values form a forward-only pipeline:
// pending -> cooking -> completed, with a side branch
// pending -> rejected. Completed and rejected are terminal.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCooking   OrderStatus = "cooking"
	StatusCompleted OrderStatus = "completed"
	StatusRejected  OrderStatus = "rejected"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCooking, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}
