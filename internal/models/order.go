package models

import (
	"github.com/google/uuid"
)

// OrderState is the lifecycle tag of an order. Transitions are not enforced.
type OrderState string

const (
	OrderStateOrdering OrderState = "ORDERING"
	OrderStateChecking OrderState = "CHECKING"
	OrderStatePaid     OrderState = "PAID"
)

func (s OrderState) Valid() bool {
	switch s {
	case OrderStateOrdering, OrderStateChecking, OrderStatePaid:
		return true
	}
	return false
}

// Order is one dining session of a customer at a table.
type Order struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Number        int        `json:"number" db:"number"`
	TableID       int        `json:"table_id" db:"table_id"`
	CustomerID    int        `json:"customer_id" db:"customer_id"`
	WaiterID      int        `json:"waiter_id" db:"waiter_id"`
	State         OrderState `json:"state" db:"state"`
	TotalCheck    int        `json:"total_check" db:"total_check"`
	PercentageTip int        `json:"percentage_tip" db:"percentage_tip"`
	TotalTip      int        `json:"total_tip" db:"total_tip"`
	DateCreated   Date       `json:"date_created" db:"date_created"`
	DatePaid      *Date      `json:"date_paid" db:"date_paid"`
}

// Defaults applied to orders created without these fields.
const (
	DefaultWaiterID = 1
	DefaultQuantity = 1
)

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start Date
	End   Date
}

// OrderFilterResult holds the orders created in a range and the sums over
// exactly those orders. The sums are nil when no order matched.
type OrderFilterResult struct {
	Orders     []*Order `json:"orders"`
	TotalCheck *int64   `json:"total_check"`
	TotalTip   *int64   `json:"total_tip"`
}

// OrderDeleteResult reports how many paid orders a bulk delete removed.
type OrderDeleteResult struct {
	OrdersDeleted int64 `json:"orders_deleted"`
}
