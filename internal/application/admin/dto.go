package admin

import (
	"github.com/shopspring/decimal"
)

// PurgeRequest carries the confirmation phrase typed by the operator
type PurgeRequest struct {
	Confirm string `json:"confirm" binding:"required"`
}

// PurgeResponse reports what the purge removed
type PurgeResponse struct {
	Deleted map[string]int64 `json:"deleted"`
	Total   int64            `json:"total"`
}

// DashboardSummaryResponse holds the record counts shown on the home page
type DashboardSummaryResponse struct {
	Customers      int64            `json:"customers"`
	Employees      int64            `json:"employees"`
	Products       int64            `json:"products"`
	Orders         int64            `json:"orders"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	Revenue        decimal.Decimal  `json:"revenue"`
}
