// Package purchase implements the invoice-level view of the upstream
// purchase feed: grouping flat rows into orders, the approval state
// machine, and the list filters used by the portals.
package purchase

import (
	"strings"

	"frenz/gateway/internal/domain"
)

// Canonical order statuses as stored by the upstream API. Older rows
// written by an earlier backend revision carry the long forms, which
// NormalizeStatus folds into the canonical ones.
const (
	StatusPending  = "pending"
	StatusApproved = "approve"
	StatusRejected = "reject"
)

// StatusAll is the filter sentinel that disables status matching.
const StatusAll = "all"

// NormalizeStatus folds a raw upstream status into its canonical form.
// Unknown values are returned trimmed and lowercased so comparisons
// stay case-insensitive throughout.
func NormalizeStatus(raw string) string {
	status := strings.ToLower(strings.TrimSpace(raw))
	switch status {
	case "approved":
		return StatusApproved
	case "rejected":
		return StatusRejected
	}
	return status
}

// IsPending reports whether an order is still awaiting a decision.
func IsPending(order domain.PurchaseOrder) bool {
	return NormalizeStatus(order.Status) == StatusPending
}

// Aggregate materializes invoice-level orders from flat purchase rows.
// Rows sharing an invoice merge into one order whose header comes from
// the first row seen; group order follows first appearance and line
// order within a group follows the input. A row without an invoice
// never merges with anything, including other invoice-less rows, and
// becomes a singleton order. Nil or empty input yields an empty slice.
func Aggregate(lines []domain.PurchaseOrderLine) []domain.PurchaseOrder {
	orders := make([]domain.PurchaseOrder, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, line := range lines {
		detail := domain.PurchaseDetail{
			PurchaseDetailID: line.PurchaseDetailID,
			ProductID:        line.ProductID,
			ProductName:      line.ProductName,
			Quantity:         line.Quantity,
			Price:            line.Price,
			SubtotalDetail:   line.SubtotalDetail,
		}

		if line.Invoice != nil {
			if at, ok := index[*line.Invoice]; ok {
				orders[at].Details = append(orders[at].Details, detail)
				continue
			}
		}

		order := domain.PurchaseOrder{
			PurchaseID:   line.PurchaseID,
			Invoice:      line.Invoice,
			EmployeeID:   line.EmployeeID,
			EmployeeName: line.EmployeeName,
			SupplierID:   line.SupplierID,
			SupplierName: line.SupplierName,
			Date:         line.Date,
			Subtotal:     line.Subtotal,
			Discount:     line.Discount,
			Total:        line.Total,
			Status:       NormalizeStatus(line.Status),
			Details:      []domain.PurchaseDetail{detail},
		}
		orders = append(orders, order)
		if line.Invoice != nil {
			index[*line.Invoice] = len(orders) - 1
		}
	}

	return orders
}

// ApplyApproval returns a copy of orders in which the order with the
// given purchase ID is marked approved and bound to the supplier.
// Every other order is carried over untouched. The second return
// reports whether the order was found.
func ApplyApproval(orders []domain.PurchaseOrder, purchaseID int, supplier domain.Supplier) ([]domain.PurchaseOrder, bool) {
	patched := make([]domain.PurchaseOrder, len(orders))
	copy(patched, orders)

	found := false
	for i := range patched {
		if patched[i].PurchaseID != purchaseID {
			continue
		}
		supplierID := supplier.SupplierID
		supplierName := supplier.Name
		patched[i].Status = StatusApproved
		patched[i].SupplierID = &supplierID
		patched[i].SupplierName = &supplierName
		found = true
	}
	return patched, found
}

// ApplyRejection returns a copy of orders in which the order with the
// given purchase ID is marked rejected. Every other order is carried
// over untouched.
func ApplyRejection(orders []domain.PurchaseOrder, purchaseID int) ([]domain.PurchaseOrder, bool) {
	patched := make([]domain.PurchaseOrder, len(orders))
	copy(patched, orders)

	found := false
	for i := range patched {
		if patched[i].PurchaseID != purchaseID {
			continue
		}
		patched[i].Status = StatusRejected
		found = true
	}
	return patched, found
}

// FindByID returns the order with the given purchase ID, if present.
func FindByID(orders []domain.PurchaseOrder, purchaseID int) (domain.PurchaseOrder, bool) {
	for _, order := range orders {
		if order.PurchaseID == purchaseID {
			return order, true
		}
	}
	return domain.PurchaseOrder{}, false
}

// Filter narrows orders to those matching both the text query and the
// status. The query is a case-insensitive substring match against the
// invoice, the requesting employee's name, and every detail product
// name; an empty query matches everything. Status matching is
// case-insensitive with "all" (or empty) disabling it.
func Filter(orders []domain.PurchaseOrder, query string, status string) []domain.PurchaseOrder {
	q := strings.ToLower(strings.TrimSpace(query))
	wantStatus := NormalizeStatus(status)
	filterStatus := wantStatus != "" && wantStatus != StatusAll

	result := make([]domain.PurchaseOrder, 0, len(orders))
	for _, order := range orders {
		if filterStatus && NormalizeStatus(order.Status) != wantStatus {
			continue
		}
		if q != "" && !matchesQuery(order, q) {
			continue
		}
		result = append(result, order)
	}
	return result
}

func matchesQuery(order domain.PurchaseOrder, q string) bool {
	if order.Invoice != nil && strings.Contains(strings.ToLower(*order.Invoice), q) {
		return true
	}
	if strings.Contains(strings.ToLower(order.EmployeeName), q) {
		return true
	}
	for _, detail := range order.Details {
		if strings.Contains(strings.ToLower(detail.ProductName), q) {
			return true
		}
	}
	return false
}

// Summarize counts orders per canonical status for the stat cards.
func Summarize(orders []domain.PurchaseOrder) domain.StatusSummary {
	summary := domain.StatusSummary{Total: len(orders)}
	for _, order := range orders {
		switch NormalizeStatus(order.Status) {
		case StatusPending:
			summary.Pending++
		case StatusApproved:
			summary.Approved++
		case StatusRejected:
			summary.Rejected++
		}
	}
	return summary
}
