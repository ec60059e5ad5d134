package domain

// Wire shapes of the upstream retail API. Field tags follow the
// upstream payloads exactly so rows round-trip without translation.

// PurchaseOrderLine is one flat row of the upstream /api/purchase
// payload: a single product line joined with its order header. Invoice
// is a pointer because legacy rows can arrive without one.
type PurchaseOrderLine struct {
	PurchaseDetailID int      `json:"purchaseDetailId"`
	PurchaseID       int      `json:"purchaseId"`
	Invoice          *string  `json:"invoice"`
	ProductID        int      `json:"productId"`
	ProductName      string   `json:"productName"`
	Quantity         int      `json:"quantity"`
	Price            float64  `json:"price"`
	SubtotalDetail   float64  `json:"subtotaldetail"`
	EmployeeID       int      `json:"employeeId"`
	EmployeeName     string   `json:"employeeName"`
	SupplierID       *int     `json:"supplierId"`
	SupplierName     *string  `json:"supplierName"`
	Date             string   `json:"date"`
	Subtotal         float64  `json:"subtotal"`
	Discount         *float64 `json:"discount"`
	Total            float64  `json:"total"`
	Status           string   `json:"status"`
}

// PurchaseDetail is one product line of a grouped purchase order.
type PurchaseDetail struct {
	PurchaseDetailID int     `json:"purchaseDetailId"`
	ProductID        int     `json:"productId"`
	ProductName      string  `json:"productName"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
	SubtotalDetail   float64 `json:"subtotaldetail"`
}

// PurchaseOrder is an invoice-level order materialized from its flat
// lines. Header fields come from the first line of the group.
type PurchaseOrder struct {
	PurchaseID   int              `json:"purchaseId"`
	Invoice      *string          `json:"invoice"`
	EmployeeID   int              `json:"employeeId"`
	EmployeeName string           `json:"employeeName"`
	SupplierID   *int             `json:"supplierId"`
	SupplierName *string          `json:"supplierName"`
	Date         string           `json:"date"`
	Subtotal     float64          `json:"subtotal"`
	Discount     *float64         `json:"discount"`
	Total        float64          `json:"total"`
	Status       string           `json:"status"`
	Details      []PurchaseDetail `json:"details"`
}

type Supplier struct {
	SupplierID  int    `json:"supplierId"`
	Name        string `json:"supplierName"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// StatusSummary backs the stat cards of the portal list pages.
type StatusSummary struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type PurchaseOrderList struct {
	Orders    []PurchaseOrder `json:"orders"`
	Suppliers []Supplier      `json:"suppliers"`
	Summary   StatusSummary   `json:"summary"`
}

type ApproveRequest struct {
	SupplierID int `json:"supplierId"`
}

type RejectRequest struct {
	Confirmed bool   `json:"confirmed"`
	PIN       string `json:"pin,omitempty"`
}

// Decision is one approval or rejection taken through the gateway,
// kept as a local audit trail.
type Decision struct {
	ID           string `json:"id"`
	PurchaseID   int    `json:"purchaseId"`
	Invoice      string `json:"invoice,omitempty"`
	Action       string `json:"action"`
	Actor        string `json:"actor"`
	ActorRole    string `json:"actorRole"`
	SupplierID   *int   `json:"supplierId,omitempty"`
	SupplierName string `json:"supplierName,omitempty"`
	DecidedAt    string `json:"decidedAt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Employee mirrors the upstream login payload's employee object.
type Employee struct {
	EmployeeID int    `json:"employeeId"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Role       string `json:"role"`
}

// UpstreamSession is the upstream login response: a bearer token plus
// the authenticated employee record.
type UpstreamSession struct {
	Token    string   `json:"token"`
	Employee Employee `json:"employee"`
}

// LoginResponse is the gateway session handed to a portal after a
// successful upstream login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	ExpiresAt   string `json:"expires_at"`
}

// Actor is the authenticated caller of a gateway request. The upstream
// token travels with the actor so every collaborator call is made on
// the caller's behalf.
type Actor struct {
	Username      string
	Role          string
	UpstreamToken string
}

type AttendanceRecord struct {
	AttendanceID int     `json:"attendanceId,omitempty"`
	EmployeeID   int     `json:"employeeId,omitempty"`
	Date         string  `json:"date"`
	CheckIn      string  `json:"checkIn,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Location     string  `json:"location,omitempty"`
	Status       string  `json:"status,omitempty"`
}

type CheckInRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CheckInResponse struct {
	Allowed    bool             `json:"allowed"`
	Location   string           `json:"location,omitempty"`
	DistanceM  float64          `json:"distanceMeters"`
	Attendance AttendanceRecord `json:"attendance"`
}
