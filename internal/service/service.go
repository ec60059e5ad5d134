// Package service orchestrates the approval workflow between the
// portals and the upstream retail API.
package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"frenz/gateway/internal/cache"
	"frenz/gateway/internal/domain"
	"frenz/gateway/internal/geofence"
	"frenz/gateway/internal/purchase"
	"frenz/gateway/internal/store"
	"frenz/gateway/internal/xid"
)

var (
	ErrUnauthenticated      = errors.New("authentication required")
	ErrSupplierRequired     = errors.New("a supplier must be selected before approval")
	ErrSupplierUnknown      = errors.New("selected supplier does not exist")
	ErrNotPending           = errors.New("purchase order is no longer pending")
	ErrActionInFlight       = errors.New("another decision is already in progress for this purchase order")
	ErrConfirmationRequired = errors.New("rejection must be explicitly confirmed")
	ErrInvalidCoordinates   = errors.New("invalid check-in coordinates")
	ErrOutsideGeofence      = errors.New("check-in location is outside every store area")
)

// Collaborator is the slice of the upstream retail API the workflow
// needs. Satisfied by upstream.Client.
type Collaborator interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.UpstreamSession, error)
	FetchPurchaseOrderLines(ctx context.Context, token string) ([]domain.PurchaseOrderLine, error)
	ApprovePurchaseOrder(ctx context.Context, token string, purchaseID int, supplierID int) error
	RejectPurchaseOrder(ctx context.Context, token string, purchaseID int) error
	FetchSuppliers(ctx context.Context, token string) ([]domain.Supplier, error)
	FetchAttendance(ctx context.Context, token string) ([]domain.AttendanceRecord, error)
	CreateAttendance(ctx context.Context, token string, record domain.AttendanceRecord) (domain.AttendanceRecord, error)
}

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

const supplierCacheKey = "suppliers:all"

type Service struct {
	upstream    Collaborator
	repo        store.Repository
	suppliers   cache.SupplierCache
	supplierTTL time.Duration

	mu       sync.Mutex
	inFlight map[int]bool
}

func New(upstream Collaborator, repo store.Repository, suppliers cache.SupplierCache, supplierTTL time.Duration) *Service {
	if suppliers == nil {
		suppliers = cache.NoopSupplierCache{}
	}
	if supplierTTL <= 0 {
		supplierTTL = 60 * time.Second
	}
	return &Service{
		upstream:    upstream,
		repo:        repo,
		suppliers:   suppliers,
		supplierTTL: supplierTTL,
		inFlight:    make(map[int]bool),
	}
}

// ListPurchaseOrders materializes the invoice-level order list for the
// caller. Orders and suppliers are fetched concurrently and both must
// succeed; a failed fetch is a real error, never papered over with
// substitute data. Orders are re-fetched on every call.
func (s *Service) ListPurchaseOrders(ctx context.Context, query string, status string) (domain.PurchaseOrderList, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.PurchaseOrderList{}, ErrUnauthenticated
	}

	var (
		wg           sync.WaitGroup
		lines        []domain.PurchaseOrderLine
		suppliers    []domain.Supplier
		linesErr     error
		suppliersErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		lines, linesErr = s.upstream.FetchPurchaseOrderLines(ctx, actor.UpstreamToken)
	}()
	go func() {
		defer wg.Done()
		suppliers, suppliersErr = s.listSuppliers(ctx, actor.UpstreamToken)
	}()
	wg.Wait()

	if linesErr != nil {
		return domain.PurchaseOrderList{}, linesErr
	}
	if suppliersErr != nil {
		return domain.PurchaseOrderList{}, suppliersErr
	}

	orders := purchase.Aggregate(lines)
	filtered := purchase.Filter(orders, query, status)

	return domain.PurchaseOrderList{
		Orders:    filtered,
		Suppliers: suppliers,
		Summary:   purchase.Summarize(orders),
	}, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.listSuppliers(ctx, actor.UpstreamToken)
}

func (s *Service) listSuppliers(ctx context.Context, token string) ([]domain.Supplier, error) {
	if cached, hit, err := s.suppliers.Get(ctx, supplierCacheKey); err == nil && hit {
		return cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: supplier cache read failed: %v", err)
	}

	suppliers, err := s.upstream.FetchSuppliers(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.suppliers.Set(ctx, supplierCacheKey, suppliers, s.supplierTTL); err != nil {
		log.Printf("[service] WARN: supplier cache write failed: %v", err)
	}
	return suppliers, nil
}

// ApprovePurchaseOrder runs the approval transition for one pending
// order: the supplier must be selected and known, the order must still
// be pending, and no other decision may be in flight for it. The
// returned order reflects the approved state only after the upstream
// call succeeded; any failure leaves the order list semantics exactly
// as fetched.
func (s *Service) ApprovePurchaseOrder(ctx context.Context, purchaseID int, supplierID int) (domain.PurchaseOrder, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.PurchaseOrder{}, ErrUnauthenticated
	}
	if supplierID < 1 {
		return domain.PurchaseOrder{}, ErrSupplierRequired
	}

	if !s.tryAcquire(purchaseID) {
		return domain.PurchaseOrder{}, ErrActionInFlight
	}
	defer s.release(purchaseID)

	orders, err := s.fetchOrders(ctx, actor.UpstreamToken)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	order, found := purchase.FindByID(orders, purchaseID)
	if !found {
		return domain.PurchaseOrder{}, store.ErrNotFound
	}
	if !purchase.IsPending(order) {
		return domain.PurchaseOrder{}, ErrNotPending
	}

	suppliers, err := s.listSuppliers(ctx, actor.UpstreamToken)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	supplier, found := findSupplier(suppliers, supplierID)
	if !found {
		return domain.PurchaseOrder{}, ErrSupplierUnknown
	}

	if err := s.upstream.ApprovePurchaseOrder(ctx, actor.UpstreamToken, purchaseID, supplierID); err != nil {
		return domain.PurchaseOrder{}, err
	}

	patched, _ := purchase.ApplyApproval(orders, purchaseID, supplier)
	approved, _ := purchase.FindByID(patched, purchaseID)

	s.recordDecision(ctx, actor, approved, purchase.StatusApproved, &supplier)
	return approved, nil
}

// RejectPurchaseOrder runs the rejection transition. Rejection is
// irreversible, so it requires an explicit confirmation from the
// caller before anything reaches the upstream API.
func (s *Service) RejectPurchaseOrder(ctx context.Context, purchaseID int, confirmed bool) (domain.PurchaseOrder, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.PurchaseOrder{}, ErrUnauthenticated
	}
	if !confirmed {
		return domain.PurchaseOrder{}, ErrConfirmationRequired
	}

	if !s.tryAcquire(purchaseID) {
		return domain.PurchaseOrder{}, ErrActionInFlight
	}
	defer s.release(purchaseID)

	orders, err := s.fetchOrders(ctx, actor.UpstreamToken)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	order, found := purchase.FindByID(orders, purchaseID)
	if !found {
		return domain.PurchaseOrder{}, store.ErrNotFound
	}
	if !purchase.IsPending(order) {
		return domain.PurchaseOrder{}, ErrNotPending
	}

	if err := s.upstream.RejectPurchaseOrder(ctx, actor.UpstreamToken, purchaseID); err != nil {
		return domain.PurchaseOrder{}, err
	}

	patched, _ := purchase.ApplyRejection(orders, purchaseID)
	rejected, _ := purchase.FindByID(patched, purchaseID)

	s.recordDecision(ctx, actor, rejected, purchase.StatusRejected, nil)
	return rejected, nil
}

func (s *Service) ListDecisions(ctx context.Context, date string, limit int) ([]domain.Decision, error) {
	if _, ok := ActorFromContext(ctx); !ok {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListDecisions(ctx, date, limit)
}

func (s *Service) ListAttendance(ctx context.Context) ([]domain.AttendanceRecord, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.upstream.FetchAttendance(ctx, actor.UpstreamToken)
}

// CheckIn validates the caller's position against the store geofence
// and forwards the attendance record upstream only when it passes.
func (s *Service) CheckIn(ctx context.Context, req domain.CheckInRequest) (domain.CheckInResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.CheckInResponse{}, ErrUnauthenticated
	}
	if !geofence.ValidCoordinates(req.Latitude, req.Longitude) {
		return domain.CheckInResponse{}, ErrInvalidCoordinates
	}

	verdict := geofence.Evaluate(req.Latitude, req.Longitude)
	if !verdict.Allowed {
		return domain.CheckInResponse{
			Allowed:   false,
			Location:  verdict.Nearest.Name,
			DistanceM: verdict.DistanceM,
		}, ErrOutsideGeofence
	}

	now := time.Now().UTC()
	created, err := s.upstream.CreateAttendance(ctx, actor.UpstreamToken, domain.AttendanceRecord{
		Date:      now.Format("2006-01-02"),
		CheckIn:   now.Format(time.RFC3339),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Location:  verdict.Nearest.Name,
	})
	if err != nil {
		return domain.CheckInResponse{}, err
	}

	return domain.CheckInResponse{
		Allowed:    true,
		Location:   verdict.Nearest.Name,
		DistanceM:  verdict.DistanceM,
		Attendance: created,
	}, nil
}

func (s *Service) fetchOrders(ctx context.Context, token string) ([]domain.PurchaseOrder, error) {
	lines, err := s.upstream.FetchPurchaseOrderLines(ctx, token)
	if err != nil {
		return nil, err
	}
	return purchase.Aggregate(lines), nil
}

// recordDecision appends to the local audit trail. The trail is
// best-effort: a storage failure is logged, not surfaced, because the
// upstream transition already committed.
func (s *Service) recordDecision(ctx context.Context, actor domain.Actor, order domain.PurchaseOrder, action string, supplier *domain.Supplier) {
	decision := domain.Decision{
		ID:         xid.New("dec"),
		PurchaseID: order.PurchaseID,
		Action:     action,
		Actor:      actor.Username,
		ActorRole:  actor.Role,
		DecidedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if order.Invoice != nil {
		decision.Invoice = *order.Invoice
	}
	if supplier != nil {
		supplierID := supplier.SupplierID
		decision.SupplierID = &supplierID
		decision.SupplierName = supplier.Name
	}

	if err := s.repo.CreateDecision(ctx, decision); err != nil {
		log.Printf("[service] WARN: decision audit write failed for purchase %d: %v", order.PurchaseID, err)
	}
}

func (s *Service) tryAcquire(purchaseID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[purchaseID] {
		return false
	}
	s.inFlight[purchaseID] = true
	return true
}

func (s *Service) release(purchaseID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, purchaseID)
}

func findSupplier(suppliers []domain.Supplier, supplierID int) (domain.Supplier, bool) {
	for _, supplier := range suppliers {
		if supplier.SupplierID == supplierID {
			return supplier, true
		}
	}
	return domain.Supplier{}, false
}
