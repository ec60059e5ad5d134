// Package upstream is the HTTP client for the retail API that owns
// employees, purchase orders, suppliers and attendance. Every call is
// made with the caller's own bearer token.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"frenz/gateway/internal/domain"
)

// APIError carries a non-2xx upstream response: the HTTP status and
// the message extracted from the response body when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream responded %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (domain.UpstreamSession, error) {
	var session domain.UpstreamSession
	err := c.do(ctx, http.MethodPost, "/api/employee/login", "", req, &session)
	if err != nil {
		return domain.UpstreamSession{}, err
	}
	if session.Token == "" {
		return domain.UpstreamSession{}, fmt.Errorf("upstream login returned no token")
	}
	return session, nil
}

// FetchPurchaseOrderLines returns the flat purchase feed. The payload
// must be a JSON array; anything else is a decode error surfaced to
// the caller, never silently replaced.
func (c *Client) FetchPurchaseOrderLines(ctx context.Context, token string) ([]domain.PurchaseOrderLine, error) {
	var lines []domain.PurchaseOrderLine
	if err := c.do(ctx, http.MethodGet, "/api/purchase", token, nil, &lines); err != nil {
		return nil, fmt.Errorf("fetch purchase orders: %w", err)
	}
	return lines, nil
}

func (c *Client) ApprovePurchaseOrder(ctx context.Context, token string, purchaseID int, supplierID int) error {
	path := fmt.Sprintf("/api/purchase/%d/approve", purchaseID)
	body := domain.ApproveRequest{SupplierID: supplierID}
	if err := c.do(ctx, http.MethodPut, path, token, body, nil); err != nil {
		return fmt.Errorf("approve purchase order %d: %w", purchaseID, err)
	}
	return nil
}

func (c *Client) RejectPurchaseOrder(ctx context.Context, token string, purchaseID int) error {
	path := fmt.Sprintf("/api/purchase/%d/reject", purchaseID)
	if err := c.do(ctx, http.MethodPut, path, token, nil, nil); err != nil {
		return fmt.Errorf("reject purchase order %d: %w", purchaseID, err)
	}
	return nil
}

func (c *Client) FetchSuppliers(ctx context.Context, token string) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	if err := c.do(ctx, http.MethodGet, "/api/supplier", token, nil, &suppliers); err != nil {
		return nil, fmt.Errorf("fetch suppliers: %w", err)
	}
	return suppliers, nil
}

func (c *Client) FetchAttendance(ctx context.Context, token string) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	if err := c.do(ctx, http.MethodGet, "/api/attendance", token, nil, &records); err != nil {
		return nil, fmt.Errorf("fetch attendance: %w", err)
	}
	return records, nil
}

func (c *Client) CreateAttendance(ctx context.Context, token string, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	var created domain.AttendanceRecord
	if err := c.do(ctx, http.MethodPost, "/api/attendance", token, record, &created); err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("create attendance: %w", err)
	}
	return created, nil
}

// do performs one upstream round trip. A nil body sends no payload; a
// nil dest discards the response body after the status check.
func (c *Client) do(ctx context.Context, method string, path string, token string, body any, dest any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(resp.Body, resp.StatusCode),
		}
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("malformed upstream payload: %w", err)
	}
	return nil
}

// extractMessage pulls the "message" field out of an upstream error
// body. Bodies that are not JSON objects, or objects without a usable
// message, fall back to a generic text carrying the status code.
func extractMessage(body io.Reader, statusCode int) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err == nil {
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &envelope) == nil && strings.TrimSpace(envelope.Message) != "" {
			return strings.TrimSpace(envelope.Message)
		}
	}
	return fmt.Sprintf("request failed with status %d", statusCode)
}
