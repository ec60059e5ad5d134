package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"frenz/gateway/internal/domain"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 2*time.Second), server
}

func TestFetchPurchaseOrderLinesDecodesArray(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/purchase" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			t.Fatalf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"purchaseDetailId":1,"purchaseId":5,"invoice":"INV-001","productName":"Kopi","quantity":3,"status":"pending"}]`))
	})
	defer server.Close()

	lines, err := client.FetchPurchaseOrderLines(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Invoice == nil || *lines[0].Invoice != "INV-001" {
		t.Fatalf("unexpected invoice: %v", lines[0].Invoice)
	}
}

func TestFetchPurchaseOrderLinesRejectsNonArrayPayload(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":"unexpected"}`))
	})
	defer server.Close()

	_, err := client.FetchPurchaseOrderLines(context.Background(), "tok")
	if err == nil {
		t.Fatalf("expected decode error for non-array payload")
	}
}

func TestErrorBodyMessageIsExtracted(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Purchase order already approved"}`))
	})
	defer server.Close()

	err := client.ApprovePurchaseOrder(context.Background(), "tok", 9, 2)
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Purchase order already approved" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestErrorBodyWithoutMessageFallsBackToGenericText(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>gateway timeout</html>"))
	})
	defer server.Close()

	err := client.RejectPurchaseOrder(context.Background(), "tok", 4)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "request failed with status 500" {
		t.Fatalf("unexpected fallback message %q", apiErr.Message)
	}
}

func TestApproveSendsSupplierBody(t *testing.T) {
	var captured domain.ApproveRequest
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/purchase/12/approve" || r.Method != http.MethodPut {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode approve body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	defer server.Close()

	if err := client.ApprovePurchaseOrder(context.Background(), "tok", 12, 33); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if captured.SupplierID != 33 {
		t.Fatalf("expected supplierId 33, got %d", captured.SupplierID)
	}
}

func TestLoginReturnsSessionAndRequiresToken(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/employee/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"up-tok","employee":{"employeeId":3,"name":"Dewi","role":"supervisor"}}`))
	})
	defer server.Close()

	session, err := client.Login(context.Background(), domain.LoginRequest{Username: "dewi", Password: "secret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Token != "up-tok" || session.Employee.Role != "supervisor" {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"employee":{"role":"admin"}}`))
	})
	defer server.Close()

	if _, err := client.Login(context.Background(), domain.LoginRequest{Username: "x", Password: "y"}); err == nil {
		t.Fatalf("expected error when upstream omits token")
	}
}

func TestTransportFailureIsWrapped(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", 500*time.Millisecond)
	_, err := client.FetchSuppliers(context.Background(), "tok")
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an APIError: %v", err)
	}
}
