package ledger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/middleware"
	"github.com/scryptex/backend/internal/models"
)

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	user := &models.User{ID: "usr_1", Username: "alice"}
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var env api.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestUseHandlerDeductsCredits(t *testing.T) {
	store := newMockStore()
	store.setBalance("usr_1", 5)
	h := NewHandler(NewService(store), nil, nil)

	rec := httptest.NewRecorder()
	h.Use(rec, authedRequest(t, http.MethodPost, "/api/credit/use", `{"amount": 2, "description": "test spend"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Errorf("success = false: %s", env.Message)
	}
	data := env.Data.(map[string]any)
	if data["amount_used"] != 2.0 {
		t.Errorf("amount_used = %v, want 2", data["amount_used"])
	}
	if data["remaining_balance"] != 3.0 {
		t.Errorf("remaining_balance = %v, want 3", data["remaining_balance"])
	}
}

func TestUseHandlerInsufficientCredits(t *testing.T) {
	store := newMockStore()
	store.setBalance("usr_1", 0.5)
	h := NewHandler(NewService(store), nil, nil)

	rec := httptest.NewRecorder()
	h.Use(rec, authedRequest(t, http.MethodPost, "/api/credit/use", `{"amount": 1, "description": "too expensive"}`))

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("success must be false on a failed debit")
	}
	if env.Message != "Insufficient credits" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestUseHandlerValidatesBody(t *testing.T) {
	h := NewHandler(NewService(newMockStore()), nil, nil)

	for _, body := range []string{
		`{"amount": -1, "description": "negative"}`,
		`{"amount": 1}`,
		`not json`,
	} {
		rec := httptest.NewRecorder()
		h.Use(rec, authedRequest(t, http.MethodPost, "/api/credit/use", body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestStatusHandlerSeedsNewUser(t *testing.T) {
	h := NewHandler(NewService(newMockStore()), nil, nil)

	rec := httptest.NewRecorder()
	h.Status(rec, authedRequest(t, http.MethodGet, "/api/credit/status", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := decodeEnvelope(t, rec).Data.(map[string]any)
	if data["balance"] != models.StartingBalance {
		t.Errorf("balance = %v, want %v", data["balance"], models.StartingBalance)
	}
}

func TestVerifyPaymentHandlerStatuses(t *testing.T) {
	store := newMockStore()
	store.setBalance("usr_1", 0)
	svc := NewService(store)
	h := NewHandler(svc, nil, nil)

	rec := httptest.NewRecorder()
	h.VerifyPayment(rec, authedRequest(t, http.MethodPost, "/api/credit/verify-payment", `{"request_id": "topup_missing", "transaction_hash": "0xabc"}`))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing topup status = %d, want 404", rec.Code)
	}

	req, err := svc.RequestTopup(authedRequest(t, http.MethodPost, "/", "").Context(), "usr_1", 2, "USDT", "wallet", nil)
	if err != nil {
		t.Fatalf("RequestTopup: %v", err)
	}
	body := `{"request_id": "` + req.ID + `", "transaction_hash": "0xabc"}`

	rec = httptest.NewRecorder()
	h.VerifyPayment(rec, authedRequest(t, http.MethodPost, "/api/credit/verify-payment", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec).Data.(map[string]any)
	if data["new_balance"] != 20.0 {
		t.Errorf("new_balance = %v, want 20", data["new_balance"])
	}

	rec = httptest.NewRecorder()
	h.VerifyPayment(rec, authedRequest(t, http.MethodPost, "/api/credit/verify-payment", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("second verify status = %d, want 400", rec.Code)
	}
}
