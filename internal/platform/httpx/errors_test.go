package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestIsKind(t *testing.T) {
	err := NotFound("donor %s not found", "abc")
	if !IsKind(err, KindNotFound) {
		t.Error("expected KindNotFound")
	}
	if IsKind(err, KindValidation) {
		t.Error("did not expect KindValidation")
	}

	wrapped := fmt.Errorf("loading: %w", InsufficientStock("only 2 units of O+"))
	if !IsKind(wrapped, KindInsufficientStock) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(errors.New("plain"), KindInternal) {
		t.Error("plain errors have no kind")
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)
	if err.Message != "internal server error" {
		t.Errorf("message = %q", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should remain unwrappable")
	}
}

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/donors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(zerolog.Nop())(err, c)

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, body
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation("blood group is required"), http.StatusBadRequest, "blood group is required"},
		{"not found", NotFound("hospital not found"), http.StatusNotFound, "hospital not found"},
		{"invalid state", InvalidState("request already fulfilled"), http.StatusConflict, "request already fulfilled"},
		{"insufficient stock", InsufficientStock("only 1 unit of AB-"), http.StatusConflict, "only 1 unit of AB-"},
		{"permission", Permission("managers only"), http.StatusForbidden, "managers only"},
		{"unauthenticated", Unauthenticated("token expired"), http.StatusUnauthorized, "token expired"},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError, "internal server error"},
		{"echo http error", echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "Not Found"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := handleError(t, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if body.Success {
				t.Error("error envelope must not be marked successful")
			}
			if body.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMsg)
			}
		})
	}
}

func TestErrorHandlerInternalCauseNotLeaked(t *testing.T) {
	rec, _ := handleError(t, Internal(errors.New("pq: duplicate key value")))
	if got := rec.Body.String(); got == "" || strings.Contains(got, "duplicate key") {
		t.Errorf("internal cause leaked to client: %s", got)
	}
}

func TestErrorHandlerSkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusNoContent)

	ErrorHandler(zerolog.Nop())(Validation("late"), c)
	if rec.Code != http.StatusNoContent {
		t.Errorf("committed response was overwritten: %d", rec.Code)
	}
}
