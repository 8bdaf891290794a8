package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
}

func TestAppError_NotFound(t *testing.T) {
	err := NotFound("user", "123")
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["resource"] != "user" || err.Details["id"] != "123" {
		t.Errorf("unexpected details: %v", err.Details)
	}

	if _, ok := NotFound("user", "").Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_AuthConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"unauthorized", Unauthorized(""), ErrCodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden(""), ErrCodeForbidden, http.StatusForbidden},
		{"expired", TokenExpired("expired"), ErrCodeTokenExpired, http.StatusUnauthorized},
		{"invalid token", InvalidToken("bad"), ErrCodeInvalidToken, http.StatusUnauthorized},
		{"already exists", AlreadyExists("dup"), ErrCodeAlreadyExists, http.StatusConflict},
		{"validation", Validation("bad input"), ErrCodeInvalidInput, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Message == "" {
				t.Error("expected a default message")
			}
		})
	}
}

func TestAppError_Internal_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Internal(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("expected cause in Error(), got %q", err.Error())
	}
	if strings.Contains(err.Message, "disk") {
		t.Error("cause must not leak into the client message")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := Validation("bad").WithDetail("field", "email")
	if err.Details["field"] != "email" {
		t.Errorf("expected field detail, got %v", err.Details)
	}
}

func TestToResponse_Envelope(t *testing.T) {
	body, err := json.Marshal(Unauthorized("Credenciales inválidas").ToResponse())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["success"] != false {
		t.Errorf("expected success=false, got %v", got["success"])
	}
	if got["message"] != "Credenciales inválidas" || got["error"] != "Credenciales inválidas" {
		t.Errorf("message and error must match, got %v", got)
	}
	if got["code"] != string(ErrCodeUnauthorized) {
		t.Errorf("expected code, got %v", got["code"])
	}
}

func TestNewResponse_HasOnlyEnvelopeKeys(t *testing.T) {
	body, _ := json.Marshal(NewResponse("Token de acceso requerido"))

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected exactly success/message/error, got %v", got)
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NotFound("user", "1"))
	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeNotFound {
		t.Fatalf("expected wrapped AppError, got %v %v", appErr, ok)
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("plain error must not convert")
	}
}

func TestAppError_ServerSideConstructors(t *testing.T) {
	limited := RateLimited()
	if limited.HTTPStatus != http.StatusTooManyRequests || limited.Code != ErrCodeRateLimited {
		t.Errorf("unexpected rate limit error: %+v", limited)
	}

	cause := stderrors.New("database is locked")
	db := DatabaseError(cause)
	if db.HTTPStatus != http.StatusInternalServerError || db.Code != ErrCodeDatabaseError {
		t.Errorf("unexpected database error: %+v", db)
	}
	if !stderrors.Is(db, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	body, err := json.Marshal(db.ToResponse())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(body), "locked") {
		t.Errorf("cause leaked into response: %s", body)
	}
}
