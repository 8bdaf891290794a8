package validation

import (
	"net/http"
	"strings"
	"testing"

	"github.com/librosapp/authkit/errors"
)

type registerInput struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required,max=5"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `validate:"omitempty,max=3"`
}

func TestValidate_Valid(t *testing.T) {
	in := registerInput{Email: "a@b.com", Name: "Ann", Password: "Secret1!"}
	if err := Validate(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	in := registerInput{Email: "nope", Name: "Annabelle", Password: "short", DisplayName: "long"}
	err := Validate(in)

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput || appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected error: %+v", appErr)
	}

	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 4 {
		t.Fatalf("expected 4 field errors, got %+v", appErr.Details)
	}
	want := map[string]string{
		"email":        "debe ser un email válido",
		"name":         "debe tener como máximo 5 caracteres",
		"password":     "debe tener al menos 8 caracteres",
		"display_name": "debe tener como máximo 3 caracteres",
	}
	for _, f := range fields {
		if want[f.Field] != f.Message {
			t.Errorf("field %s: got %q, want %q", f.Field, f.Message, want[f.Field])
		}
	}
	if !strings.Contains(appErr.Message, "email: debe ser un email válido") {
		t.Errorf("message should list fields, got %q", appErr.Message)
	}
}

func TestValidate_Required(t *testing.T) {
	err := Validate(registerInput{})
	appErr, _ := errors.AsAppError(err)
	if appErr == nil || !strings.Contains(appErr.Message, "password: es requerido") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := Validate(42)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Message != MsgInvalidInput {
		t.Fatalf("expected generic validation error, got %v", err)
	}
}

func TestValidator_Programmatic(t *testing.T) {
	v := New()
	v.Required("name", "   ").
		MinLength("password", "ñandú", 6).
		MaxLength("name", "ñandú", 5).
		Custom(false, "terms", "debe aceptarse")

	if !v.HasErrors() || len(v.Errors()) != 3 {
		t.Fatalf("expected 3 errors, got %+v", v.Errors())
	}
	if v.Err() == nil {
		t.Fatal("expected error")
	}

	if err := New().Required("name", "Ann").Err(); err != nil {
		t.Fatalf("expected nil error interface, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{"DisplayName": "display_name", "ID": "i_d", "email": "email"}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
