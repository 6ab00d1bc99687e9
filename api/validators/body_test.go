package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@x.com","password":"hunter22"}`))
	var body samplePayload
	if err := DecodeJSONBody(r, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Email != "a@x.com" {
		t.Fatalf("unexpected payload %+v", body)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@x.com","password":"hunter22","role":"admin"}`))
	var body samplePayload
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyNamesFailingFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email","password":"short"}`))
	var body samplePayload
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	msg := typed.Message()
	if !strings.Contains(msg, "email must be a valid email") {
		t.Fatalf("message should name the email failure, got %q", msg)
	}
	if !strings.Contains(msg, "password must be at least 6") {
		t.Fatalf("message should name the password failure, got %q", msg)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{name: "absent", header: "", want: ""},
		{name: "bare token", header: "tok-abc", want: "tok-abc"},
		{name: "bearer prefix", header: "Bearer tok-abc", want: "tok-abc"},
		{name: "case insensitive", header: "bearer tok-abc", want: "tok-abc"},
		{name: "padded", header: "  Bearer   tok-abc  ", want: "tok-abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if got := BearerToken(r); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
