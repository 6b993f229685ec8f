package service

import (
	"testing"

	"github.com/suwityarat/portfolio/internal/apperror"
)

func TestAdminService_Authenticate(t *testing.T) {
	svc := NewAdminService("4242")

	if err := svc.Authenticate("4242"); err != nil {
		t.Fatalf("expected correct pin to pass, got %v", err)
	}
	for _, pin := range []string{"", "424", "42420", "0000"} {
		if err := svc.Authenticate(pin); !apperror.IsUnauthorized(err) {
			t.Errorf("pin %q: expected unauthorized, got %v", pin, err)
		}
	}
}

func TestAdminService_NotConfigured(t *testing.T) {
	svc := NewAdminService("")

	err := svc.Authenticate("")
	if !apperror.IsNotConfigured(err) {
		t.Fatalf("expected not configured error, got %v", err)
	}
	if got := apperror.MessageOf(err, ""); got != "Admin PIN not configured" {
		t.Fatalf("unexpected message %q", got)
	}
}
