package service

import (
	"crypto/subtle"

	"github.com/suwityarat/portfolio/internal/apperror"
)

// AdminService checks the shared admin PIN.
type AdminService interface {
	Authenticate(pin string) error
}

type adminService struct {
	pin string
}

// NewAdminService returns a gate for the configured pin. An empty pin leaves
// the gate unconfigured and every attempt fails with CodeNotConfigured.
func NewAdminService(pin string) AdminService {
	return &adminService{pin: pin}
}

func (s *adminService) Authenticate(pin string) error {
	if s.pin == "" {
		return apperror.New(apperror.CodeNotConfigured, "Admin PIN not configured")
	}
	if subtle.ConstantTimeCompare([]byte(pin), []byte(s.pin)) != 1 {
		return apperror.New(apperror.CodeUnauthorized, "Invalid PIN")
	}
	return nil
}
