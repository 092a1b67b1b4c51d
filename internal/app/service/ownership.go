package service

import (
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
)

// OwnershipGuard checks that the owner named in the request path is the
// verified caller. It holds no state and never touches storage.
type OwnershipGuard struct{}

func NewOwnershipGuard() *OwnershipGuard {
	return &OwnershipGuard{}
}

var _ ports.OwnershipAuthorizer = (*OwnershipGuard)(nil)

func (g *OwnershipGuard) Authorize(pathOwnerID, verifiedSubject string) error {
	if pathOwnerID == "" || verifiedSubject == "" || pathOwnerID != verifiedSubject {
		return domain.ErrForbidden
	}
	return nil
}
