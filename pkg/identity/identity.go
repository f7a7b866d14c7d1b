// Package identity carries the caller's verified claims through the request
// context. Claims are asserted by the external membership service; this
// package only reads them, it never issues or revokes attributes.
package identity

import (
	"context"
	"fmt"

	"github.com/absmach/fedledger/pkg/errors"
)

// Role attributes gating mutating operations.
const (
	RoleFLAdmin        = "flAdmin"
	RoleTrainer        = "trainer"
	RoleLeadAggregator = "leadAggregator"
)

// Claims is the verified identity of a caller. EnrollmentID is the stable
// client identifier used to key trainer submissions; a caller cannot choose
// it per request.
type Claims struct {
	ID           string          `json:"id"`
	MSPID        string          `json:"msp_id"`
	EnrollmentID string          `json:"enrollment_id"`
	Attributes   map[string]bool `json:"attributes"`
}

// HasRole reports whether the named boolean attribute is present and true.
func (c Claims) HasRole(role string) bool {
	return c.Attributes[role]
}

// Role resolves the caller's primary role, lead aggregator winning over
// trainer. Admin-only identities report "unknown".
func (c Claims) Role() string {
	switch {
	case c.HasRole(RoleLeadAggregator):
		return RoleLeadAggregator
	case c.HasRole(RoleTrainer):
		return RoleTrainer
	default:
		return "unknown"
	}
}

type claimsKey struct{}

// NewContext returns a context carrying the caller's claims.
func NewContext(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// FromContext resolves the caller's claims. An absent identity is reported
// as access denied so every gated operation fails closed.
func FromContext(ctx context.Context) (Claims, error) {
	c, ok := ctx.Value(claimsKey{}).(Claims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: no caller identity in context", errors.ErrAccessDenied)
	}

	return c, nil
}

// RequireRole resolves the caller and verifies the named role attribute.
// Operations must not perform any write or emit any event after a failure.
func RequireRole(ctx context.Context, role string) (Claims, error) {
	c, err := FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	if !c.HasRole(role) {
		return Claims{}, fmt.Errorf("%w: user %s has no %s attribute", errors.ErrAccessDenied, c.ID, role)
	}

	return c, nil
}
