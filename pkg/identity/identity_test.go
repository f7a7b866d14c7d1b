package identity_test

import (
	"context"
	"testing"

	"github.com/absmach/fedledger/pkg/errors"
	"github.com/absmach/fedledger/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	admin := identity.Claims{
		ID:         "x509::CN=admin",
		Attributes: map[string]bool{identity.RoleFLAdmin: true},
	}

	cases := []struct {
		desc string
		ctx  context.Context
		role string
		err  error
	}{
		{
			desc: "caller with role",
			ctx:  identity.NewContext(context.Background(), admin),
			role: identity.RoleFLAdmin,
			err:  nil,
		},
		{
			desc: "caller without role",
			ctx:  identity.NewContext(context.Background(), admin),
			role: identity.RoleTrainer,
			err:  errors.ErrAccessDenied,
		},
		{
			desc: "attribute explicitly false",
			ctx: identity.NewContext(context.Background(), identity.Claims{
				ID:         "x509::CN=eve",
				Attributes: map[string]bool{identity.RoleTrainer: false},
			}),
			role: identity.RoleTrainer,
			err:  errors.ErrAccessDenied,
		},
		{
			desc: "no identity in context",
			ctx:  context.Background(),
			role: identity.RoleFLAdmin,
			err:  errors.ErrAccessDenied,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			c, err := identity.RequireRole(tc.ctx, tc.role)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, "x509::CN=admin", c.ID)
		})
	}
}

func TestRolePrecedence(t *testing.T) {
	t.Parallel()

	both := identity.Claims{Attributes: map[string]bool{
		identity.RoleLeadAggregator: true,
		identity.RoleTrainer:        true,
	}}
	assert.Equal(t, identity.RoleLeadAggregator, both.Role())

	trainer := identity.Claims{Attributes: map[string]bool{identity.RoleTrainer: true}}
	assert.Equal(t, identity.RoleTrainer, trainer.Role())

	assert.Equal(t, "unknown", identity.Claims{}.Role())
}
