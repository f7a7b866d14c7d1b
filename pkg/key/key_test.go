package key_test

import (
	"strings"
	"testing"

	"github.com/absmach/fedledger/pkg/key"
	"github.com/stretchr/testify/assert"
)

func TestEncodeEquality(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc  string
		a     string
		b     string
		equal bool
	}{
		{
			desc:  "same namespace and segments",
			a:     key.Encode("ns", "m1", "0"),
			b:     key.Encode("ns", "m1", "0"),
			equal: true,
		},
		{
			desc:  "different namespace",
			a:     key.Encode("ns", "m1"),
			b:     key.Encode("other", "m1"),
			equal: false,
		},
		{
			desc:  "different segment",
			a:     key.Encode("ns", "m1"),
			b:     key.Encode("ns", "m2"),
			equal: false,
		},
		{
			desc:  "segment split differs",
			a:     key.Encode("ns", "m1", "0"),
			b:     key.Encode("ns", "m10"),
			equal: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.equal, tc.a == tc.b)
		})
	}
}

func TestPrefixMatchesSubtreeOnly(t *testing.T) {
	t.Parallel()

	prefix := key.ClientUpdatePrefix("mnist", 3)

	assert.True(t, strings.HasPrefix(key.ClientUpdate("mnist", 3, "alice"), prefix))
	assert.True(t, strings.HasPrefix(key.ClientUpdate("mnist", 3, "bob"), prefix))

	// Neighbouring rounds and models must not share the prefix.
	assert.False(t, strings.HasPrefix(key.ClientUpdate("mnist", 30, "alice"), prefix))
	assert.False(t, strings.HasPrefix(key.ClientUpdate("mnist", 4, "alice"), prefix))
	assert.False(t, strings.HasPrefix(key.ClientUpdate("mnist2", 3, "alice"), prefix))
	assert.False(t, strings.HasPrefix(key.EndRoundModel("mnist", 3), prefix))
}

func TestNamespacesDisjoint(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, key.ModelMetadata("m1"), key.RoundSelection("m1"))
	assert.NotEqual(t, key.EndRoundModel("m1", 0), key.ClientUpdatePrefix("m1", 0))
}
