package order

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrackingNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^TRK:[A-Z0-9]{10}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tn := NewTrackingNumber()
		require.Regexp(t, pattern, tn)
		seen[tn] = struct{}{}
	}

	// 100 draws from a 36^10 space colliding would mean a broken generator.
	assert.Greater(t, len(seen), 1)
}

func TestPatchIsEmpty(t *testing.T) {
	status := "pending"

	assert.True(t, (&Patch{}).IsEmpty())
	assert.False(t, (&Patch{Status: &status}).IsEmpty())

	addr := ""
	assert.False(t, (&Patch{ShippingAddress: &addr}).IsEmpty(), "explicit empty string is still a set field")
}
