package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authconstant "github.com/driveshare/auth-service/pkg/constant"
)

func TestGenerateCode(t *testing.T) {
	s := NewOTPService(nil, 4, 10, 3, 60)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := s.generateCode()
		require.NoError(t, err)
		assert.Len(t, code, 4)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(authconstant.OTPAlphabet, r),
				"code %q contains %q outside the alphabet", code, r)
		}
		seen[code] = true
	}
	// 100 draws from a 36^4 space should essentially never all collide.
	assert.Greater(t, len(seen), 1)
}
