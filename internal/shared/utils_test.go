package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	s, err := MakeRandHexString(16)
	require.NoError(t, err)
	require.Len(t, s, 32)

	s2, err := MakeRandHexString(16)
	require.NoError(t, err)
	require.NotEqual(t, s, s2)
}

func TestGenerateRandByteArray(t *testing.T) {
	b := GenerateRandByteArray(32)
	require.Len(t, b, 32)
	require.NotEqual(t, make([]byte, 32), b)
}

func TestWipeByteArray(t *testing.T) {
	b := []byte("sensitive")
	WipeByteArray(b)
	require.Equal(t, make([]byte, 9), b)

	// nil must not panic
	WipeByteArray(nil)
}
