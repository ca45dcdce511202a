package abx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderIntHex(t *testing.T) {
	require.Equal(t, "-1", renderIntHex(-1))
	require.Equal(t, "80000000", renderIntHex(-2147483648))
	require.Equal(t, "2a", renderIntHex(42))
}

func TestRenderLongHex(t *testing.T) {
	require.Equal(t, "-1", renderLongHex(-1))
	require.Equal(t, "2a", renderLongHex(42))
}

func TestRenderFloatIntegralGetsTrailingZero(t *testing.T) {
	require.Equal(t, "1.0", renderFloat(1))
	require.Equal(t, "-3.0", renderFloat(-3))
}

func TestRenderFloatNonIntegral(t *testing.T) {
	require.Equal(t, "3.5", renderFloat(3.5))
}

func TestRenderBytesHexAndBase64(t *testing.T) {
	b := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	require.Equal(t, "deadbeef", renderBytesHex(b))
	require.Equal(t, "3q2+7w==", renderBytesBase64(b))
}
