package cec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpcode_Known(t *testing.T) {
	require := require.New(t)

	require.True(OpStandby.Known())
	require.True(OpFeatureAbort.Known())
	require.True(OpCdcMessage.Known())
	require.False(Opcode(0x5c).Known())

	require.Equal("Standby", OpStandby.String())
	require.Equal("FeatureAbort", OpFeatureAbort.String())
	require.Equal("unrecognized(0x5c)", Opcode(0x5c).String())
}

func TestStatus_String(t *testing.T) {
	require := require.New(t)

	require.Equal("none", TxStatus(0).String())
	require.Equal("OK", TxOK.String())
	require.Equal("NACK|MAX_RETRIES", (TxNack | TxMaxRetries).String())

	require.Equal("none", RxStatus(0).String())
	require.Equal("OK|FEATURE_ABORT", (RxOK | RxFeatureAbort).String())
}

func TestFeatureAbortError(t *testing.T) {
	require := require.New(t)

	err := &FeatureAbortError{Opcode: OpGiveDevicePowerStatus, Reason: AbortUnrecognized}
	require.Contains(err.Error(), "GiveDevicePowerStatus")
	require.Contains(err.Error(), "unrecognized opcode")
}
