package cec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogAddrsRequest_Validate(t *testing.T) {
	require := require.New(t)

	playback := AddressClaim{PrimaryType: PrimDevPlayback, Type: LogAddrTypePlayback}

	tests := []struct {
		name    string
		req     LogAddrsRequest
		wantErr error
	}{
		{
			name: "single claim",
			req:  LogAddrsRequest{Version: Version2_0, VendorID: VendorIDNone, OSDName: "Player", Claims: []AddressClaim{playback}},
		},
		{
			name: "clear request needs no name",
			req:  LogAddrsRequest{},
		},
		{
			name:    "too many claims",
			req:     LogAddrsRequest{OSDName: "Player", Claims: []AddressClaim{playback, playback, playback, playback, playback}},
			wantErr: ErrTooManyClaims,
		},
		{
			name:    "empty name",
			req:     LogAddrsRequest{Claims: []AddressClaim{playback}},
			wantErr: ErrOSDNameInvalid,
		},
		{
			name:    "name too long",
			req:     LogAddrsRequest{OSDName: strings.Repeat("x", 16), Claims: []AddressClaim{playback}},
			wantErr: ErrOSDNameInvalid,
		},
		{
			name:    "non-ascii name",
			req:     LogAddrsRequest{OSDName: "Pl\xc3\xa4yer", Claims: []AddressClaim{playback}},
			wantErr: ErrOSDNameInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(err, tt.wantErr)
			} else {
				require.NoError(err)
			}
		})
	}
}

func TestLogAddrs_IsConfigured(t *testing.T) {
	require := require.New(t)

	var l LogAddrs
	require.False(l.IsConfigured())
	require.Equal("unconfigured", l.String())

	l = LogAddrs{
		OSDName:   "Player",
		Addresses: []LogicalAddress{Playback1},
		Mask:      Playback1.Mask(),
	}
	require.True(l.IsConfigured())
	require.Contains(l.String(), "Playback1")
}
