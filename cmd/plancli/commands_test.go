package main

import (
	"math"
	"strconv"
	"testing"

	"github.com/lightninglabs/htlcplan/planner"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/stretchr/testify/require"
)

// TestNewFeeResponse asserts the fee and incoming amount reported for a
// single hop, and that amounts that don't fit into 64 bits are rejected.
func TestNewFeeResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amt      lnwire.MilliSatoshi
		base     lnwire.MilliSatoshi
		ppm      uint64
		expected *feeResponse
		overflow bool
	}{
		{
			name: "base and proportional fee",
			amt:  200_000_000,
			base: 1000,
			ppm:  100,
			expected: &feeResponse{
				AmtToForward: 200_000_000,
				Fee:          21_000,
				IncomingAmt:  200_021_000,
			},
		},
		{
			name: "no fee",
			amt:  math.MaxUint64,
			expected: &feeResponse{
				AmtToForward: math.MaxUint64,
				IncomingAmt:  math.MaxUint64,
			},
		},
		{
			name:     "incoming amount overflows",
			amt:      math.MaxUint64,
			base:     1,
			overflow: true,
		},
		{
			name:     "fee overflows",
			amt:      math.MaxUint64,
			ppm:      2_000_000,
			overflow: true,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			resp, err := newFeeResponse(test.amt, test.base, test.ppm)
			if test.overflow {
				require.True(t, planner.IsError(
					err, planner.ErrArithmeticOverflow,
				))
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.expected, resp)
		})
	}
}

// TestFeeCommand runs the fee command through the app and asserts that an
// overflowing incoming amount is reported as an error.
func TestFeeCommand(t *testing.T) {
	t.Parallel()

	maxAmt := strconv.FormatUint(math.MaxUint64, 10)

	err := newApp().Run([]string{
		"plancli", "fee", "--amt", maxAmt, "--base", "1",
	})
	require.True(t, planner.IsError(err, planner.ErrArithmeticOverflow))

	err = newApp().Run([]string{"plancli", "fee", "--base", "1"})
	require.ErrorContains(t, err, "amt argument missing")

	err = newApp().Run([]string{
		"plancli", "fee", "--amt", "200000000", "--base", "1000",
		"--ppm", "100",
	})
	require.NoError(t, err)
}

// TestDecodeTLVCommand asserts that the decodetlv command rejects missing
// and malformed records.
func TestDecodeTLVCommand(t *testing.T) {
	t.Parallel()

	err := newApp().Run([]string{"plancli", "decodetlv"})
	require.ErrorContains(t, err, "tlv argument missing")

	err = newApp().Run([]string{"plancli", "decodetlv", "zz"})
	require.Error(t, err)
}
