package mpprecord

import (
	"testing"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestEncodeOnion asserts the onion encoding of the record.
func TestEncodeOnion(t *testing.T) {
	t.Parallel()

	encoded, err := EncodeOnion(testSecret, testTotal)
	require.NoError(t, err)

	// Type 8, length 36: the secret followed by the total truncated to
	// its four significant bytes.
	expected := "08" + "24" +
		"b3c3965128b05c96d76348158f8f3a1b92e2847172f9adebb400a9e83e62f066" +
		"0bebc200"
	require.Equal(t, expected, encoded)

	_, err = EncodeOnion(testSecret[:4], testTotal)
	require.ErrorIs(t, err, ErrSecretLength)
}

// TestDecode asserts that both formats are recognized.
func TestDecode(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatFixed, FormatOnion} {
		encode, err := EncoderForFormat(format)
		require.NoError(t, err)

		encoded, err := encode(testSecret, testTotal)
		require.NoError(t, err)

		p, decodedFormat, err := Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, format, decodedFormat)
		require.Equal(t, testSecret, p.PaymentSecret[:])
		require.Equal(t, testTotal, p.TotalMsat)
	}

	_, err := EncoderForFormat("bolt12")
	require.Error(t, err)

	_, _, err = Decode("00")
	require.Error(t, err)
}

// TestOnionRoundTrip asserts that the onion encoding round trips for any
// total.
func TestOnionRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		secret := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(
			t, "secret",
		)
		total := lnwire.MilliSatoshi(rapid.Uint64().Draw(t, "total"))

		encoded, err := EncodeOnion(secret, total)
		require.NoError(t, err)

		p, err := DecodeOnion(encoded)
		require.NoError(t, err)
		require.Equal(t, secret, p.PaymentSecret[:])
		require.Equal(t, total, p.TotalMsat)
	})
}
