package mpprecord

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	testSecret, _ = hex.DecodeString(
		"b3c3965128b05c96d76348158f8f3a1b92e2847172f9adebb400a9e83e62f066",
	)

	testTotal = lnwire.MilliSatoshi(200_000_000)
)

// TestEncodePaymentData asserts the fixed layout of the record.
func TestEncodePaymentData(t *testing.T) {
	t.Parallel()

	encoded, err := EncodePaymentData(testSecret, testTotal)
	require.NoError(t, err)

	expected := "0000000000000008" + "0000000000000028" +
		"b3c3965128b05c96d76348158f8f3a1b92e2847172f9adebb400a9e83e62f066" +
		"000000000bebc200"
	require.Equal(t, expected, encoded)
	require.Len(t, encoded, 2*PaymentDataSize)
	require.Equal(t, strings.ToLower(encoded), encoded)
}

// TestEncodePaymentDataSecretLength asserts that only 32 byte secrets are
// accepted.
func TestEncodePaymentDataSecretLength(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := EncodePaymentData(make([]byte, size), testTotal)
		require.ErrorIs(t, err, ErrSecretLength)
	}
}

// TestDecodePaymentData asserts that malformed records are rejected.
func TestDecodePaymentData(t *testing.T) {
	t.Parallel()

	valid, err := EncodePaymentData(testSecret, testTotal)
	require.NoError(t, err)

	tests := []struct {
		name    string
		encoded string
		err     error
	}{
		{
			name:    "wrong type",
			encoded: "0000000000000009" + valid[16:],
			err:     ErrUnknownRecord,
		},
		{
			name: "wrong length",
			encoded: valid[:16] + "0000000000000029" +
				valid[32:],
			err: ErrUnknownRecord,
		},
		{
			name:    "truncated",
			encoded: valid[:len(valid)-2],
			err:     ErrUnknownRecord,
		},
		{
			name:    "trailing data",
			encoded: valid + "00",
			err:     ErrUnknownRecord,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodePaymentData(test.encoded)
			require.ErrorIs(t, err, test.err)
		})
	}

	_, err = DecodePaymentData("zz")
	require.Error(t, err)
}

// TestPaymentDataRoundTrip asserts that decoding an encoded record recovers
// the secret and total.
func TestPaymentDataRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		secret := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(
			t, "secret",
		)
		total := lnwire.MilliSatoshi(rapid.Uint64().Draw(t, "total"))

		encoded, err := EncodePaymentData(secret, total)
		require.NoError(t, err)

		p, err := DecodePaymentData(encoded)
		require.NoError(t, err)
		require.Equal(t, secret, p.PaymentSecret[:])
		require.Equal(t, total, p.TotalMsat)
	})
}

// TestPaymentDataWriterError asserts that write errors are surfaced.
func TestPaymentDataWriterError(t *testing.T) {
	t.Parallel()

	p, err := NewPaymentData(testSecret, testTotal)
	require.NoError(t, err)

	errWrite := errors.New("write failed")
	require.ErrorIs(t, p.Encode(&failingWriter{err: errWrite}), errWrite)

	var b bytes.Buffer
	require.NoError(t, p.Encode(&b))
	require.Equal(t, PaymentDataSize, b.Len())
}

type failingWriter struct {
	err error
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}
