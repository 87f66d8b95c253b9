package mpprecord

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/tlv"
)

const (
	// PaymentDataType is the type of the payment data record, the same
	// type the onion payload uses for its MPP fields.
	PaymentDataType uint64 = 8

	// SecretSize is the size of the payment secret in bytes.
	SecretSize = 32

	// PaymentDataLength is the length of the record value: the payment
	// secret followed by the 8 byte total amount.
	PaymentDataLength uint64 = SecretSize + 8

	// PaymentDataSize is the size of the full encoded record including
	// the fixed width type and length fields.
	PaymentDataSize = 8 + 8 + SecretSize + 8
)

var (
	// ErrSecretLength is returned when the payment secret is not exactly
	// SecretSize bytes long.
	ErrSecretLength = errors.New("payment secret must be 32 bytes")

	// ErrUnknownRecord is returned when decoding a record whose type or
	// length doesn't match the payment data record.
	ErrUnknownRecord = errors.New("not a payment data record")
)

// PaymentData is the record attached to the final hop of every path of a
// multi-path payment. It tells the recipient which payment the partial HTLC
// belongs to and how much it should wait for in total.
type PaymentData struct {
	// PaymentSecret is the secret taken from the invoice.
	PaymentSecret [SecretSize]byte

	// TotalMsat is the full amount of the payment summed over all paths.
	TotalMsat lnwire.MilliSatoshi
}

// NewPaymentData creates a payment data record. An error is returned if the
// secret isn't exactly 32 bytes.
func NewPaymentData(secret []byte, total lnwire.MilliSatoshi) (*PaymentData,
	error) {

	if len(secret) != SecretSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrSecretLength,
			len(secret))
	}

	p := &PaymentData{TotalMsat: total}
	copy(p.PaymentSecret[:], secret)

	return p, nil
}

// Encode writes the fixed layout of the record to w: an 8 byte big-endian
// type, an 8 byte big-endian length, the secret and an 8 byte big-endian
// total.
func (p *PaymentData) Encode(w io.Writer) error {
	var buf [8]byte

	if err := tlv.EUint64T(w, PaymentDataType, &buf); err != nil {
		return err
	}
	if err := tlv.EUint64T(w, PaymentDataLength, &buf); err != nil {
		return err
	}
	if err := tlv.EBytes32(w, &p.PaymentSecret, &buf); err != nil {
		return err
	}

	return tlv.EUint64T(w, uint64(p.TotalMsat), &buf)
}

// Decode reads a record in the fixed layout from r.
func (p *PaymentData) Decode(r io.Reader) error {
	var (
		buf       [8]byte
		typ, size uint64
		total     uint64
	)

	if err := tlv.DUint64(r, &typ, &buf, 8); err != nil {
		return err
	}
	if err := tlv.DUint64(r, &size, &buf, 8); err != nil {
		return err
	}
	if typ != PaymentDataType || size != PaymentDataLength {
		return fmt.Errorf("%w: type=%d, length=%d", ErrUnknownRecord,
			typ, size)
	}

	err := tlv.DBytes32(r, &p.PaymentSecret, &buf, SecretSize)
	if err != nil {
		return err
	}
	if err := tlv.DUint64(r, &total, &buf, 8); err != nil {
		return err
	}
	p.TotalMsat = lnwire.MilliSatoshi(total)

	return nil
}

// Hex returns the encoded record as a lowercase hex string.
func (p *PaymentData) Hex() string {
	var b bytes.Buffer

	// Writing into a bytes.Buffer can't fail.
	_ = p.Encode(&b)

	return hex.EncodeToString(b.Bytes())
}

// String returns a human-readable representation of the record.
func (p *PaymentData) String() string {
	if p == nil {
		return "<nil>"
	}

	return fmt.Sprintf("total=%v, secret=%x", p.TotalMsat,
		p.PaymentSecret)
}

// EncodePaymentData builds the payment data record for the given secret and
// total amount and returns it as a 112 character lowercase hex string.
func EncodePaymentData(secret []byte, total lnwire.MilliSatoshi) (string,
	error) {

	p, err := NewPaymentData(secret, total)
	if err != nil {
		return "", err
	}

	return p.Hex(), nil
}

// DecodePaymentData parses a hex string produced by EncodePaymentData.
func DecodePaymentData(s string) (*PaymentData, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}

	if len(raw) != PaymentDataSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrUnknownRecord, PaymentDataSize, len(raw))
	}

	p := &PaymentData{}
	if err := p.Decode(bytes.NewReader(raw)); err != nil {
		return nil, err
	}

	return p, nil
}
