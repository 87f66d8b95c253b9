package mpprecord

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/record"
	"github.com/lightningnetwork/lnd/tlv"
)

// Encoder renders the record attached to the final hop of a path.
type Encoder func(secret []byte, total lnwire.MilliSatoshi) (string, error)

// Format names one of the supported record encodings.
type Format string

const (
	// FormatFixed is the fixed width layout produced by
	// EncodePaymentData.
	FormatFixed Format = "fixed"

	// FormatOnion is the BOLT 4 encoding of the same fields, as a single
	// record TLV stream with a varint type and length and a truncated
	// total amount.
	FormatOnion Format = "onion"
)

// EncoderForFormat returns the encoder for the given format name.
func EncoderForFormat(f Format) (Encoder, error) {
	switch f {
	case FormatFixed, "":
		return EncodePaymentData, nil

	case FormatOnion:
		return EncodeOnion, nil

	default:
		return nil, fmt.Errorf("unknown record format: %v", f)
	}
}

// EncodeOnion encodes the payment secret and total as the MPP record of an
// onion payload and returns it hex encoded.
func EncodeOnion(secret []byte, total lnwire.MilliSatoshi) (string, error) {
	p, err := NewPaymentData(secret, total)
	if err != nil {
		return "", err
	}

	mpp := record.NewMPP(p.TotalMsat, p.PaymentSecret)
	stream, err := tlv.NewStream(mpp.Record())
	if err != nil {
		return "", err
	}

	var b bytes.Buffer
	if err := stream.Encode(&b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b.Bytes()), nil
}

// DecodeOnion parses a hex encoded onion MPP record.
func DecodeOnion(s string) (*PaymentData, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}

	mpp := &record.MPP{}
	stream, err := tlv.NewStream(mpp.Record())
	if err != nil {
		return nil, err
	}

	parsed, err := stream.DecodeWithParsedTypes(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if _, ok := parsed[record.MPPOnionType]; !ok {
		return nil, fmt.Errorf("%w: mpp type %d missing",
			ErrUnknownRecord, record.MPPOnionType)
	}

	return &PaymentData{
		PaymentSecret: mpp.PaymentAddr(),
		TotalMsat:     mpp.TotalMsat(),
	}, nil
}

// Decode parses a record in either of the supported formats. The fixed
// layout is tried first since its size is unambiguous.
func Decode(s string) (*PaymentData, Format, error) {
	if len(s) == 2*PaymentDataSize {
		p, err := DecodePaymentData(s)
		if err == nil {
			return p, FormatFixed, nil
		}
	}

	p, err := DecodeOnion(s)
	if err != nil {
		return nil, "", err
	}

	return p, FormatOnion, nil
}
