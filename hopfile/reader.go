package hopfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lightninglabs/htlcplan/planner"
	"github.com/lightningnetwork/lnd/lnwire"
)

// InputHeader is the header row of a hop file.
var InputHeader = []string{
	"path_id", "channel_name", "cltv_delta", "base_fee_msat",
	"proportional_fee_ppm",
}

// ErrBadHeader is returned when the first row of a hop file doesn't name the
// expected columns.
var ErrBadHeader = errors.New("unexpected hop file header")

// RowError describes a row of the hop file that couldn't be parsed.
type RowError struct {
	// Line is the line number of the offending field, starting at one.
	Line int

	// Column is the name of the offending column.
	Column string

	// Err is the underlying parse error.
	Err error
}

// Error returns a human readable description of the error.
func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadHops parses the hops of a CSV hop file. The columns are identified by
// the header row, so their order doesn't matter.
func ReadHops(r io.Reader) ([]*planner.Hop, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var hops []*planner.Hop
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		// Quoted fields may span several lines.
		fieldLine := func(field int) int {
			line, _ := reader.FieldPos(field)
			return line
		}

		hop, err := parseHop(record, cols, fieldLine)
		if err != nil {
			return nil, err
		}

		log.Tracef("Read hop %v", hop)
		hops = append(hops, hop)
	}

	return hops, nil
}

// ReadHopsFile reads the hops from the CSV file at path.
func ReadHopsFile(path string) ([]*planner.Hop, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hops, err := ReadHops(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	log.Debugf("Read %d hop(s) from %s", len(hops), path)

	return hops, nil
}

// columnIndex maps every expected column name to its position in the header.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	for _, name := range InputHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %s",
				ErrBadHeader, name)
		}
	}

	return cols, nil
}

// parseHop converts a single row into a hop.
func parseHop(record []string, cols map[string]int,
	fieldLine func(int) int) (*planner.Hop, error) {

	parseUint := func(column string, bitSize int) (uint64, error) {
		field := strings.TrimSpace(record[cols[column]])
		v, err := strconv.ParseUint(field, 10, bitSize)
		if err != nil {
			return 0, &RowError{
				Line:   fieldLine(cols[column]),
				Column: column,
				Err:    err,
			}
		}

		return v, nil
	}

	pathID, err := parseUint("path_id", 32)
	if err != nil {
		return nil, err
	}
	cltvDelta, err := parseUint("cltv_delta", 32)
	if err != nil {
		return nil, err
	}
	baseFee, err := parseUint("base_fee_msat", 64)
	if err != nil {
		return nil, err
	}
	feeRate, err := parseUint("proportional_fee_ppm", 64)
	if err != nil {
		return nil, err
	}

	return &planner.Hop{
		PathID:                    uint32(pathID),
		ChannelName:               record[cols["channel_name"]],
		TimeLockDelta:             uint32(cltvDelta),
		FeeBaseMSat:               lnwire.MilliSatoshi(baseFee),
		FeeProportionalMillionths: feeRate,
	}, nil
}
