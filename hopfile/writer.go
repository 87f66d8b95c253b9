package hopfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lightninglabs/htlcplan/planner"
)

// OutputFilename is the name of the file written into the output directory.
const OutputFilename = "output.csv"

// OutputHeader is the header row of the output file.
var OutputHeader = []string{
	"path_id", "channel_name", "htlc_amount_msat", "htlc_expiry", "tlv",
}

// WriteHtlcs writes the instructions as CSV rows, in the order given.
func WriteHtlcs(w io.Writer, htlcs []*planner.HtlcInstruction) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(OutputHeader); err != nil {
		return err
	}

	for _, htlc := range htlcs {
		err := writer.Write([]string{
			strconv.FormatUint(uint64(htlc.PathID), 10),
			htlc.ChannelName,
			strconv.FormatUint(uint64(htlc.AmtToForward), 10),
			strconv.FormatUint(uint64(htlc.Expiry), 10),
			htlc.TLV,
		})
		if err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}

// WriteHtlcsFile writes the instructions to output.csv within dir and returns
// the path of the written file.
func WriteHtlcsFile(dir string,
	htlcs []*planner.HtlcInstruction) (string, error) {

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("unable to create output dir: %w", err)
	}

	path := filepath.Join(dir, OutputFilename)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := WriteHtlcs(f, htlcs); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("unable to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return "", err
	}

	log.Debugf("Wrote %d htlc(s) to %s", len(htlcs), path)

	return path, nil
}
