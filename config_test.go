package htlcplan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoadConfigFlags asserts that options are read from the command line.
func TestLoadConfigFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := LoadConfig([]string{
		"--plandir=" + dir,
		"--hops=" + filepath.Join(dir, "hops.csv"),
		"--outputdir=" + filepath.Join(dir, "out"),
		"--height=800000",
		"--amt=200000000",
		"--finalcltvdelta=0",
		"--paymentaddr=" + strings.Repeat("ab", 32),
		"--tlvformat=onion",
		"--workers=4",
	})
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "hops.csv"), cfg.HopsFile)
	require.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	require.Equal(t, filepath.Join(dir, defaultLogDirname), cfg.LogDir)
	require.EqualValues(t, 800_000, cfg.Height)
	require.Equal(t, "onion", cfg.TLVFormat)
	require.Equal(t, 4, cfg.Workers)

	overrides, err := cfg.Overrides()
	require.NoError(t, err)
	require.True(t, overrides.Amount.IsSome())
	require.True(t, overrides.PaymentSecret.IsSome())

	// The final delta of zero was set explicitly, so it overrides the
	// invoice.
	require.Equal(
		t, uint32(0), overrides.MinFinalCLTVDelta.UnwrapOr(1000),
	)
}

// TestLoadConfigPositional asserts that the four positional arguments are
// accepted in place of flags.
func TestLoadConfigPositional(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := LoadConfig([]string{
		"--plandir=" + dir,
		filepath.Join(dir, "out"),
		filepath.Join(dir, "hops.csv"),
		"lnbc1dummy",
		"812345",
	})
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	require.Equal(t, filepath.Join(dir, "hops.csv"), cfg.HopsFile)
	require.Equal(t, "lnbc1dummy", cfg.PayReq)
	require.EqualValues(t, 812_345, cfg.Height)

	overrides, err := cfg.Overrides()
	require.NoError(t, err)
	require.True(t, overrides.Amount.IsNone())
	require.True(t, overrides.MinFinalCLTVDelta.IsNone())
	require.True(t, overrides.PaymentSecret.IsNone())
}

// TestLoadConfigFile asserts that options are read from the config file and
// that the command line takes precedence.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	conf := "[Application Options]\n" +
		"hops=" + filepath.Join(dir, "hops.csv") + "\n" +
		"height=100\n" +
		"amt=5000\n" +
		"workers=2\n"
	err := os.WriteFile(
		filepath.Join(dir, defaultConfigFilename), []byte(conf), 0600,
	)
	require.NoError(t, err)

	cfg, err := LoadConfig([]string{"--plandir=" + dir, "--workers=3"})
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "hops.csv"), cfg.HopsFile)
	require.EqualValues(t, 100, cfg.Height)
	require.EqualValues(t, 5000, cfg.Amt)
	require.Equal(t, 3, cfg.Workers)
}

// TestLoadConfigFileZeroValues asserts that a zero height and a zero final
// CLTV delta in the config file count as set.
func TestLoadConfigFileZeroValues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	conf := "[Application Options]\n" +
		"hops=" + filepath.Join(dir, "hops.csv") + "\n" +
		"height=0\n" +
		"finalcltvdelta=0\n" +
		"amt=5000\n"
	err := os.WriteFile(
		filepath.Join(dir, defaultConfigFilename), []byte(conf), 0600,
	)
	require.NoError(t, err)

	cfg, err := LoadConfig([]string{"--plandir=" + dir})
	require.NoError(t, err)
	require.Zero(t, cfg.Height)

	overrides, err := cfg.Overrides()
	require.NoError(t, err)
	require.Equal(
		t, uint32(0), overrides.MinFinalCLTVDelta.UnwrapOr(1000),
	)
}

// TestLoadConfigInvalid asserts that invalid combinations are rejected.
func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := []string{
		"--plandir=" + dir,
		"--hops=" + filepath.Join(dir, "hops.csv"),
		"--height=1",
	}

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "no amount",
			args: base,
		},
		{
			name: "no hops",
			args: []string{"--plandir=" + dir, "--amt=1",
				"--height=1"},
		},
		{
			name: "no height",
			args: []string{"--plandir=" + dir, "--amt=1",
				"--hops=x.csv"},
		},
		{
			name: "short secret",
			args: append(base, "--amt=1", "--paymentaddr=abcd"),
		},
		{
			name: "too many workers",
			args: append(base, "--amt=1", "--workers=1000"),
		},
		{
			name: "unknown format",
			args: append(base, "--amt=1", "--tlvformat=json"),
		},
		{
			name: "wrong positional count",
			args: append(base, "--amt=1", "a", "b"),
		},
		{
			name: "invalid positional height",
			args: []string{"--plandir=" + dir, "--amt=1", "out",
				"hops.csv", "lnbc1", "tall"},
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string(nil), test.args...)
			_, err := LoadConfig(args)
			require.Error(t, err)
		})
	}
}

// TestCleanAndExpandPath asserts home and environment expansion.
func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("HTLCPLAN_TEST_DIR", "/tmp/plan")

	require.Empty(t, CleanAndExpandPath(""))
	require.Equal(
		t, "/tmp/plan/out", CleanAndExpandPath("$HTLCPLAN_TEST_DIR/out/"),
	)
	require.False(t, strings.HasPrefix(CleanAndExpandPath("~/x"), "~"))
}
