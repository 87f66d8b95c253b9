package htlcplan

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
	"github.com/lightninglabs/htlcplan/build"
	"github.com/lightninglabs/htlcplan/mpprecord"
	"github.com/lightninglabs/htlcplan/payreq"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

const (
	defaultConfigFilename = "htlcplan.conf"
	defaultLogFilename    = "htlcplan.log"
	defaultLogDirname     = "logs"
	defaultLogLevel       = "info"
	defaultNetwork        = "mainnet"
	defaultOutputDir      = "."
	defaultWorkers        = 1

	// maxWorkers bounds the number of paths propagated concurrently.
	maxWorkers = 64
)

var (
	// DefaultPlanDir is the default directory for the config and log
	// files.
	DefaultPlanDir = btcutil.AppDataDir("htlcplan", false)

	// DefaultConfigFile is the default full path of the config file.
	DefaultConfigFile = filepath.Join(DefaultPlanDir, defaultConfigFilename)

	defaultLogDir = filepath.Join(DefaultPlanDir, defaultLogDirname)
)

// Config defines the configuration options for htlcplan.
//
//nolint:lll
type Config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	PlanDir     string `long:"plandir" description:"The base directory that contains the config and log files"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`

	HopsFile  string `long:"hops" description:"CSV file listing the hops of every path"`
	OutputDir string `long:"outputdir" description:"Directory output.csv is written to"`
	PayReq    string `long:"payreq" description:"BOLT 11 payment request to pay"`
	Height    uint32 `long:"height" description:"Current block height expiries are computed from"`
	Network   string `long:"network" description:"Network the payment request is for" choice:"mainnet" choice:"testnet" choice:"regtest" choice:"simnet" choice:"signet"`

	Amt            uint64 `long:"amt" description:"Amount in msat to deliver, overrides the amount of the payment request"`
	FinalCLTVDelta uint32 `long:"finalcltvdelta" description:"Final CLTV delta, overrides the one of the payment request"`
	PaymentAddr    string `long:"paymentaddr" description:"Hex encoded 32 byte payment secret, overrides the one of the payment request"`

	TLVFormat string `long:"tlvformat" description:"Encoding of the multi-path record attached to the final hop" choice:"fixed" choice:"onion"`
	Workers   int    `long:"workers" description:"Number of paths to compute concurrently"`

	DebugLevel string                  `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogDir     string                  `long:"logdir" description:"Directory to log output."`
	LogFile    *build.FileLoggerConfig `group:"logfile" namespace:"logfile"`

	// finalCLTVDeltaSet records whether the final CLTV delta override was
	// given in the config file or on the command line, as zero is a valid
	// override.
	finalCLTVDeltaSet bool

	// heightSet records whether a block height was given in the config
	// file or on the command line, as zero is a valid height.
	heightSet bool
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	return Config{
		PlanDir:    DefaultPlanDir,
		ConfigFile: DefaultConfigFile,
		OutputDir:  defaultOutputDir,
		Network:    defaultNetwork,
		TLVFormat:  string(mpprecord.FormatFixed),
		Workers:    defaultWorkers,
		DebugLevel: defaultLogLevel,
		LogDir:     defaultLogDir,
		LogFile:    build.DefaultFileLoggerConfig(),
	}
}

// LoadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// Instead of the flags, the four positional arguments
// <output_dir> <input_csv> <payment_request> <current_block_height> may be
// given.
func LoadConfig(args []string) (*Config, error) {
	// Pre-parse the command line options to pick up an alternative config
	// file.
	preCfg := DefaultConfig()
	if _, err := flags.ParseArgs(&preCfg, args); err != nil {
		return nil, err
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", build.Version(),
			"commit="+build.Commit)
		os.Exit(0)
	}

	// If the config file path has not been modified by the user, then
	// we'll use the default config file path. However, if the user has
	// modified their plan dir, then we should assume they intend to use
	// the config file within it.
	configFileDir := CleanAndExpandPath(preCfg.PlanDir)
	configFilePath := CleanAndExpandPath(preCfg.ConfigFile)
	if configFileDir != DefaultPlanDir {
		if configFilePath == DefaultConfigFile {
			configFilePath = filepath.Join(
				configFileDir, defaultConfigFilename,
			)
		}
	}

	// Next, load any additional configuration options from the file.
	var configFileError error
	cfg := preCfg
	cfg.LogFile = copyFileLoggerConfig(preCfg.LogFile)
	fileParser := flags.NewParser(&cfg, flags.Default)
	err := flags.NewIniParser(fileParser).ParseFile(configFilePath)
	if err != nil {
		// If it's a parsing related error, then we'll return
		// immediately, otherwise we can proceed as possibly the config
		// file doesn't exist which is OK.
		if _, ok := err.(*flags.IniError); ok {
			return nil, err
		}

		configFileError = err
	}

	// Finally, parse the remaining command line options again to ensure
	// they take precedence.
	parser := flags.NewParser(&cfg, flags.Default)
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	// Options that have a meaningful zero value are tracked separately,
	// whether they were set in the config file or on the command line.
	cfg.finalCLTVDeltaSet = isOptionSet(
		"finalcltvdelta", fileParser, parser,
	)
	cfg.heightSet = isOptionSet("height", fileParser, parser)

	if err := applyPositionalArgs(&cfg, remaining); err != nil {
		return nil, fmt.Errorf("%w\n%v", err, usageMessage)
	}

	// Make sure everything we just loaded makes sense.
	cleanCfg, err := ValidateConfig(cfg, usageMessage)
	if err != nil {
		return nil, err
	}

	// Warn about missing config file only after all other configuration is
	// done.  This prevents the warning on help messages and invalid
	// options.  Note this should go directly before the return.
	if configFileError != nil && !os.IsNotExist(configFileError) {
		hplnLog.Warnf("%v", configFileError)
	}

	return cleanCfg, nil
}

// isOptionSet returns true if any of the parsers set the option with the
// given long name.
func isOptionSet(longName string, parsers ...*flags.Parser) bool {
	for _, parser := range parsers {
		opt := parser.FindOptionByLongName(longName)
		if opt != nil && opt.IsSet() {
			return true
		}
	}

	return false
}

// applyPositionalArgs fills the config from the positional form of the
// command line.
func applyPositionalArgs(cfg *Config, args []string) error {
	switch len(args) {
	case 0:
		return nil

	case 4:

	default:
		return fmt.Errorf("expected 4 positional arguments "+
			"<output_dir> <input_csv> <payment_request> "+
			"<current_block_height>, got %d", len(args))
	}

	height, err := strconv.ParseUint(args[3], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid block height %q: %w", args[3], err)
	}

	cfg.OutputDir = args[0]
	cfg.HopsFile = args[1]
	cfg.PayReq = args[2]
	cfg.Height = uint32(height)
	cfg.heightSet = true

	return nil
}

// ValidateConfig check the given configuration to be sane. This makes sure no
// illegal values or combination of values are set. All file system paths are
// normalized. The cleaned up config is returned on success.
func ValidateConfig(cfg Config, usageMessage string) (*Config, error) {
	// If the provided plan directory is not the default, we'll move the
	// log directory into it unless it was set explicitly.
	planDir := CleanAndExpandPath(cfg.PlanDir)
	if planDir != DefaultPlanDir && cfg.LogDir == defaultLogDir {
		cfg.LogDir = filepath.Join(planDir, defaultLogDirname)
	}

	cfg.PlanDir = planDir
	cfg.LogDir = CleanAndExpandPath(cfg.LogDir)
	cfg.HopsFile = CleanAndExpandPath(cfg.HopsFile)
	cfg.OutputDir = CleanAndExpandPath(cfg.OutputDir)

	mkErr := func(format string, args ...interface{}) error {
		return fmt.Errorf("%v\n%v", fmt.Sprintf(format, args...),
			usageMessage)
	}

	if cfg.HopsFile == "" {
		return nil, mkErr("a hop file must be given with --hops")
	}
	if !cfg.heightSet && cfg.Height == 0 {
		return nil, mkErr("the current block height must be given " +
			"with --height")
	}
	if cfg.PayReq == "" && cfg.Amt == 0 {
		return nil, mkErr("either --payreq or --amt must be given")
	}

	if _, err := payreq.NetParams(cfg.Network); err != nil {
		return nil, mkErr("%v", err)
	}

	if cfg.PaymentAddr != "" {
		secret, err := payreq.ParseSecret(cfg.PaymentAddr)
		if err != nil {
			return nil, mkErr("%v", err)
		}
		if len(secret) != mpprecord.SecretSize {
			return nil, mkErr("payment secret must be %d bytes, "+
				"got %d", mpprecord.SecretSize, len(secret))
		}
	}

	if _, err := mpprecord.EncoderForFormat(
		mpprecord.Format(cfg.TLVFormat),
	); err != nil {
		return nil, mkErr("%v", err)
	}

	if cfg.Workers < 1 || cfg.Workers > maxWorkers {
		return nil, mkErr("workers must be between 1 and %d",
			maxWorkers)
	}

	if err := cfg.LogFile.Validate(); err != nil {
		return nil, mkErr("%v", err)
	}

	return &cfg, nil
}

// Overrides returns the payment request overrides given on the command line.
func (c *Config) Overrides() (payreq.Overrides, error) {
	overrides := payreq.Overrides{
		Amount:            fn.None[lnwire.MilliSatoshi](),
		MinFinalCLTVDelta: fn.None[uint32](),
		PaymentSecret:     fn.None[[]byte](),
	}

	if c.Amt != 0 {
		overrides.Amount = fn.Some(lnwire.MilliSatoshi(c.Amt))
	}
	if c.finalCLTVDeltaSet || c.FinalCLTVDelta != 0 {
		overrides.MinFinalCLTVDelta = fn.Some(c.FinalCLTVDelta)
	}
	if c.PaymentAddr != "" {
		secret, err := payreq.ParseSecret(c.PaymentAddr)
		if err != nil {
			return overrides, err
		}
		overrides.PaymentSecret = fn.Some(secret)
	}

	return overrides, nil
}

// copyFileLoggerConfig returns a copy of the log file options, so parsing the
// config file a second time doesn't modify the pre-parsed defaults.
func copyFileLoggerConfig(c *build.FileLoggerConfig) *build.FileLoggerConfig {
	cpy := *c
	return &cpy
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
