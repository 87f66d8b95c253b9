package htlcplan

import (
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/lightninglabs/htlcplan/build"
	"github.com/lightninglabs/htlcplan/hopfile"
	"github.com/lightninglabs/htlcplan/payreq"
	"github.com/lightninglabs/htlcplan/planner"
)

// Loggers per subsystem. A single backend logger is created and all subsystem
// loggers created from it will write to the backend. When adding new
// subsystems, add the subsystem logger here and hand it to its package in
// init.
var (
	logWriter = &build.LogWriter{}

	// logMgr creates and tracks the subsystem loggers so their levels can
	// be set from the debuglevel option.
	logMgr = build.NewSubLoggerManager(logWriter)

	// logRotator is one of the logging outputs. It should be closed on
	// application shutdown.
	logRotator = build.NewRotatingLogWriter()

	hplnLog = build.NewSubLogger("HPLN", logMgr.GenSubLogger)
)

// Initialize package-global logger variables.
func init() {
	planner.UseLogger(build.NewSubLogger("PLNR", logMgr.GenSubLogger))
	hopfile.UseLogger(build.NewSubLogger("HPFL", logMgr.GenSubLogger))
	payreq.UseLogger(build.NewSubLogger("PREQ", logMgr.GenSubLogger))
}

// setupLogging starts the rotating log file, unless disabled, and applies
// the configured debug levels. The returned function flushes and closes the
// log file.
func setupLogging(cfg *Config) (func(), error) {
	cleanup := func() {}

	if !cfg.LogFile.Disable {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		err := logRotator.InitLogRotator(cfg.LogFile, logFile)
		if err != nil {
			return nil, err
		}
		logWriter.RotatorPipe = logRotator

		cleanup = func() {
			logWriter.RotatorPipe = nil
			_ = logRotator.Close()
		}
	}

	err := build.ParseAndSetDebugLevels(cfg.DebugLevel, logMgr)
	if err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}

// SubLoggers returns the loggers of all subsystems, keyed by name.
func SubLoggers() map[string]btclog.Logger {
	return logMgr.SubLoggers()
}
