package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/grandcamel/confluence-skills/internal/cache"
	"github.com/grandcamel/confluence-skills/internal/config"
	"github.com/grandcamel/confluence-skills/internal/confluence"
	"github.com/grandcamel/confluence-skills/internal/logging"
)

// CommandContext holds the resources CLI commands share: configuration, the
// logger, and (for API-backed commands) the REST client and response cache.
type CommandContext struct {
	Config *config.Config
	Logger *logging.Logger
	Client *confluence.Client
	Cache  *cache.Cache
}

// Close flushes the logger and releases the cache handle.
func (c *CommandContext) Close() {
	if c.Cache != nil {
		c.Cache.Close()
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
}

// initLogger creates the command logger. Verbose mode mirrors log output to
// the console; debug mode lowers the level and records caller information.
func initLogger(cfg *config.Config, debug, verbose bool) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Logging.LogDir != "" {
		logCfg.LogDir = cfg.Logging.LogDir
	}
	if cfg.Logging.FileLevel != "" {
		logCfg.FileLevel = logging.LevelFromString(cfg.Logging.FileLevel)
	}
	if debug || cfg.Debug {
		logCfg.FileLevel = logging.LevelFromString("debug")
		logCfg.EnableCaller = true
	}
	logCfg.ConsoleEnabled = verbose

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// newLocalContext loads configuration and the logger for commands that never
// touch the API (convert, validate, skills, cache, config).
func newLocalContext() (*CommandContext, error) {
	cfg, err := config.NewLoader().Load(nil)
	if err != nil {
		return nil, err
	}
	logger, err := initLogger(cfg, debugFlag, verboseFlag)
	if err != nil {
		return nil, err
	}
	return &CommandContext{Config: cfg, Logger: logger}, nil
}

// newCommandContext loads validated configuration and builds the REST client
// for API-backed commands. The response cache is attached when enabled.
func newCommandContext() (*CommandContext, error) {
	cfg, err := config.NewLoader().LoadValidated(nil)
	if err != nil {
		return nil, err
	}
	logger, err := initLogger(cfg, debugFlag, verboseFlag)
	if err != nil {
		return nil, err
	}

	var responseCache *cache.Cache
	if cfg.Cache.Enabled {
		responseCache, err = cache.Open(cfg.Cache.GetPath(), cfg.Cache.GetTTL())
		if err != nil {
			// A broken cache should not block API access.
			logger.Warn("cache unavailable", logging.Error(err))
			responseCache = nil
		}
	}

	return &CommandContext{
		Config: cfg,
		Logger: logger,
		Client: confluence.NewClient(&cfg.Site, logger, responseCache),
		Cache:  responseCache,
	}, nil
}

// readInput returns the content of the first argument as a file, or stdin
// when no argument is given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
