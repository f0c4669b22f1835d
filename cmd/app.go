package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/juststeveking/pingscope/internal/config"
	"github.com/juststeveking/pingscope/internal/logging"
	"github.com/juststeveking/pingscope/internal/monitor"
	"github.com/juststeveking/pingscope/internal/notify"
)

// sinkBuffer is the per-channel buffer between the probe loop and its consumer
const sinkBuffer = 256

var (
	logOutput string
	logLevel  string
)

// app wires the prober to its sink, logger and notifier
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	sink     *monitor.ChannelSink
	prober   *monitor.Prober
	notifier *notify.Notifier
}

func newApp(cfg *config.Config, defaultOutput string) (*app, error) {
	logger, err := newLogger(cfg, defaultOutput)
	if err != nil {
		return nil, err
	}

	sink := monitor.NewChannelSink(sinkBuffer)
	pcfg := cfg.ProberConfig()
	pinger := monitor.NewICMPPinger(pcfg.Timeout, cfg.Privileged)

	prober := monitor.NewProber(pcfg, pinger, sink, monitor.WithLogger(logger.Logger))

	return &app{
		cfg:      cfg,
		logger:   logger,
		sink:     sink,
		prober:   prober,
		notifier: notify.NewNotifier(cfg.NotificationsEnabled()),
	}, nil
}

// Close stops a running probe, waits for its last tick and closes the log
func (a *app) Close() error {
	if a.prober.Running() {
		_ = a.prober.Stop()
	}
	a.prober.Wait()

	return a.logger.Close()
}

func newLogger(cfg *config.Config, defaultOutput string) (*logging.Logger, error) {
	output := defaultOutput
	if logOutput != "" {
		output = logOutput
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}

	file := cfg.Log.File
	if file == "" {
		dir, err := config.GetConfigDir()
		if err != nil {
			return nil, err
		}
		file = filepath.Join(dir, "pingscope.log")
	}

	logger, err := logging.New(logging.Config{
		Output:   output,
		Level:    level,
		File:     config.ResolveEnv(file),
		MaxMB:    cfg.Log.MaxMB,
		MaxFiles: cfg.Log.MaxFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	return logger, nil
}

// loadConfig loads the config file. A missing file is created when create
// is set, otherwise defaults are used.
func loadConfig(create bool) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load config: %w (run 'pingscope init' to create one)", err)
	}

	if !create {
		return config.Default(), nil
	}

	fmt.Println("Config not found, creating default config...")
	if initErr := config.InitConfig(false); initErr != nil {
		return nil, fmt.Errorf("failed to create default config: %w", initErr)
	}

	cfg, err = config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config after creation: %w", err)
	}

	return cfg, nil
}
