package main

import (
	"fmt"
	"os"
	"strings"

	arg "github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"

	"github.com/itohio/envnode/pkg/config"
	"github.com/itohio/envnode/pkg/device"
)

var version = "No version provided"

var log = logrus.New()

type Args struct {
	Config   string `arg:"-c, --config" default:"config.yaml" help:"Configuration file path"`
	Port     string `arg:"-p, --port" help:"Serial port override (e.g., COM3 or /dev/ttyACM0)"`
	Mock     bool   `arg:"--mock" help:"Use a simulated node instead of the serial port"`
	Headless bool   `arg:"--headless" help:"Log records instead of opening a window"`
	Snapshot string `arg:"--snapshot" help:"Headless: write the panel to this PNG after every record"`
	LogLevel string `arg:"-l, --log-level" help:"Set the logging level (debug, info, warn, error), overrides config"`
}

func (Args) Version() string {
	return version
}

func (Args) Description() string {
	return "Mirror an environmental sensor node's panel and battery trace"
}

func procArgs() Args {
	var args Args
	arg.MustParse(&args)
	return args
}

// setLogLevel applies level, keeping info for unknown names.
func setLogLevel(level string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("level", level).Warn("Unknown log level, defaulting to info")
		return
	}
	log.SetLevel(lvl)
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load(args.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if args.Port != "" {
		cfg.Serial.Port = args.Port
	}
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	return cfg, nil
}

// newDevice picks the simulated or the serial node.
func newDevice(cfg *config.Config, mock bool) device.Device {
	if mock {
		return device.NewMock(&cfg.Mock)
	}
	return device.New(cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Serial.BufferSize)
}

func main() {
	if err := runMain(); err != nil {
		log.Fatal(err.Error())
	}
}

func runMain() error {
	args := procArgs()

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	setLogLevel(cfg.Log.Level)
	device.SetLogger(log)

	log.Info("Running version: ", version)

	if args.Headless {
		return runHeadless(cfg, newDevice(cfg, args.Mock), args.Snapshot, os.Interrupt)
	}
	runWindow(cfg, args)
	return nil
}
