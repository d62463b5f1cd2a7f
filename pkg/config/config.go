package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/envnode/pkg/node"
)

// Config represents the viewer configuration.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Panel  PanelConfig  `yaml:"panel"`
	Mock   MockConfig   `yaml:"mock"`
	Log    LogConfig    `yaml:"log"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port       string `yaml:"port"`
	BaudRate   int    `yaml:"baud_rate"`
	BufferSize int    `yaml:"buffer_size"` // Records buffered between the reader and the UI
}

// PanelConfig controls how the node panel is mirrored on the host.
type PanelConfig struct {
	Scale         int         `yaml:"scale"` // Integer zoom of the 250x122 panel
	Graph         GraphConfig `yaml:"graph"`
	Chronological bool        `yaml:"chronological"` // Plot the chart oldest first instead of as the node does
}

// GraphConfig places the temperature chart on the panel.
type GraphConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// MockConfig contains simulated node configuration.
type MockConfig struct {
	Interval       time.Duration `yaml:"interval"`        // Wall time between records
	StartMilliV    float32       `yaml:"start_mv"`        // Battery voltage at start (mV)
	EndMilliV      float32       `yaml:"end_mv"`          // Voltage the battery decays towards (mV)
	Tau            time.Duration `yaml:"tau"`             // Discharge time constant, simulated time
	RippleMilliV   float32       `yaml:"ripple_mv"`       // Sinusoidal ripple amplitude (mV)
	RipplePeriod   time.Duration `yaml:"ripple_period"`   // Ripple period, simulated time
	SensorFailures int           `yaml:"sensor_failures"` // Fail every Nth sensor read (0 = never)
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	l := node.DefaultLayout()
	return &Config{
		Serial: SerialConfig{
			Port:       "/dev/ttyACM0", // "COM3" or similar on Windows
			BaudRate:   115200,
			BufferSize: 100,
		},
		Panel: PanelConfig{
			Scale: 3,
			Graph: GraphConfig{
				X:      l.Graph.Min.X,
				Y:      l.Graph.Min.Y,
				Width:  l.Graph.Dx(),
				Height: l.Graph.Dy(),
			},
		},
		Mock: MockConfig{
			Interval:     time.Second,
			StartMilliV:  4150,
			EndMilliV:    3300,
			Tau:          6 * time.Hour,
			RippleMilliV: 15,
			RipplePeriod: 10 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Layout returns the default panel layout with the configured chart area.
func (p PanelConfig) Layout() node.Layout {
	l := node.DefaultLayout()
	l.Graph.Min.X = p.Graph.X
	l.Graph.Min.Y = p.Graph.Y
	l.Graph.Max.X = p.Graph.X + p.Graph.Width
	l.Graph.Max.Y = p.Graph.Y + p.Graph.Height
	l.Chronological = p.Chronological
	return l
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults fills zero or invalid fields from Default.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate <= 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.BufferSize <= 0 {
		c.Serial.BufferSize = def.Serial.BufferSize
	}

	if c.Panel.Scale <= 0 {
		c.Panel.Scale = def.Panel.Scale
	}
	if c.Panel.Graph.Width < 3 || c.Panel.Graph.Height < 5 {
		c.Panel.Graph = def.Panel.Graph
	}

	if c.Mock.Interval <= 0 {
		c.Mock.Interval = def.Mock.Interval
	}
	if c.Mock.StartMilliV == 0 {
		c.Mock.StartMilliV = def.Mock.StartMilliV
	}
	if c.Mock.EndMilliV == 0 {
		c.Mock.EndMilliV = def.Mock.EndMilliV
	}
	if c.Mock.Tau <= 0 {
		c.Mock.Tau = def.Mock.Tau
	}
	if c.Mock.RipplePeriod <= 0 {
		c.Mock.RipplePeriod = def.Mock.RipplePeriod
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
