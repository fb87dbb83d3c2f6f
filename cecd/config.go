// Package cecd is the bridge daemon library: it exposes a CEC adapter
// over a REST API and an MQTT broker, so home automation stacks can
// drive the bus without touching /dev/cecN themselves.
package cecd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/opencec/go-cec/cec"
)

// Config is the daemon configuration, loaded from a TOML file.
type Config struct {
	Adapter AdapterConfig `toml:"adapter"`
	HTTP    HTTPConfig    `toml:"http"`
	MQTT    MQTTConfig    `toml:"mqtt"`
	Log     LogConfig     `toml:"log"`
}

type AdapterConfig struct {
	// Device is the adapter node path, e.g. /dev/cec0.
	Device string `toml:"device"`

	// OSDName is the display name announced on the bus.
	OSDName string `toml:"osd_name"`

	// DeviceType selects the logical address role to claim: playback,
	// record, tuner, audiosystem, or switch.
	DeviceType string `toml:"device_type"`

	// PhysAddr optionally overrides the physical address in a.b.c.d
	// notation; empty leaves the EDID-provided address in place.
	PhysAddr string `toml:"phys_addr"`

	// NonBlocking opens the adapter handle in non-blocking mode.
	NonBlocking bool `toml:"non_blocking"`
}

type HTTPConfig struct {
	// Addr is the listen address, e.g. ":8077". Empty disables the
	// REST API.
	Addr string `toml:"addr"`
}

type MQTTConfig struct {
	// Broker is the broker URL, e.g. tcp://broker:1883. Empty disables
	// the MQTT bridge.
	Broker string `toml:"broker"`

	// TopicPrefix prefixes every published and subscribed topic.
	// Defaults to "cec".
	TopicPrefix string `toml:"topic_prefix"`

	// ClientID overrides the generated MQTT client id.
	ClientID string `toml:"client_id"`

	Username string `toml:"username"`
	Password string `toml:"password"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `toml:"level"`
}

// LoadConfig reads and validates a TOML config file, filling defaults
// for omitted fields.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Adapter.Device == "" {
		cfg.Adapter.Device = "/dev/cec0"
	}
	if cfg.Adapter.OSDName == "" {
		cfg.Adapter.OSDName = "cecd"
	}
	if cfg.Adapter.DeviceType == "" {
		cfg.Adapter.DeviceType = "playback"
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "cec"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the fields a typo would most likely break.
func (cfg *Config) Validate() error {
	if _, err := cfg.Claim(); err != nil {
		return err
	}
	if cfg.Adapter.PhysAddr != "" {
		if _, err := cec.ParsePhysicalAddress(cfg.Adapter.PhysAddr); err != nil {
			return fmt.Errorf("adapter.phys_addr: %w", err)
		}
	}
	if len(cfg.Adapter.OSDName) > 15 {
		return fmt.Errorf("adapter.osd_name %q exceeds 15 bytes", cfg.Adapter.OSDName)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}

// Claim maps the configured device type to the address claim the daemon
// submits on startup.
func (cfg *Config) Claim() (cec.AddressClaim, error) {
	switch strings.ToLower(cfg.Adapter.DeviceType) {
	case "tv":
		return cec.AddressClaim{PrimaryType: cec.PrimDevTV, Type: cec.LogAddrTypeTV}, nil
	case "playback":
		return cec.AddressClaim{PrimaryType: cec.PrimDevPlayback, Type: cec.LogAddrTypePlayback}, nil
	case "record":
		return cec.AddressClaim{PrimaryType: cec.PrimDevRecord, Type: cec.LogAddrTypeRecord}, nil
	case "tuner":
		return cec.AddressClaim{PrimaryType: cec.PrimDevTuner, Type: cec.LogAddrTypeTuner}, nil
	case "audiosystem":
		return cec.AddressClaim{PrimaryType: cec.PrimDevAudiosystem, Type: cec.LogAddrTypeAudiosystem}, nil
	case "switch":
		return cec.AddressClaim{PrimaryType: cec.PrimDevSwitch, Type: cec.LogAddrTypeUnregistered}, nil
	default:
		return cec.AddressClaim{}, fmt.Errorf("adapter.device_type %q is not a known role", cfg.Adapter.DeviceType)
	}
}
