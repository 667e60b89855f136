// Package config loads and validates the daemon configuration from a YAML
// file. Validation is strict and happens once at startup: the process must
// not start in a partially-configured state.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smorrow/strikewatch/internal/logic"
	"github.com/smorrow/strikewatch/internal/sensor"
)

// Duration wraps time.Duration for YAML decoding of values like "500ms".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full daemon configuration, immutable after Load.
type Config struct {
	Sensor        SensorConfig        `yaml:"sensor"`
	Hardware      HardwareConfig      `yaml:"hardware"`
	Timing        TimingConfig        `yaml:"timing"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Notifications NotificationsConfig `yaml:"notifications"`
	HTTP          HTTPConfig          `yaml:"http"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// SensorConfig holds AS3935 tuning, bit masks, and register overrides.
type SensorConfig struct {
	NoiseFloor        *byte `yaml:"noise_floor"`        // 0-7, required
	WatchdogThreshold *byte `yaml:"watchdog_threshold"` // 0-15, required
	SpikeRejection    *byte `yaml:"spike_rejection"`
	FrequencyDivision *byte `yaml:"frequency_division"`

	Bits     BitsConfig     `yaml:"bits"`
	Distance DistanceConfig `yaml:"distance"`
}

// BitsConfig holds the interrupt-status bit masks.
type BitsConfig struct {
	Noise     byte `yaml:"noise"`
	Disturber byte `yaml:"disturber"`
	Lightning byte `yaml:"lightning"`
}

// DistanceConfig holds the distance-register interpretation.
type DistanceConfig struct {
	Mask       byte `yaml:"mask"`
	OutOfRange byte `yaml:"out_of_range"`
	// Lookup optionally remaps raw codes to kilometers; identity when empty.
	Lookup map[byte]int `yaml:"lookup"`
}

// HardwareConfig identifies the bus and interrupt line.
type HardwareConfig struct {
	I2CBus        int    `yaml:"i2c_bus"`
	SensorAddress byte   `yaml:"sensor_address"`
	GPIOChip      string `yaml:"gpio_chip"`
	InterruptPin  int    `yaml:"interrupt_pin"`
}

// TimingConfig holds the process timing constants.
type TimingConfig struct {
	// QuietWindow is the debounce window between accepted interrupts.
	QuietWindow Duration `yaml:"quiet_window"`
	// PerChannelTimeout bounds each notification channel per dispatch.
	PerChannelTimeout Duration `yaml:"per_channel_timeout"`
	// SensorResetDelay is the settle time after the preset-reset command.
	SensorResetDelay Duration `yaml:"sensor_reset_delay"`
	// InterruptSettle is the pause between an edge and the register read;
	// the sensor needs a moment to latch the interrupt register.
	InterruptSettle Duration `yaml:"interrupt_settle"`
}

// AlertsConfig holds the alert policy and message templates.
type AlertsConfig struct {
	DistanceThresholdKm   *int            `yaml:"distance_threshold_km"` // required, inclusive
	NotifyUnknownDistance bool            `yaml:"notify_unknown_distance"`
	Templates             TemplatesConfig `yaml:"templates"`
}

// TemplatesConfig holds the per-kind message templates.
type TemplatesConfig struct {
	Lightning        string `yaml:"lightning"`
	LightningUnknown string `yaml:"lightning_unknown"`
	Noise            string `yaml:"noise"`
	Disturber        string `yaml:"disturber"`
}

// NotificationsConfig enables and configures the outbound channels.
type NotificationsConfig struct {
	Slack  SlackConfig  `yaml:"slack"`
	Twilio TwilioConfig `yaml:"twilio"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

// SlackConfig configures the Slack channel. The token is read from the
// environment, never from the file.
type SlackConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ChannelID   string `yaml:"channel_id"`
	APITokenEnv string `yaml:"api_token_env"`
}

// Token resolves the bot token from the environment.
func (s SlackConfig) Token() (string, error) {
	tok := os.Getenv(s.APITokenEnv)
	if tok == "" {
		return "", fmt.Errorf("slack API token not found in environment variable %q", s.APITokenEnv)
	}
	return tok, nil
}

// TwilioConfig configures the SMS channel. Credentials are read from the
// environment, never from the file.
type TwilioConfig struct {
	Enabled       bool   `yaml:"enabled"`
	FromNumber    string `yaml:"from_number"`
	ToNumber      string `yaml:"to_number"`
	AccountSIDEnv string `yaml:"account_sid_env"`
	AuthTokenEnv  string `yaml:"auth_token_env"`
}

// Credentials resolves the account SID and auth token from the environment.
func (t TwilioConfig) Credentials() (sid, token string, err error) {
	sid = os.Getenv(t.AccountSIDEnv)
	token = os.Getenv(t.AuthTokenEnv)
	if sid == "" || token == "" {
		return "", "", fmt.Errorf("twilio credentials not found in environment variables %q and %q",
			t.AccountSIDEnv, t.AuthTokenEnv)
	}
	return sid, token, nil
}

// MQTTConfig configures the MQTT channel and event feed.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// HTTPConfig configures the status server.
type HTTPConfig struct {
	// Addr is the listen address; empty disables the server.
	Addr string `yaml:"addr"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads, defaults, and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Sensor: SensorConfig{
			Bits:     BitsConfig{Noise: 0x01, Disturber: 0x04, Lightning: 0x08},
			Distance: DistanceConfig{Mask: 0x3F, OutOfRange: 0x3F},
		},
		Hardware: HardwareConfig{
			I2CBus:        1,
			SensorAddress: sensor.DefaultAddress,
			GPIOChip:      "gpiochip0",
			InterruptPin:  4,
		},
		Timing: TimingConfig{
			QuietWindow:       Duration(500 * time.Millisecond),
			PerChannelTimeout: Duration(10 * time.Second),
			SensorResetDelay:  Duration(100 * time.Millisecond),
			InterruptSettle:   Duration(3 * time.Millisecond),
		},
		Alerts: AlertsConfig{
			Templates: TemplatesConfig{
				Lightning:        "⚡ Lightning detected approximately {distance} km away!",
				LightningUnknown: "⚡ Lightning detected, but distance is unknown.",
				Noise:            "Warning: Noise level too high.",
				Disturber:        "Info: Disturber detected (false event).",
			},
		},
		Notifications: NotificationsConfig{
			Slack:  SlackConfig{APITokenEnv: "SLACK_API_TOKEN"},
			Twilio: TwilioConfig{AccountSIDEnv: "TWILIO_ACCOUNT_SID", AuthTokenEnv: "TWILIO_AUTH_TOKEN"},
			MQTT:   MQTTConfig{ClientID: "strikewatch"},
		},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Validate checks required fields, value ranges, per-channel settings, and
// message template placeholders. Any error here is fatal at startup.
func (c *Config) Validate() error {
	if c.Sensor.NoiseFloor == nil {
		return fmt.Errorf("sensor.noise_floor is required")
	}
	if *c.Sensor.NoiseFloor > 7 {
		return fmt.Errorf("sensor.noise_floor must be 0-7, got %d", *c.Sensor.NoiseFloor)
	}
	if c.Sensor.WatchdogThreshold == nil {
		return fmt.Errorf("sensor.watchdog_threshold is required")
	}
	if *c.Sensor.WatchdogThreshold > 15 {
		return fmt.Errorf("sensor.watchdog_threshold must be 0-15, got %d", *c.Sensor.WatchdogThreshold)
	}
	if c.Sensor.Bits.Noise == 0 || c.Sensor.Bits.Disturber == 0 || c.Sensor.Bits.Lightning == 0 {
		return fmt.Errorf("sensor.bits masks must all be non-zero")
	}

	if c.Timing.QuietWindow.Std() <= 0 {
		return fmt.Errorf("timing.quiet_window must be positive")
	}
	if c.Timing.PerChannelTimeout.Std() <= 0 {
		return fmt.Errorf("timing.per_channel_timeout must be positive")
	}

	if c.Alerts.DistanceThresholdKm == nil {
		return fmt.Errorf("alerts.distance_threshold_km is required")
	}
	if *c.Alerts.DistanceThresholdKm < 0 {
		return fmt.Errorf("alerts.distance_threshold_km must be non-negative, got %d",
			*c.Alerts.DistanceThresholdKm)
	}

	if err := c.Templates().Validate(); err != nil {
		return fmt.Errorf("alerts.templates: %w", err)
	}

	if c.Notifications.Slack.Enabled {
		if c.Notifications.Slack.ChannelID == "" {
			return fmt.Errorf("notifications.slack.channel_id is required when slack is enabled")
		}
		if c.Notifications.Slack.APITokenEnv == "" {
			return fmt.Errorf("notifications.slack.api_token_env is required when slack is enabled")
		}
	}
	if c.Notifications.Twilio.Enabled {
		if c.Notifications.Twilio.FromNumber == "" || c.Notifications.Twilio.ToNumber == "" {
			return fmt.Errorf("notifications.twilio.from_number and to_number are required when twilio is enabled")
		}
		if c.Notifications.Twilio.AccountSIDEnv == "" || c.Notifications.Twilio.AuthTokenEnv == "" {
			return fmt.Errorf("notifications.twilio credential env var names are required when twilio is enabled")
		}
	}
	if c.Notifications.MQTT.Enabled && c.Notifications.MQTT.Broker == "" {
		return fmt.Errorf("notifications.mqtt.broker is required when mqtt is enabled")
	}

	return nil
}

// Masks returns the bit masks as the logic package's type.
func (c *Config) Masks() logic.Masks {
	return logic.Masks{
		Noise:     c.Sensor.Bits.Noise,
		Disturber: c.Sensor.Bits.Disturber,
		Lightning: c.Sensor.Bits.Lightning,
	}
}

// DistanceMap returns the distance interpretation as the logic package's type.
func (c *Config) DistanceMap() logic.DistanceMap {
	return logic.DistanceMap{
		Mask:       c.Sensor.Distance.Mask,
		OutOfRange: c.Sensor.Distance.OutOfRange,
		Lookup:     c.Sensor.Distance.Lookup,
	}
}

// Templates returns the message templates as the logic package's type.
func (c *Config) Templates() logic.Templates {
	return logic.Templates{
		Lightning:        c.Alerts.Templates.Lightning,
		LightningUnknown: c.Alerts.Templates.LightningUnknown,
		Noise:            c.Alerts.Templates.Noise,
		Disturber:        c.Alerts.Templates.Disturber,
	}
}

// Policy returns the alert policy as the logic package's type.
func (c *Config) Policy() logic.Policy {
	return logic.Policy{
		AlertThresholdKm:      *c.Alerts.DistanceThresholdKm,
		NotifyUnknownDistance: c.Alerts.NotifyUnknownDistance,
	}
}

// Tuning returns the sensor calibration as the sensor package's type.
func (c *Config) Tuning() sensor.Tuning {
	return sensor.Tuning{
		NoiseFloor:        *c.Sensor.NoiseFloor,
		WatchdogThreshold: *c.Sensor.WatchdogThreshold,
		SpikeRejection:    c.Sensor.SpikeRejection,
		FrequencyDivision: c.Sensor.FrequencyDivision,
		ResetDelay:        c.Timing.SensorResetDelay.Std(),
	}
}
