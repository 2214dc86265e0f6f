// Package config loads the service's YAML configuration and keeps it
// hot-reloadable: a Manager watches the config file with fsnotify and
// also re-reads it on a slow poll that runs whether or not the watch
// could be established, the same belt-and-suspenders approach the teacher uses for its license
// file in internal/license/watcher.go.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry "10s"-style values
// (yaml.v3 only decodes bare integers into time.Duration, which nobody
// wants to write by hand in nanoseconds). Bare integers are still
// accepted and read as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("config: invalid duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}
	return fmt.Errorf("config: invalid duration value on line %d", value.Line)
}

// D converts back to the stdlib type at the config boundary.
func (d Duration) D() time.Duration { return time.Duration(d) }

// Config is every tunable enumerated in spec.md §6, plus the ambient
// fields this rebuild adds (DB/Redis/NATS addresses, JWT signing key,
// storage roots).
type Config struct {
	Server struct {
		HTTPAddr string `yaml:"http_addr"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`

	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`

	Embedding struct {
		ServiceAddr string `yaml:"service_addr"`
	} `yaml:"embedding"`

	Auth struct {
		JWTSigningKey string   `yaml:"jwt_signing_key"`
		TokenTTL      Duration `yaml:"token_ttl"`
	} `yaml:"auth"`

	Storage struct {
		ImageRoot    string `yaml:"image_root"`
		SnapshotRoot string `yaml:"snapshot_root"`
		IndexDir     string `yaml:"index_dir"`
	} `yaml:"storage"`

	Recognition struct {
		ConfidenceThreshold   float64       `yaml:"confidence_threshold"`
		AttendanceMin         float64       `yaml:"attendance_min"`
		QMin                  float64       `yaml:"q_min"`
		QMinRecognize         float64       `yaml:"q_min_recognize"`
		AMin                  float64       `yaml:"a_min"`
		RecognitionHz          float64  `yaml:"recognition_hz"`
		StreamMaxHz            float64  `yaml:"stream_max_hz"`
		EventCooldown          Duration `yaml:"event_cooldown"`
		MaxImagesPerPerson     int      `yaml:"max_images_per_person"`
		ImageProcessingTimeout Duration `yaml:"image_processing_timeout"`
	} `yaml:"recognition"`

	Presence struct {
		TTL            Duration `yaml:"ttl"`
		EvictionPeriod Duration `yaml:"eviction_period"`
		RefreshPeriod  Duration `yaml:"refresh_period"`
	} `yaml:"presence"`

	Worker struct {
		ConnectTimeout        Duration `yaml:"connect_timeout"`
		ShutdownGrace         Duration `yaml:"shutdown_grace"`
		SubscriberQueue       int      `yaml:"subscriber_queue"`
		PersistenceFailWindow Duration `yaml:"persistence_fail_window"`
	} `yaml:"worker"`

	// AttendanceTimezone is the IANA zone name used to derive the
	// calendar-day boundary for C6. Defaults to "UTC" (SPEC_FULL.md §9).
	AttendanceTimezone string `yaml:"attendance_timezone"`
}

// EmbeddingDimension is fixed per spec.md §6, not configurable.
const EmbeddingDimension = 512

func defaults() Config {
	var c Config
	c.Server.HTTPAddr = ":8080"
	c.Recognition.ConfidenceThreshold = 0.6
	c.Recognition.AttendanceMin = 0.6
	c.Recognition.QMin = 0.5
	c.Recognition.QMinRecognize = 0.4
	c.Recognition.AMin = 0.01
	c.Recognition.RecognitionHz = 2
	c.Recognition.StreamMaxHz = 10
	c.Recognition.EventCooldown = Duration(10 * time.Second)
	c.Recognition.MaxImagesPerPerson = 20
	c.Recognition.ImageProcessingTimeout = Duration(5 * time.Second)
	c.Presence.TTL = Duration(30 * time.Second)
	c.Presence.EvictionPeriod = Duration(10 * time.Second)
	c.Presence.RefreshPeriod = Duration(30 * time.Second)
	c.Worker.ConnectTimeout = Duration(10 * time.Second)
	c.Worker.ShutdownGrace = Duration(5 * time.Second)
	c.Worker.PersistenceFailWindow = Duration(30 * time.Second)
	c.Auth.TokenTTL = Duration(time.Hour)
	c.Worker.SubscriberQueue = 32
	c.AttendanceTimezone = "UTC"
	return c
}

// Load reads and parses the YAML file at path over top of the defaults.
func Load(path string) (Config, error) {
	cfg := defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, validate(cfg)
}

func validate(c Config) error {
	if c.Recognition.AttendanceMin < c.Recognition.ConfidenceThreshold {
		return fmt.Errorf("config: attendance_min (%.2f) must be >= confidence_threshold (%.2f)",
			c.Recognition.AttendanceMin, c.Recognition.ConfidenceThreshold)
	}
	if c.Presence.EvictionPeriod.D() > c.Presence.TTL.D()/2 {
		return fmt.Errorf("config: eviction_period must be <= presence.ttl/2")
	}
	if _, err := time.LoadLocation(c.AttendanceTimezone); err != nil {
		return fmt.Errorf("config: invalid attendance_timezone %q: %w", c.AttendanceTimezone, err)
	}
	return nil
}
