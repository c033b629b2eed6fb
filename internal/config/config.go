package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration when --config is not given.
const DefaultPath = "dogroom.yml"

// Storage drivers
const (
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Defaults applied by Validate
const (
	DefaultInstance     = "default"
	DefaultRedisURL     = "redis://localhost:6379"
	DefaultSQLitePath   = "dogroom.db"
	DefaultLockTimeout  = "5s"
	DefaultListLimit    = 10
	DefaultMaxListLimit = 1000
	DefaultRedisImage   = "redis:7-alpine"
)

// Environment overrides, applied after the file is read
const (
	EnvInstance = "DOGROOM_INSTANCE"
	EnvRedisURL = "DOGROOM_REDIS_URL"
	EnvStorage  = "DOGROOM_STORAGE"
)

// MaxInstanceNameLength is the maximum length for an instance name (DNS-compatible)
const MaxInstanceNameLength = 63

// instanceNamePattern keeps instance names usable in Redis keys and container
// names: lowercase alphanumeric, hyphens allowed but not at start/end.
var instanceNamePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// ValidateInstanceName checks if an instance name is valid according to DNS naming rules.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("instance name cannot be empty")
	}
	if len(name) > MaxInstanceNameLength {
		return fmt.Errorf("instance name too long: %d characters (max: %d)", len(name), MaxInstanceNameLength)
	}
	if !instanceNamePattern.MatchString(name) {
		return fmt.Errorf("invalid instance name '%s': must be lowercase alphanumeric with hyphens (not at start/end)", name)
	}
	return nil
}

// DogRoomConfig represents the top-level dogroom.yml configuration
type DogRoomConfig struct {
	Version  string          `yaml:"version"`
	Instance string          `yaml:"instance,omitempty"` // Namespace for all stored keys
	Storage  *StorageConfig  `yaml:"storage,omitempty"`
	Bookings *BookingsConfig `yaml:"bookings,omitempty"`
	Listing  *ListingConfig  `yaml:"listing,omitempty"`
	Services *ServicesConfig `yaml:"services,omitempty"`
}

// StorageConfig selects and locates the backend
type StorageConfig struct {
	Driver     string `yaml:"driver"`                // "redis" or "sqlite"
	RedisURL   string `yaml:"redis_url,omitempty"`   // Used when driver=redis
	SQLitePath string `yaml:"sqlite_path,omitempty"` // Used when driver=sqlite
}

// BookingsConfig controls booking creation
type BookingsConfig struct {
	SerializePerHost *bool  `yaml:"serialize_per_host,omitempty"` // Default: true
	LockTimeout      string `yaml:"lock_timeout,omitempty"`       // Go duration, default 5s

	lockTimeout time.Duration
}

// ListingConfig bounds list page sizes
type ListingConfig struct {
	DefaultLimit int `yaml:"default_limit,omitempty"`
	MaxLimit     int `yaml:"max_limit,omitempty"`
}

// ServicesConfig specifies service-level overrides
type ServicesConfig struct {
	Redis *ServiceOverride `yaml:"redis,omitempty"`
}

// ServiceOverride allows overriding default service images
type ServiceOverride struct {
	Image string `yaml:"image,omitempty"`
}

// Default returns a validated configuration with every default applied.
func Default() *DogRoomConfig {
	cfg := &DogRoomConfig{Version: "1.0"}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// Validate performs strict validation on the configuration and fills in
// defaults for omitted sections.
func (c *DogRoomConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Instance == "" {
		c.Instance = DefaultInstance
	}
	if err := ValidateInstanceName(c.Instance); err != nil {
		return err
	}

	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}

	if c.Bookings == nil {
		c.Bookings = &BookingsConfig{}
	}
	if err := c.Bookings.Validate(); err != nil {
		return err
	}

	if c.Listing == nil {
		c.Listing = &ListingConfig{}
	}
	if err := c.Listing.Validate(); err != nil {
		return err
	}

	if c.Services == nil {
		c.Services = &ServicesConfig{}
	}
	if c.Services.Redis == nil {
		c.Services.Redis = &ServiceOverride{}
	}
	if c.Services.Redis.Image == "" {
		c.Services.Redis.Image = DefaultRedisImage
	}

	return nil
}

// Validate checks the storage section
func (s *StorageConfig) Validate() error {
	if s.Driver == "" {
		s.Driver = DriverRedis
	}

	switch s.Driver {
	case DriverRedis:
		if s.RedisURL == "" {
			s.RedisURL = DefaultRedisURL
		}
	case DriverSQLite:
		if s.SQLitePath == "" {
			s.SQLitePath = DefaultSQLitePath
		}
	default:
		return fmt.Errorf("storage.driver: invalid driver: %s (must be '%s' or '%s')", s.Driver, DriverRedis, DriverSQLite)
	}
	return nil
}

// Validate checks the bookings section
func (b *BookingsConfig) Validate() error {
	if b.SerializePerHost == nil {
		serialize := true
		b.SerializePerHost = &serialize
	}

	if b.LockTimeout == "" {
		b.LockTimeout = DefaultLockTimeout
	}
	d, err := time.ParseDuration(b.LockTimeout)
	if err != nil {
		return fmt.Errorf("bookings.lock_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("bookings.lock_timeout must be positive, got %s", b.LockTimeout)
	}
	b.lockTimeout = d
	return nil
}

// LockTimeoutDuration returns the parsed lock timeout. Only valid after Validate.
func (b *BookingsConfig) LockTimeoutDuration() time.Duration {
	return b.lockTimeout
}

// Validate checks the listing section
func (l *ListingConfig) Validate() error {
	if l.DefaultLimit == 0 {
		l.DefaultLimit = DefaultListLimit
	}
	if l.MaxLimit == 0 {
		l.MaxLimit = DefaultMaxListLimit
	}
	if l.DefaultLimit < 1 {
		return fmt.Errorf("listing.default_limit must be >= 1, got %d", l.DefaultLimit)
	}
	if l.MaxLimit < l.DefaultLimit {
		return fmt.Errorf("listing.max_limit (%d) must be >= listing.default_limit (%d)", l.MaxLimit, l.DefaultLimit)
	}
	return nil
}

// Limit maps a requested page size to the one to use. An unset request gets
// the default; a set one is clamped to [1, MaxLimit].
func (l *ListingConfig) Limit(requested int, set bool) int {
	if !set {
		return l.DefaultLimit
	}
	if requested < 1 {
		return 1
	}
	if requested > l.MaxLimit {
		return l.MaxLimit
	}
	return requested
}

// ApplyEnv overrides settings from DOGROOM_* environment variables and
// re-validates.
func (c *DogRoomConfig) ApplyEnv() error {
	if v := os.Getenv(EnvInstance); v != "" {
		c.Instance = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Storage.RedisURL = v
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}

// Load reads and validates dogroom.yml from the specified path
func Load(path string) (*DogRoomConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config DogRoomConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*DogRoomConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}
