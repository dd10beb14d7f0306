package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "20MB"

	defaultGeocodingBaseURL   = "https://api.zippopotam.us"
	defaultGeocodingCountry   = "us"
	defaultGeocodingTimeout   = 5 * time.Second
	defaultRequestsPerSecond  = 10.0
	defaultGeocodingBurst     = 10
	defaultRadiusMiles        = 10.0
	defaultMaxRadiusMiles     = 500.0
	defaultMaxSessions        = 64
	defaultSessionIdleTTL     = 2 * time.Hour
	defaultSweepInterval      = time.Minute
	defaultMaxUploadFileBytes = 20 << 20
)

var defaultRadiusOptions = []float64{5, 10, 15, 20, 25, 30, 50}

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Geocoding configures the external postal-code lookup service
	Geocoding *GeocodingConfig `json:"geocoding" yaml:"geocoding"`

	// Search configures radius search limits
	Search *SearchConfig `json:"search" yaml:"search"`

	// Session configures per-operator search sessions
	Session *SessionConfig `json:"session" yaml:"session"`

	// Upload configures spreadsheet uploads
	Upload *UploadConfig `json:"upload" yaml:"upload"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// GeocodingConfig defines the postal-code lookup service and its pacing
type GeocodingConfig struct {
	// Base URL; requests go to {baseUrl}/{country}/{postalCode}
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// Country path segment, always "us" for this service
	Country string `json:"country" yaml:"country"`

	// Per-lookup timeout; a timed out lookup counts as "not found"
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Sustained lookup rate for cache misses
	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`

	// Token bucket burst size
	Burst int `json:"burst" yaml:"burst"`
}

// SearchConfig defines radius search limits
type SearchConfig struct {
	DefaultRadiusMiles float64   `json:"defaultRadiusMiles" yaml:"defaultRadiusMiles"`
	MaxRadiusMiles     float64   `json:"maxRadiusMiles" yaml:"maxRadiusMiles"`
	RadiusOptions      []float64 `json:"radiusOptions" yaml:"radiusOptions"`
}

// SessionConfig bounds the number and lifetime of search sessions
type SessionConfig struct {
	MaxSessions int           `json:"maxSessions" yaml:"maxSessions"`
	IdleTTL     time.Duration `json:"idleTtl" yaml:"idleTtl"`

	// How often idle sessions are swept
	SweepInterval time.Duration `json:"sweepInterval" yaml:"sweepInterval"`
}

// UploadConfig limits uploaded spreadsheets
type UploadConfig struct {
	MaxFileBytes int64 `json:"maxFileBytes" yaml:"maxFileBytes"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: GEOCODING_BASEURL -> geocoding.baseUrl (not geocoding.baseurl)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	return cfg, nil
}

// ApplyDefaults fills unset sections and fields with built-in values.
func (cfg *Config) ApplyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Env.Log.Level == "" {
		cfg.Env.Log.Level = "info"
	}

	if cfg.Geocoding == nil {
		cfg.Geocoding = &GeocodingConfig{}
	}
	if cfg.Geocoding.BaseURL == "" {
		cfg.Geocoding.BaseURL = defaultGeocodingBaseURL
	}
	if cfg.Geocoding.Country == "" {
		cfg.Geocoding.Country = defaultGeocodingCountry
	}
	if cfg.Geocoding.Timeout <= 0 {
		cfg.Geocoding.Timeout = defaultGeocodingTimeout
	}
	if cfg.Geocoding.RequestsPerSecond <= 0 {
		cfg.Geocoding.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Geocoding.Burst <= 0 {
		cfg.Geocoding.Burst = defaultGeocodingBurst
	}

	if cfg.Search == nil {
		cfg.Search = &SearchConfig{}
	}
	if cfg.Search.DefaultRadiusMiles <= 0 {
		cfg.Search.DefaultRadiusMiles = defaultRadiusMiles
	}
	if cfg.Search.MaxRadiusMiles <= 0 {
		cfg.Search.MaxRadiusMiles = defaultMaxRadiusMiles
	}
	if len(cfg.Search.RadiusOptions) == 0 {
		cfg.Search.RadiusOptions = append([]float64(nil), defaultRadiusOptions...)
	}

	if cfg.Session == nil {
		cfg.Session = &SessionConfig{}
	}
	if cfg.Session.MaxSessions <= 0 {
		cfg.Session.MaxSessions = defaultMaxSessions
	}
	if cfg.Session.IdleTTL <= 0 {
		cfg.Session.IdleTTL = defaultSessionIdleTTL
	}
	if cfg.Session.SweepInterval <= 0 {
		cfg.Session.SweepInterval = defaultSweepInterval
	}

	if cfg.Upload == nil {
		cfg.Upload = &UploadConfig{}
	}
	if cfg.Upload.MaxFileBytes <= 0 {
		cfg.Upload.MaxFileBytes = defaultMaxUploadFileBytes
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
