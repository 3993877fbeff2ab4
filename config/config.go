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
	defaultMaxRequestBodySize = "2MB"
	defaultAPITimeout         = 30 * time.Second
	defaultDurableMaxAge      = 30 * 24 * time.Hour
	defaultResetFlowTTL       = 15 * time.Minute
	defaultSearchDebounce     = 500 * time.Millisecond
	defaultPageSize           = 10
	defaultMaxPageSize        = 100
)

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
		AllowedOrigins []string `json:"allowedOrigins" yaml:"allowedOrigins"`
	} `json:"http" yaml:"http"`

	// Tenant selects which route tree the process mounts at boot
	Tenant *TenantConfig `json:"tenant" yaml:"tenant"`

	// API points at the upstream REST API every page talks to
	API *APIConfig `json:"api" yaml:"api"`

	Storage *StorageConfig `json:"storage" yaml:"storage"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Listing *ListingConfig `json:"listing" yaml:"listing"`

	// Firebase configuration for push token checks at login
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// PubSub configuration for session event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// TenantConfig holds the boot-time inputs of tenant resolution.
type TenantConfig struct {
	// Selector is one of auto, central, professionals, employees
	Selector string `json:"selector" yaml:"selector"`

	// Host is the public hostname this deployment answers on. Falls back to os.Hostname.
	Host string `json:"host" yaml:"host"`

	// Port overrides the port used for loopback detection. Falls back to http.port.
	Port string `json:"port" yaml:"port"`

	CentralHost       string `json:"centralHost" yaml:"centralHost"`
	ProfessionalsHost string `json:"professionalsHost" yaml:"professionalsHost"`
	EmployeesHost     string `json:"employeesHost" yaml:"employeesHost"`

	LoopbackHosts []string `json:"loopbackHosts" yaml:"loopbackHosts"`

	CentralPort       string `json:"centralPort" yaml:"centralPort"`
	ProfessionalsPort string `json:"professionalsPort" yaml:"professionalsPort"`
	EmployeesPort     string `json:"employeesPort" yaml:"employeesPort"`
}

// APIConfig defines how the upstream REST API is reached
type APIConfig struct {
	BaseURL string        `json:"baseUrl" yaml:"baseUrl"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// StorageConfig defines where the durable and ephemeral session scopes live
type StorageConfig struct {
	// Backend is "cookie" or "redis". Redis only backs the durable scope.
	Backend       string        `json:"backend" yaml:"backend"`
	DurableMaxAge time.Duration `json:"durableMaxAge" yaml:"durableMaxAge"`
	SecureCookies bool          `json:"secureCookies" yaml:"secureCookies"`
	RedisURL      string        `json:"redisUrl" yaml:"redisUrl"`
}

// AuthConfig defines limits around the authentication endpoints
type AuthConfig struct {
	RateLimit    float64       `json:"rateLimit" yaml:"rateLimit"`
	RateBurst    int           `json:"rateBurst" yaml:"rateBurst"`
	ResetFlowTTL time.Duration `json:"resetFlowTtl" yaml:"resetFlowTtl"`
}

// ListingConfig defines list page defaults
type ListingConfig struct {
	SearchDebounce  time.Duration `json:"searchDebounce" yaml:"searchDebounce"`
	DefaultPageSize int           `json:"defaultPageSize" yaml:"defaultPageSize"`
	MaxPageSize     int           `json:"maxPageSize" yaml:"maxPageSize"`

	// WeekStart is the first column of the calendar grid, e.g. "sunday" or "monday"
	WeekStart string `json:"weekStart" yaml:"weekStart"`
}

// FirstWeekday parses WeekStart, defaulting to Sunday.
func (l *ListingConfig) FirstWeekday() time.Weekday {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(strings.TrimSpace(l.WeekStart), d.String()) {
			return d
		}
	}

	return time.Sunday
}

// FirebaseConfig defines Firebase configuration for push token checks
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// TENANT_CENTRALHOST -> tenant.centralHost
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
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

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills every optional section so consumers never nil-check.
func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Tenant == nil {
		cfg.Tenant = &TenantConfig{}
	}
	if cfg.Tenant.Selector == "" {
		cfg.Tenant.Selector = "auto"
	}
	if len(cfg.Tenant.LoopbackHosts) == 0 {
		cfg.Tenant.LoopbackHosts = []string{"localhost", "127.0.0.1", "::1", "0.0.0.0"}
	}
	if cfg.API == nil {
		cfg.API = &APIConfig{}
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = defaultAPITimeout
	}
	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "cookie"
	}
	if cfg.Storage.DurableMaxAge == 0 {
		cfg.Storage.DurableMaxAge = defaultDurableMaxAge
	}
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.ResetFlowTTL == 0 {
		cfg.Auth.ResetFlowTTL = defaultResetFlowTTL
	}
	if cfg.Listing == nil {
		cfg.Listing = &ListingConfig{}
	}
	if cfg.Listing.SearchDebounce == 0 {
		cfg.Listing.SearchDebounce = defaultSearchDebounce
	}
	if cfg.Listing.DefaultPageSize <= 0 {
		cfg.Listing.DefaultPageSize = defaultPageSize
	}
	if cfg.Listing.MaxPageSize <= 0 {
		cfg.Listing.MaxPageSize = defaultMaxPageSize
	}
}

func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return errors.New("api.baseUrl is required")
	}

	switch cfg.Storage.Backend {
	case "cookie":
	case "redis":
		if cfg.Storage.RedisURL == "" {
			return errors.New("storage.redisUrl is required for the redis backend")
		}
	default:
		return errors.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}

	return nil
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
