package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string
	ProfileDBHost        string
	ProfileDBPort        string
	ProfileCacheHost     string
	ProfileCachePort     string
	ProfileCacheTTL      time.Duration
	SecretKey            string
	JaegerAddress        string
	IdentityAuthorizeURL string
	IdentityProviders    []string
	EditorSessionLimit   int
	EditorLoadWait       time.Duration
	StoreTimeout         time.Duration
	LogFile              string
	RBACModel            string
	RBACPolicy           string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PROFILE_SERVICE_PORT", "8000")
	v.SetDefault("PROFILE_DB_HOST", "")
	v.SetDefault("PROFILE_DB_PORT", "27017")
	v.SetDefault("PROFILE_CACHE_HOST", "")
	v.SetDefault("PROFILE_CACHE_PORT", "6379")
	v.SetDefault("PROFILE_CACHE_TTL", 5*time.Minute)
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("JAEGER_ADDRESS", "")
	v.SetDefault("IDENTITY_AUTHORIZE_URL", "http://localhost:9999/auth/v1/authorize")
	v.SetDefault("IDENTITY_PROVIDERS", "google")
	v.SetDefault("EDITOR_SESSION_LIMIT", 1024)
	v.SetDefault("EDITOR_LOAD_WAIT", 3*time.Second)
	v.SetDefault("STORE_TIMEOUT", 5*time.Second)
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("RBAC_MODEL", "./rbac_model.conf")
	v.SetDefault("RBAC_POLICY", "./policy.csv")
}

// NewConfig reads the service configuration from the environment. An empty
// PROFILE_DB_HOST selects the in-memory store and an empty
// PROFILE_CACHE_HOST disables Redis.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Port:                 v.GetString("PROFILE_SERVICE_PORT"),
		ProfileDBHost:        v.GetString("PROFILE_DB_HOST"),
		ProfileDBPort:        v.GetString("PROFILE_DB_PORT"),
		ProfileCacheHost:     v.GetString("PROFILE_CACHE_HOST"),
		ProfileCachePort:     v.GetString("PROFILE_CACHE_PORT"),
		ProfileCacheTTL:      v.GetDuration("PROFILE_CACHE_TTL"),
		SecretKey:            v.GetString("SECRET_KEY"),
		JaegerAddress:        v.GetString("JAEGER_ADDRESS"),
		IdentityAuthorizeURL: v.GetString("IDENTITY_AUTHORIZE_URL"),
		IdentityProviders:    splitList(v.GetString("IDENTITY_PROVIDERS")),
		EditorSessionLimit:   v.GetInt("EDITOR_SESSION_LIMIT"),
		EditorLoadWait:       v.GetDuration("EDITOR_LOAD_WAIT"),
		StoreTimeout:         v.GetDuration("STORE_TIMEOUT"),
		LogFile:              v.GetString("LOG_FILE"),
		RBACModel:            v.GetString("RBAC_MODEL"),
		RBACPolicy:           v.GetString("RBAC_POLICY"),
	}
}

func (c *Config) UseMemoryStore() bool {
	return c.ProfileDBHost == ""
}

func (c *Config) UseRedis() bool {
	return c.ProfileCacheHost != ""
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
