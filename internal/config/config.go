// Package config carga la configuración YAML del servicio con overrides
// por variables de entorno para los secretos de cada provider.
package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/socialite/internal/socialite"
)

// ProviderNames son los providers soportados out of the box, en el orden en
// que se buscan overrides de entorno.
var ProviderNames = []string{"google", "facebook", "github", "twitter", "linkedin"}

type ProviderConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url"` // si vacío => <socialite.base_url>/auth/socialite/<name>/callback
	Scopes       []string `yaml:"scopes"`
}

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Socialite struct {
		// BaseURL pública del servicio, usada para armar redirect URLs default.
		BaseURL string `yaml:"base_url"`

		// AllowedRedirectDomains hosts permitidos como destino post-login.
		AllowedRedirectDomains []string `yaml:"allowed_redirect_domains"`

		// EncryptTokens cifra access/refresh tokens antes de persistirlos.
		EncryptTokens bool `yaml:"encrypt_tokens"`

		// AutoRefreshTokens renueva tokens vencidos al leerlos.
		AutoRefreshTokens bool `yaml:"auto_refresh_tokens"`

		// Stateless desactiva la verificación de state vía sesión.
		Stateless bool `yaml:"stateless"`

		// StateSecret clave HS256 para state firmado en modo stateless.
		StateSecret string `yaml:"state_secret"`
	} `yaml:"socialite"`

	Providers map[string]ProviderConfig `yaml:"providers"`

	Session struct {
		Kind       string `yaml:"kind"` // memory | redis
		CookieName string `yaml:"cookie_name"`
		Secure     bool   `yaml:"secure"`
		TTL        string `yaml:"ttl"`
		Redis      struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"session"`

	Storage struct {
		Driver   string `yaml:"driver"` // none | postgres
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Session.Kind == "" {
		c.Session.Kind = "memory"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "30m"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "none"
	}
	if c.Providers == nil {
		c.Providers = map[string]ProviderConfig{}
	}

	// Overrides de entorno: GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET,
	// GOOGLE_REDIRECT_URL, etc. Entorno pisa YAML.
	for _, name := range ProviderNames {
		pc := c.Providers[name]
		prefix := strings.ToUpper(name) + "_"
		if v, ok := getEnvStr(prefix + "CLIENT_ID"); ok {
			pc.ClientID = v
		}
		if v, ok := getEnvStr(prefix + "CLIENT_SECRET"); ok {
			pc.ClientSecret = v
		}
		if v, ok := getEnvStr(prefix + "REDIRECT_URL"); ok {
			pc.RedirectURL = v
		}
		if pc.RedirectURL == "" && c.Socialite.BaseURL != "" {
			pc.RedirectURL = strings.TrimSuffix(c.Socialite.BaseURL, "/") + "/auth/socialite/" + name + "/callback"
		}
		c.Providers[name] = pc
	}
	if v, ok := getEnvStr("SOCIALITE_STATE_SECRET"); ok {
		c.Socialite.StateSecret = v
	}

	return &c, nil
}

// SessionTTL parsea el TTL de sesión, con fallback a 30 minutos.
func (c *Config) SessionTTL() time.Duration {
	if d, err := time.ParseDuration(c.Session.TTL); err == nil && d > 0 {
		return d
	}
	return 30 * time.Minute
}

// ProviderConfigs devuelve la configuración por provider en el formato del
// Manager, omitiendo los providers sin credenciales.
func (c *Config) ProviderConfigs() map[string]socialite.ProviderConfig {
	out := make(map[string]socialite.ProviderConfig, len(c.Providers))
	for name, pc := range c.Providers {
		if pc.ClientID == "" {
			continue
		}
		out[name] = socialite.ProviderConfig{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			RedirectURL:  pc.RedirectURL,
			Scopes:       pc.Scopes,
		}
	}
	return out
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
