package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	lc "github.com/ncobase/postfeed/logging/logger/config"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. POSTFEED_SERVER_PORT.
const EnvPrefix = "POSTFEED"

var (
	mu sync.Mutex
	v  *viper.Viper
)

// Config represents the configuration implementation.
type Config struct {
	AppName string
	RunMode string
	Server  *Server
	Logger  *lc.Config
	Data    *Data
	Auth    *Auth
	Feed    *Feed
	Viper   *viper.Viper
}

// Server holds the HTTP listener settings.
type Server struct {
	Host   string
	Port   int
	Domain string
	Secure bool
}

// Address returns host:port.
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads configPath, or searches the default locations when it is
// empty. A missing file in the default locations is not an error; defaults
// and environment overrides apply.
func LoadConfig(configPath string) (*Config, error) {
	nv := viper.New()
	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	setDefaults(nv)

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.AddConfigPath("/etc/postfeed")
		nv.AddConfigPath("$HOME/.postfeed")
		nv.AddConfigPath(".")
	}

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	mu.Lock()
	v = nv
	mu.Unlock()

	return fromViper(nv), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppName: v.GetString("app_name"),
		RunMode: v.GetString("run_mode"),
		Server: &Server{
			Host:   v.GetString("server.host"),
			Port:   v.GetInt("server.port"),
			Domain: v.GetString("server.domain"),
			Secure: v.GetBool("server.secure"),
		},
		Logger: lc.GetConfig(v),
		Data:   getDataConfig(v),
		Auth:   getAuth(v),
		Feed:   getFeedConfig(v),
		Viper:  v,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "postfeed")
	v.SetDefault("run_mode", "release")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("data.store", "mongodb")
	v.SetDefault("data.mongodb.uri", "mongodb://localhost:27017/postfeed")
	v.SetDefault("data.sqlite.source", "file:postfeed.db?_fk=1")
	v.SetDefault("auth.jwt.expire", 24*60)
	v.SetDefault("feed.collection", "posts")
	v.SetDefault("feed.reload_after_submit", false)
	v.SetDefault("feed.view_ttl", "30m")
	v.SetDefault("feed.cache_ttl", "30s")
	v.SetDefault("feed.sweep_interval", "1m")
}

// Watch reloads the configuration when the loaded file changes and passes
// the new value to callback. It is a no-op when no file was read.
func Watch(callback func(*Config, error)) {
	mu.Lock()
	cur := v
	mu.Unlock()
	if cur == nil || cur.ConfigFileUsed() == "" {
		return
	}

	path := cur.ConfigFileUsed()
	cur.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		callback(LoadConfig(path))
	})
	cur.WatchConfig()
}
