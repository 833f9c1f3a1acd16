package config

import (
	"time"

	"github.com/spf13/viper"
)

// getDurationOrDefault returns a positive duration from config or the default.
func getDurationOrDefault(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	if v.IsSet(key) {
		if d := v.GetDuration(key); d > 0 {
			return d
		}
	}
	return defaultValue
}

// getStringOrDefault returns a non-empty string from config or the default.
func getStringOrDefault(v *viper.Viper, key string, defaultValue string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return defaultValue
}
