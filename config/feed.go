package config

import (
	"time"

	"github.com/spf13/viper"
)

// Feed holds the feed view and post store settings.
type Feed struct {
	Collection        string
	ReloadAfterSubmit bool
	ViewTTL           time.Duration
	CacheTTL          time.Duration
	SweepInterval     time.Duration
}

func getFeedConfig(v *viper.Viper) *Feed {
	return &Feed{
		Collection:        getStringOrDefault(v, "feed.collection", "posts"),
		ReloadAfterSubmit: v.GetBool("feed.reload_after_submit"),
		ViewTTL:           getDurationOrDefault(v, "feed.view_ttl", 30*time.Minute),
		CacheTTL:          getDurationOrDefault(v, "feed.cache_ttl", 30*time.Second),
		SweepInterval:     getDurationOrDefault(v, "feed.sweep_interval", time.Minute),
	}
}
