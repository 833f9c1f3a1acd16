package config

import (
	"time"

	"github.com/spf13/viper"
)

// Data selects and configures the post store.
type Data struct {
	Store    string
	MongoDB  *MongoDB
	SQLite   *SQLite
	Postgres *Postgres
	Redis    *Redis
}

// MongoDB mongodb config struct
type MongoDB struct {
	URI string
}

// SQLite sqlite config struct
type SQLite struct {
	Source string
}

// Postgres postgres config struct
type Postgres struct {
	DSN string
}

// Redis redis config struct. An empty Addr disables the list cache.
type Redis struct {
	Addr         string
	Username     string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		Store:    getStringOrDefault(v, "data.store", "mongodb"),
		MongoDB:  &MongoDB{URI: v.GetString("data.mongodb.uri")},
		SQLite:   &SQLite{Source: v.GetString("data.sqlite.source")},
		Postgres: &Postgres{DSN: v.GetString("data.postgres.dsn")},
		Redis: &Redis{
			Addr:         v.GetString("data.redis.addr"),
			Username:     v.GetString("data.redis.username"),
			Password:     v.GetString("data.redis.password"),
			DB:           v.GetInt("data.redis.db"),
			DialTimeout:  getDurationOrDefault(v, "data.redis.dial_timeout", 5*time.Second),
			ReadTimeout:  getDurationOrDefault(v, "data.redis.read_timeout", 3*time.Second),
			WriteTimeout: getDurationOrDefault(v, "data.redis.write_timeout", 3*time.Second),
		},
	}
}
