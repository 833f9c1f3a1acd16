package config

import (
	"time"

	"github.com/spf13/viper"
)

// Auth auth config struct
type Auth struct {
	JWT *JWT
}

// JWT jwt config struct
type JWT struct {
	Secret string
	Expire time.Duration
}

func getAuth(v *viper.Viper) *Auth {
	return &Auth{
		JWT: &JWT{
			Secret: v.GetString("auth.jwt.secret"),
			// minutes
			Expire: time.Duration(v.GetInt("auth.jwt.expire")) * time.Minute,
		},
	}
}
