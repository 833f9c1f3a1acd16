// Package config loads the service configuration with viper.
//
// Values come from a YAML file, POSTFEED_ prefixed environment variables
// and built-in defaults, in that order of precedence after the environment.
//
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	data:
//	  store: mongodb
//	  mongodb:
//	    uri: mongodb://localhost:27017/postfeed
//	  redis:
//	    addr: localhost:6379
//	auth:
//	  jwt:
//	    secret: change-me
//	feed:
//	  reload_after_submit: false
//	  view_ttl: 30m
package config
