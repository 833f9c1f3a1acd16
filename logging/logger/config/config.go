package config

import (
	"github.com/spf13/viper"
)

// Config is the logger configuration.
type Config struct {
	Level           int              `json:"level" yaml:"level"`
	Format          string           `json:"format" yaml:"format"`
	Output          string           `json:"output" yaml:"output"`
	OutputFile      string           `json:"output_file" yaml:"output_file"`
	Desensitization *Desensitization `json:"desensitization" yaml:"desensitization"`
}

// GetConfig reads the logger section. Missing keys fall back to info level
// text output on stdout.
func GetConfig(v *viper.Viper) *Config {
	level := 4
	if v.IsSet("logger.level") {
		level = v.GetInt("logger.level")
	}
	format := v.GetString("logger.format")
	if format == "" {
		format = "text"
	}
	output := v.GetString("logger.output")
	if output == "" {
		output = "stdout"
	}

	return &Config{
		Level:           level,
		Format:          format,
		Output:          output,
		OutputFile:      v.GetString("logger.output_file"),
		Desensitization: getDesensitizationConfigs(v),
	}
}
