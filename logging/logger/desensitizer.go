package logger

import (
	"regexp"
	"strings"

	"github.com/ncobase/postfeed/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// Desensitizer masks sensitive values in log fields.
type Desensitizer struct {
	config   *config.Desensitization
	patterns []*regexp.Regexp
}

// NewDesensitizer creates a desensitizer. Invalid custom patterns are skipped.
func NewDesensitizer(cfg *config.Desensitization) *Desensitizer {
	if cfg == nil {
		cfg = config.DefaultDesensitization()
	}
	d := &Desensitizer{config: cfg}
	for _, pattern := range cfg.CustomPatterns {
		if re, err := regexp.Compile(pattern); err == nil {
			d.patterns = append(d.patterns, re)
		}
	}
	return d
}

// DesensitizeFields returns a copy of fields with sensitive values masked.
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	if !d.config.Enabled {
		return fields
	}
	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		result[key] = d.desensitizeValue(key, value, 0)
	}
	return result
}

func (d *Desensitizer) desensitizeValue(key string, value any, depth int) any {
	if value == nil || depth > 10 {
		return value
	}
	if d.isSensitiveField(key) {
		return d.mask()
	}

	switch v := value.(type) {
	case string:
		return d.desensitizeString(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = d.desensitizeValue(k, item, depth+1)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, item := range v {
			if d.isSensitiveField(k) {
				out[k] = d.mask()
				continue
			}
			out[k] = d.desensitizeString(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = d.desensitizeValue("", item, depth+1)
		}
		return out
	default:
		return value
	}
}

func (d *Desensitizer) isSensitiveField(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, field := range d.config.SensitiveFields {
		field = strings.ToLower(field)
		if d.config.ExactFieldMatch {
			if lower == field {
				return true
			}
		} else if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func (d *Desensitizer) desensitizeString(s string) string {
	for _, pattern := range d.patterns {
		s = pattern.ReplaceAllString(s, d.mask())
	}
	return s
}

func (d *Desensitizer) mask() string {
	return strings.Repeat(d.config.MaskChar, d.config.FixedMaskLength)
}

// desensitizeHook applies a Desensitizer to every entry before it is formatted.
type desensitizeHook struct {
	d *Desensitizer
}

func (h *desensitizeHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *desensitizeHook) Fire(entry *logrus.Entry) error {
	entry.Data = h.d.DesensitizeFields(entry.Data)
	return nil
}
