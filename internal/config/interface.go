package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// Watch re-reads the config file whenever it changes and calls fn with the
// freshly loaded configuration. Invalid updates are dropped; the previous
// configuration stays in effect. Watching stops when ctx is cancelled.
func Watch(ctx context.Context, path string, fn func(*Config)) {
	v := viper.New()
	v.SetConfigFile(path)

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := load(nil)
		if err != nil {
			return
		}
		fn(cfg)
	})
	v.WatchConfig()

	<-ctx.Done()
}
