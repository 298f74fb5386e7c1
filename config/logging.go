package config

import "github.com/gofiber/fiber/v2/log"

// ApplyLogLevel sets the process wide log level from LOG_LEVEL.
func (c Config) ApplyLogLevel() {
	switch c.LogLevel {
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}
