// Package logger builds the process-wide zap logger.
package logger

import (
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// jwtRegex matches the three dotted base64url segments of a JWT.
var jwtRegex = regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`)

// New builds a logger at the given level. Format is "json" or "console";
// anything else defaults to console.
func New(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)
	return zap.New(core), nil
}

// Redact replaces JWT-shaped substrings so tokens never reach the logs.
func Redact(s string) string {
	return jwtRegex.ReplaceAllString(s, "[REDACTED]")
}

// RedactedString is zap.String with token redaction applied to the value.
func RedactedString(key, value string) zap.Field {
	return zap.String(key, Redact(value))
}
