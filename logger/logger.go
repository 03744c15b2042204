// Package logger wraps zap's sugared logger with redaction of credentials:
// sensitive keys, bearer tokens and JWTs in values, and auth headers.
package logger

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a console logger for development or a JSON logger for
// production ("prod" or "production").
func New(mode string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if m := strings.ToLower(mode); m == "prod" || m == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.DisableStacktrace = true
	zl, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s logger: %w", mode, err)
	}
	return &Logger{SugaredLogger: zl.Sugar()}, nil
}

// NewFromCore wraps an existing zap core. Tests use it with zaptest/observer.
func NewFromCore(core zapcore.Core) *Logger {
	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() { _ = l.SugaredLogger.Sync() }

func (l *Logger) Debug(msg string, kv ...interface{}) { l.SugaredLogger.Debugw(msg, redact(kv)...) }
func (l *Logger) Info(msg string, kv ...interface{}) { l.SugaredLogger.Infow(msg, redact(kv)...) }
func (l *Logger) Warn(msg string, kv ...interface{}) { l.SugaredLogger.Warnw(msg, redact(kv)...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.SugaredLogger.Errorw(msg, redact(kv)...) }

// With returns a child logger carrying kv on every entry.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(redact(kv)...)}
}

func redact(kv []interface{}) []interface{} {
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		key, _ := out[i].(string)
		if sensitiveKey(key) {
			out[i+1] = redacted
			continue
		}
		out[i+1] = redactValue(out[i+1])
	}
	return out
}

func redactValue(v interface{}) interface{} {
	switch v := v.(type) {
	case string:
		if looksLikeCredential(v) {
			return redacted
		}
	case http.Header:
		h := v.Clone()
		for name := range h {
			if sensitiveKey(name) {
				h[name] = []string{redacted}
			}
		}
		return h
	}
	return v
}

func sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range []string{"token", "authorization", "password", "secret", "cookie"} {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// looksLikeCredential matches bearer header values and compact JWTs.
func looksLikeCredential(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) > 7 && strings.EqualFold(s[:7], "bearer ") {
		return true
	}
	return strings.HasPrefix(s, "eyJ") && strings.Count(s, ".") == 2
}
