package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init arma el singleton. Idempotente: solo la primera llamada construye.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L devuelve el singleton, inicializándolo con defaults (dev/info) si nadie
// llamó a Init.
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// With devuelve un logger con campos fijos adicionales.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushea buffers pendientes; para defer en main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
