package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext deja un logger "scoped" (con campos del request) en el contexto.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From devuelve el logger del contexto, o el singleton si no hay ninguno.
// Así cualquier capa puede hacer From(ctx) sin importar si pasó por el
// middleware de logging.
func From(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return L()
}
