package logger

import (
	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// Provider crea un campo para el nombre del proveedor OAuth.
func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// ProviderUserID crea un campo para el ID del usuario en el proveedor.
func ProviderUserID(v string) zap.Field {
	return zap.String("provider_user_id", v)
}

// UpstreamStatus crea un campo para el status HTTP del proveedor externo.
func UpstreamStatus(v int) zap.Field {
	return zap.Int("upstream_status", v)
}

// UpstreamBody crea un campo para el body crudo del proveedor externo.
// Solo para diagnóstico del operador: nunca viaja al browser.
func UpstreamBody(v string) zap.Field {
	return zap.String("upstream_body", v)
}

// =================================================================================
// CAMPOS GENÉRICOS
// =================================================================================

// Component crea un campo para el componente que emite el log.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación en curso.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller | service | store).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Any crea un campo genérico.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}
