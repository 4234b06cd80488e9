// Package session provee almacenamiento session-scoped para el flujo OAuth.
//
// Soporta dos backends:
//   - Memory (in-process, para desarrollo/testing)
//   - Redis (distribuido, para producción)
//
// Cada sesión de browser se identifica por una cookie sid; los valores se
// guardan en el backend bajo keys con prefijo del sid.
package session

import "time"

// Store define las operaciones del backend KV.
type Store interface {
	// Get obtiene un valor. El segundo retorno indica si la key existe.
	Get(key string) (string, bool)

	// Set guarda un valor con TTL. Si ttl es 0 usa el default del backend.
	Set(key, value string, ttl time.Duration)

	// Delete elimina una key.
	Delete(key string)
}

// Config configuración para crear un backend de sesión.
type Config struct {
	Kind       string // "memory" | "redis"
	DefaultTTL time.Duration

	Redis struct {
		Addr   string
		DB     int
		Prefix string
	}
}

// NewStore crea un backend según la configuración.
func NewStore(cfg Config) Store {
	switch cfg.Kind {
	case "redis":
		return NewRedis(cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Prefix, cfg.DefaultTTL)
	default:
		return NewMemory(cfg.DefaultTTL)
	}
}
