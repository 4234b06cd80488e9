package socialite

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Factory construye un Provider a partir de su configuración.
type Factory func(cfg ProviderConfig, deps Deps) (Provider, error)

// builtins fábricas de los providers soportados out of the box.
var builtins = map[string]Factory{
	"google":   func(cfg ProviderConfig, deps Deps) (Provider, error) { return NewGoogle(cfg, deps), nil },
	"facebook": func(cfg ProviderConfig, deps Deps) (Provider, error) { return NewFacebook(cfg, deps), nil },
	"github":   func(cfg ProviderConfig, deps Deps) (Provider, error) { return NewGitHub(cfg, deps), nil },
	"twitter":  func(cfg ProviderConfig, deps Deps) (Provider, error) { return NewTwitter(cfg, deps), nil },
	"linkedin": func(cfg ProviderConfig, deps Deps) (Provider, error) { return NewLinkedIn(cfg, deps), nil },
}

// ManagerConfig configuración inicial del Manager.
type ManagerConfig struct {
	// Providers configuración por nombre (lowercase).
	Providers map[string]ProviderConfig

	// Stateless desactiva la verificación de state vía sesión para todos
	// los providers construidos por el Manager.
	Stateless bool

	// Deps dependencias compartidas (HTTP client, firmador de state).
	Deps Deps
}

// Manager resuelve providers por nombre y cachea las instancias construidas.
// Thread-safe, usa singleflight para evitar construcciones duplicadas.
type Manager struct {
	configs   map[string]ProviderConfig
	stateless bool
	deps      Deps

	mu         sync.RWMutex
	drivers    map[string]Provider
	extensions map[string]Factory
	sf         singleflight.Group
}

// NewManager crea un Manager con la configuración indicada.
func NewManager(cfg ManagerConfig) *Manager {
	configs := make(map[string]ProviderConfig, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		configs[strings.ToLower(name)] = pc
	}
	return &Manager{
		configs:    configs,
		stateless:  cfg.Stateless,
		deps:       cfg.Deps,
		drivers:    make(map[string]Provider),
		extensions: make(map[string]Factory),
	}
}

// Driver devuelve el provider con el nombre dado (case-insensitive).
// Las instancias se construyen una sola vez; los fallos no se cachean.
func (m *Manager) Driver(name string) (Provider, error) {
	key := strings.ToLower(name)

	m.mu.RLock()
	if p, ok := m.drivers[key]; ok {
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	// singleflight para evitar construir el mismo driver en paralelo
	result, err, _ := m.sf.Do(key, func() (interface{}, error) {
		m.mu.RLock()
		if p, ok := m.drivers[key]; ok {
			m.mu.RUnlock()
			return p, nil
		}
		factory, extended := m.extensions[key]
		m.mu.RUnlock()

		if !extended {
			var ok bool
			factory, ok = builtins[key]
			if !ok {
				return nil, &UnsupportedProviderError{Name: name}
			}
		}

		cfg := m.configs[key]
		p, err := factory(cfg, m.deps)
		if err != nil {
			return nil, err
		}
		if m.stateless {
			p.Stateless()
		}

		m.mu.Lock()
		m.drivers[key] = p
		m.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(Provider), nil
}

// Extend registra una fábrica custom bajo el nombre dado. Reemplaza a un
// builtin del mismo nombre e invalida cualquier instancia ya cacheada.
func (m *Manager) Extend(name string, factory Factory) {
	key := strings.ToLower(name)
	m.mu.Lock()
	m.extensions[key] = factory
	delete(m.drivers, key)
	m.mu.Unlock()
}

// Names lista los providers resolubles: builtins con configuración más
// extensiones registradas.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var names []string
	for name := range m.configs {
		if _, ok := builtins[name]; ok {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	for name := range m.extensions {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
