package socialite

import (
	"errors"
	"sync"
	"testing"
)

func managerConfig() ManagerConfig {
	return ManagerConfig{
		Providers: map[string]ProviderConfig{
			"google": {ClientID: "g-id", ClientSecret: "g-secret"},
			"GitHub": {ClientID: "gh-id", ClientSecret: "gh-secret"},
		},
	}
}

func TestManager_DriverCachesInstances(t *testing.T) {
	m := NewManager(managerConfig())

	first, err := m.Driver("google")
	if err != nil {
		t.Fatalf("Driver err: %v", err)
	}
	second, err := m.Driver("google")
	if err != nil {
		t.Fatalf("Driver err: %v", err)
	}
	if first != second {
		t.Error("same name should resolve to the same cached instance")
	}
}

func TestManager_DriverCaseInsensitive(t *testing.T) {
	m := NewManager(managerConfig())

	lower, err := m.Driver("github")
	if err != nil {
		t.Fatalf("Driver(github) err: %v", err)
	}
	upper, err := m.Driver("GitHub")
	if err != nil {
		t.Fatalf("Driver(GitHub) err: %v", err)
	}
	if lower != upper {
		t.Error("provider resolution must be case-insensitive")
	}
	if lower.Name() != "github" {
		t.Errorf("Name() = %q", lower.Name())
	}
}

func TestManager_UnknownProvider(t *testing.T) {
	m := NewManager(managerConfig())

	_, err := m.Driver("myspace")
	var unsupported *UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want *UnsupportedProviderError", err)
	}
	if unsupported.Name != "myspace" {
		t.Errorf("Name = %q", unsupported.Name)
	}

	// A failure must not poison the cache: registering the name afterwards
	// has to work.
	m.Extend("myspace", func(cfg ProviderConfig, deps Deps) (Provider, error) {
		return NewGoogle(cfg, deps), nil
	})
	if _, err := m.Driver("myspace"); err != nil {
		t.Fatalf("Driver after Extend err: %v", err)
	}
}

func TestManager_FactoryErrorNotCached(t *testing.T) {
	m := NewManager(managerConfig())

	calls := 0
	boom := errors.New("flaky factory")
	m.Extend("custom", func(cfg ProviderConfig, deps Deps) (Provider, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return NewGoogle(cfg, deps), nil
	})

	if _, err := m.Driver("custom"); !errors.Is(err, boom) {
		t.Fatalf("first Driver err = %v, want factory error", err)
	}
	if _, err := m.Driver("custom"); err != nil {
		t.Fatalf("second Driver err = %v, failures must not be cached", err)
	}
	if calls != 2 {
		t.Errorf("factory calls = %d, want 2", calls)
	}
}

func TestManager_ExtendOverridesBuiltin(t *testing.T) {
	m := NewManager(managerConfig())

	// Warm the cache with the builtin.
	builtin, _ := m.Driver("google")

	m.Extend("Google", func(cfg ProviderConfig, deps Deps) (Provider, error) {
		p := NewGoogle(cfg, deps)
		p.flow.name = "google-custom"
		return p, nil
	})

	custom, err := m.Driver("google")
	if err != nil {
		t.Fatalf("Driver err: %v", err)
	}
	if custom == builtin {
		t.Error("Extend must invalidate the cached builtin instance")
	}
	if custom.Name() != "google-custom" {
		t.Errorf("Name() = %q", custom.Name())
	}
}

func TestManager_StatelessPropagates(t *testing.T) {
	cfg := managerConfig()
	cfg.Stateless = true
	m := NewManager(cfg)

	p, err := m.Driver("google")
	if err != nil {
		t.Fatalf("Driver err: %v", err)
	}
	g, ok := p.(*Google)
	if !ok {
		t.Fatalf("Driver returned %T", p)
	}
	if !g.flow.stateless {
		t.Error("manager-level stateless must propagate to built providers")
	}
}

func TestManager_ConcurrentDriverSingleInstance(t *testing.T) {
	m := NewManager(managerConfig())

	const n = 32
	results := make([]Provider, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			p, err := m.Driver("google")
			if err != nil {
				t.Errorf("Driver err: %v", err)
				return
			}
			results[i] = p
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent Driver calls produced distinct instances")
		}
	}
}

func TestManager_Names(t *testing.T) {
	m := NewManager(managerConfig())
	m.Extend("okta", func(cfg ProviderConfig, deps Deps) (Provider, error) {
		return NewGoogle(cfg, deps), nil
	})

	names := m.Names()
	want := map[string]bool{"google": true, "github": true, "okta": true}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected name %q", n)
		}
	}
}
