package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Manager loads configuration from an ordered list of sources, binds it into
// a struct and tells subscribers when a reload changed it.
//
// A reload that fails to load, bind or validate leaves the current
// configuration untouched. All methods are safe for concurrent use.
type Manager struct {
	sources []ConfigSource
	config  any
	binder  *Binder
	logger  *slog.Logger

	mu   sync.RWMutex
	subs []chan Event

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Options struct {
	// AutoReload starts a watcher per source and reloads when one fires.
	AutoReload bool
	// Logger receives watcher and reload failures. Defaults to slog.Default.
	Logger *slog.Logger
}

// NewManager binds the sources into cfg, a pointer to struct. Later sources
// override earlier ones:
//
//	var cfg config.Root
//	mgr, err := config.NewManager(&cfg, config.Options{},
//	    config.StaticSource{Label: "defaults", Values: config.Defaults()},
//	    &source.FileSource{BasePath: "configs", Optional: true},
//	    &source.EnvSource{},
//	    &source.CLISource{},
//	)
func NewManager(cfg any, opts Options, sources ...ConfigSource) (*Manager, error) {
	m := &Manager{
		sources: sources,
		config:  cfg,
		binder:  NewBinder(),
		logger:  opts.Logger,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	if err := m.Reload(context.Background()); err != nil {
		return nil, err
	}

	if opts.AutoReload {
		m.startWatchers()
	}
	return m, nil
}

// Reload loads every source, merges them, binds the result into a fresh
// value and swaps it into the managed struct on success.
func (m *Manager) Reload(ctx context.Context) error {
	merged := map[string]any{}
	for _, src := range m.sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		MergeMaps(merged, normalizeKeys(vals))
	}

	typ := reflect.TypeOf(m.config).Elem()
	newCfg := reflect.New(typ).Interface()
	if err := m.binder.Bind(merged, newCfg); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}

	m.mu.Lock()
	oldCfg := reflect.New(typ).Interface()
	reflect.ValueOf(oldCfg).Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(reflect.ValueOf(newCfg).Elem())
	m.mu.Unlock()

	if !reflect.DeepEqual(oldCfg, newCfg) {
		m.notify(diffEvent(oldCfg, newCfg))
	}
	return nil
}

// Subscribe registers ch for change events. Sends never block: an event is
// dropped for a subscriber whose buffer is full. The Manager never closes ch.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

// Close stops the source watchers started by AutoReload and waits for them.
func (m *Manager) Close() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) startWatchers() {
	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	for _, src := range m.sources {
		ch := make(chan Event, 1)
		m.wg.Add(2)
		go func() {
			defer m.wg.Done()
			if err := src.Watch(ctx, ch); err != nil && ctx.Err() == nil {
				m.logger.Warn("config watch stopped", "source", src.Name(), "error", err)
			}
		}()
		go func() {
			defer m.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					if err := m.Reload(ctx); err != nil {
						m.logger.Error("config reload failed", "source", src.Name(), "error", err)
					}
				}
			}
		}()
	}
}
