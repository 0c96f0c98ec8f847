package kiosk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// SceneManager owns the scene registry and the single active scene slot.
// A switch tears the previous scene down completely before the next one is
// constructed, so at most one scene is ever wired to the hub.
type SceneManager struct {
	deps      Deps
	factories map[string]SceneFactory
	logger    *log.Logger

	active     Scene
	activeName string
	switching  bool
}

// NewSceneManager creates a manager. deps are passed to every factory, with
// Switcher set to the manager itself.
func NewSceneManager(deps Deps) *SceneManager {
	m := &SceneManager{
		deps:      deps,
		factories: make(map[string]SceneFactory),
		logger:    deps.Logger,
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	m.deps.Switcher = m
	m.deps.Logger = m.logger
	return m
}

// Register adds a scene factory under name. Names are case-sensitive.
func (m *SceneManager) Register(name string, factory SceneFactory) error {
	if _, ok := m.factories[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateName)
	}
	if factory == nil {
		return fmt.Errorf("register %q: nil factory", name)
	}
	m.factories[name] = factory
	return nil
}

// Registered reports whether a scene is registered under name.
func (m *SceneManager) Registered(name string) bool {
	_, ok := m.factories[name]
	return ok
}

// Names returns the registered scene names in sorted order.
func (m *SceneManager) Names() []string {
	names := make([]string, 0, len(m.factories))
	for name := range m.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Active returns the active scene, or nil.
func (m *SceneManager) Active() Scene {
	return m.active
}

// ActiveName returns the name of the active scene, or "".
func (m *SceneManager) ActiveName() string {
	return m.activeName
}

// Switch replaces the active scene with a new instance of the named scene:
//  1. destroy the active scene, if any, and wait for it to finish
//  2. construct the new scene via its factory
//  3. Init the new scene
//  4. record it as active
//
// An unknown name leaves the active scene untouched. If the old scene's
// Destroy or the new scene's Init fails, the manager is left with no active
// scene and the error is returned. Switch must not be called while another
// switch is running.
func (m *SceneManager) Switch(ctx context.Context, name string) error {
	factory, ok := m.factories[name]
	if !ok {
		return fmt.Errorf("switch to %q: %w", name, ErrUnknownScene)
	}
	if m.switching {
		return fmt.Errorf("switch to %q: %w", name, ErrSwitchInProgress)
	}
	m.switching = true
	defer func() { m.switching = false }()

	if m.active != nil {
		prev, prevName := m.active, m.activeName
		m.active, m.activeName = nil, ""
		if err := prev.Destroy(ctx); err != nil {
			m.logger.Error("scene destroy failed", "scene", prevName, "err", err)
			return fmt.Errorf("switch to %q: %w: %s: %w", name, ErrSceneDestroy, prevName, err)
		}
		m.logger.Debug("scene destroyed", "scene", prevName)
	}

	scene := factory(m.deps)
	if err := scene.Init(ctx); err != nil {
		m.logger.Error("scene init failed", "scene", name, "err", err)
		if derr := scene.Destroy(ctx); derr != nil {
			err = errors.Join(err, derr)
		}
		return fmt.Errorf("switch to %q: %w: %w", name, ErrSceneInit, err)
	}

	m.active, m.activeName = scene, name
	m.logger.Info("scene active", "scene", name)
	return nil
}

// Update forwards the tick to the active scene.
func (m *SceneManager) Update(dt time.Duration) {
	if m.active != nil {
		m.active.Update(dt)
	}
}

// Shutdown destroys the active scene, leaving none active.
func (m *SceneManager) Shutdown(ctx context.Context) error {
	if m.active == nil {
		return nil
	}
	prev, prevName := m.active, m.activeName
	m.active, m.activeName = nil, ""
	if err := prev.Destroy(ctx); err != nil {
		return fmt.Errorf("shutdown %q: %w: %w", prevName, ErrSceneDestroy, err)
	}
	return nil
}
