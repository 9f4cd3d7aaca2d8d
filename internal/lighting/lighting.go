package lighting

import (
	"image/color"
	"sort"
	"sync"

	"chosenoffset.com/sightline/internal/core/sight"
	"chosenoffset.com/sightline/internal/logging"
)

// DefaultColor is warm torch light.
var DefaultColor = color.NRGBA{R: 255, G: 200, B: 100, A: 255}

// PlayerLightID identifies the observer's light in Lights and Compute results.
const PlayerLightID = "player"

// LightSource represents a single light in the world
type LightSource struct {
	ID        string
	X         float64     // World X position
	Y         float64     // World Y position
	Radius    float64     // Reach; <= 0 means unbounded
	Intensity float64     // 0.0 to 1.0
	Color     color.NRGBA // Light color
}

// Position returns the light's position as a sight point.
func (l LightSource) Position() sight.Point {
	return sight.Point{X: l.X, Y: l.Y}
}

// Manager handles all light sources in a scene
type Manager struct {
	mu            sync.RWMutex
	lights        map[string]*LightSource
	ambientLight  float64 // Global ambient light level (0.0 = pitch black, 1.0 = fully lit)
	playerLight   *LightSource
	playerLightOn bool
}

// NewManager creates a new lighting manager
func NewManager() *Manager {
	return &Manager{
		lights:       make(map[string]*LightSource),
		ambientLight: 0.15,
	}
}

// SetAmbient sets the global ambient light level
func (m *Manager) SetAmbient(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ambientLight = level
}

// Ambient returns the current ambient light level
func (m *Manager) Ambient() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ambientLight
}

// Add registers a light, replacing any light with the same ID.
func (m *Manager) Add(light LightSource) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := light
	m.lights[l.ID] = &l
	logging.Logger().Debug("light added",
		"id", l.ID, "x", l.X, "y", l.Y, "radius", l.Radius, "intensity", l.Intensity)
}

// Remove deletes a light. Unknown IDs are ignored.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lights, id)
}

// Move repositions a light and reports whether it exists.
func (m *Manager) Move(id string, x, y float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lights[id]
	if !ok {
		return false
	}
	l.X = x
	l.Y = y
	return true
}

// SetPlayerLight configures the observer's light source
func (m *Manager) SetPlayerLight(x, y, radius, intensity float64, col color.NRGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.playerLight = &LightSource{
		ID:        PlayerLightID,
		X:         x,
		Y:         y,
		Radius:    radius,
		Intensity: intensity,
		Color:     col,
	}
}

// EnablePlayerLight turns the observer's light on or off
func (m *Manager) EnablePlayerLight(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playerLightOn = enabled
}

// UpdatePlayerLightPosition moves the observer's light (called each frame)
func (m *Manager) UpdatePlayerLightPosition(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playerLight != nil {
		m.playerLight.X = x
		m.playerLight.Y = y
	}
}

// Lights returns all active lights sorted by ID.
func (m *Manager) Lights() []LightSource {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lights := make([]LightSource, 0, len(m.lights)+1)
	if m.playerLightOn && m.playerLight != nil {
		lights = append(lights, *m.playerLight)
	}
	for _, l := range m.lights {
		lights = append(lights, *l)
	}

	sort.Slice(lights, func(i, j int) bool {
		return lights[i].ID < lights[j].ID
	})

	return lights
}

// Clear removes every light except the player light.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lights = make(map[string]*LightSource)
}
