package translate

import "sync/atomic"

const (
	// DefaultStickDeadzone is the factory stick deadzone on the 0-255 axis
	// scale centered at 128.
	DefaultStickDeadzone byte = 12

	// DefaultTriggerDeadzone leaves triggers unshaped.
	DefaultTriggerDeadzone byte = 0

	// MaxStickDeadzone is the largest accepted stick deadzone; setters clamp
	// to it.
	MaxStickDeadzone byte = 127
)

// Config holds the two shaping scalars read by every translation call.
// Setters replace the whole pair with a single atomic swap, so a concurrent
// translation always observes one consistent generation, never a mix of two.
type Config struct {
	p atomic.Pointer[deadzones]
}

type deadzones struct {
	stick   byte
	trigger byte
}

// NewConfig returns a Config with the factory deadzones.
func NewConfig() *Config {
	c := &Config{}
	c.p.Store(&deadzones{stick: DefaultStickDeadzone, trigger: DefaultTriggerDeadzone})
	return c
}

// SetStickDeadzone updates the stick deadzone, clamped to 0-127.
func (c *Config) SetStickDeadzone(dz byte) {
	if dz > MaxStickDeadzone {
		dz = MaxStickDeadzone
	}
	cur := c.p.Load()
	c.p.Store(&deadzones{stick: dz, trigger: cur.trigger})
}

// SetTriggerDeadzone updates the trigger deadzone (full 0-255 range).
func (c *Config) SetTriggerDeadzone(dz byte) {
	cur := c.p.Load()
	c.p.Store(&deadzones{stick: cur.stick, trigger: dz})
}

// StickDeadzone returns the current stick deadzone.
func (c *Config) StickDeadzone() byte {
	return c.p.Load().stick
}

// TriggerDeadzone returns the current trigger deadzone.
func (c *Config) TriggerDeadzone() byte {
	return c.p.Load().trigger
}

// snapshot returns both deadzones from one generation.
func (c *Config) snapshot() (stick, trigger byte) {
	dz := c.p.Load()
	return dz.stick, dz.trigger
}
