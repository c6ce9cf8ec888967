package domain

import "time"

const (
	// DefaultHistoryCap is the per-persona bounded history size.
	DefaultHistoryCap = 20

	DefaultDisplayName     = "Вы"
	DefaultPersonaName     = "AI"
	DefaultPersonaPrompt   = "You are a useful AI assistant"
	DefaultPersonaGreeting = "How I can help?"
)

// User is the aggregate root for one chat identity. PendingCommand,
// LastMenuMessageID and LastRequestAt are session-scoped and never persisted.
type User struct {
	ID          int64
	DisplayName string
	Description string

	// Personas is append-only and never empty.
	Personas []*Persona

	// ActivePersona is an index into Personas. Mutate it through
	// ChangeActivePersona, which rejects out-of-range values.
	ActivePersona int

	PendingCommand    PendingCommand
	LastMenuMessageID int
	LastRequestAt     time.Time
}

// NewUser constructs a fresh user with a single default persona.
func NewUser(id int64) *User {
	return &User{
		ID:          id,
		DisplayName: DefaultDisplayName,
		Personas:    []*Persona{NewDefaultPersona()},
	}
}

// CurrentPersona returns the active persona. The active index is always
// valid because personas are append-only and the switch is guarded.
func (u *User) CurrentPersona() *Persona {
	return u.Personas[u.ActivePersona]
}

// ChangeActivePersona switches the active persona. Out-of-range indices are
// rejected and leave the current selection unchanged.
func (u *User) ChangeActivePersona(index int) bool {
	if index < 0 || index >= len(u.Personas) {
		return false
	}
	u.ActivePersona = index
	return true
}

// AddPersona appends a new default persona, makes it active and returns it.
func (u *User) AddPersona() *Persona {
	p := NewDefaultPersona()
	u.Personas = append(u.Personas, p)
	u.ActivePersona = len(u.Personas) - 1
	return p
}

// Clone returns a deep copy covering the persisted fields. Session-scoped
// fields are zeroed, matching what a store round-trip would produce.
func (u *User) Clone() *User {
	c := &User{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		Description:   u.Description,
		ActivePersona: u.ActivePersona,
		Personas:      make([]*Persona, len(u.Personas)),
	}
	for i, p := range u.Personas {
		c.Personas[i] = p.Clone()
	}
	return c
}
