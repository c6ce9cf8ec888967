package domain

// Persona is a named character configuration owned by exactly one user and
// identified by its position in User.Personas. Name and the two templates may
// contain the {{char}} and {{user}} placeholders; History holds substituted
// text only.
type Persona struct {
	Name     string
	Prompt   string
	Greeting string
	History  []Turn
}

func NewDefaultPersona() *Persona {
	return &Persona{
		Name:     DefaultPersonaName,
		Prompt:   DefaultPersonaPrompt,
		Greeting: DefaultPersonaGreeting,
		History:  make([]Turn, 0, DefaultHistoryCap),
	}
}

// AppendTurn appends a turn to the bounded history. When the history is at
// capacity the two oldest turns are evicted first, keeping user/assistant
// turns paired. The pair eviction assumes writes arrive in pairs; a lone
// append at capacity would shift the pairing, so callers must never append a
// user turn without its assistant reply.
func (p *Persona) AppendTurn(t Turn, capacity int) {
	if capacity > 0 && len(p.History) >= capacity && len(p.History) >= 2 {
		p.History = append(p.History[:0], p.History[2:]...)
	}
	p.History = append(p.History, t)
}

// ClearHistory resets the history to empty.
func (p *Persona) ClearHistory() {
	p.History = make([]Turn, 0, DefaultHistoryCap)
}

// LastTurnOr returns the content of the most recent turn, or fallback when
// the history is empty.
func (p *Persona) LastTurnOr(fallback string) string {
	if len(p.History) == 0 {
		return fallback
	}
	return p.History[len(p.History)-1].Content
}

func (p *Persona) Clone() *Persona {
	c := &Persona{
		Name:     p.Name,
		Prompt:   p.Prompt,
		Greeting: p.Greeting,
		History:  make([]Turn, len(p.History)),
	}
	copy(c.History, p.History)
	return c
}
