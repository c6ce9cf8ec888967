package domain

// Speaker identifies who produced a turn. It is a closed enumeration;
// wire-level role strings live in the serialization adapters.
type Speaker int

const (
	SpeakerSystem Speaker = iota
	SpeakerAssistant
	SpeakerUser
)

// WireRole returns the role string used by chat-completion style APIs.
func (s Speaker) WireRole() string {
	switch s {
	case SpeakerSystem:
		return "system"
	case SpeakerAssistant:
		return "assistant"
	default:
		return "user"
	}
}

func (s Speaker) String() string {
	return s.WireRole()
}

// ParseSpeaker maps a stored role string back to a Speaker. Legacy documents
// stored the template placeholders as roles, so those are accepted too.
func ParseSpeaker(role string) Speaker {
	switch role {
	case "system":
		return SpeakerSystem
	case "assistant", "{{char}}":
		return SpeakerAssistant
	default:
		return SpeakerUser
	}
}

// Turn is one role-tagged message unit in a conversation. Content is stored
// fully substituted and never re-templated.
type Turn struct {
	Speaker Speaker
	Content string
}
