package domain

import "strings"

const (
	placeholderChar = "{{char}}"
	placeholderUser = "{{user}}"
)

// RenderTemplate substitutes the two supported placeholders, {{char}} with
// the persona name and {{user}} with the display name. The scan is single
// pass: placeholder-like text introduced by a substitution is left alone, so
// rendering is never applied twice. Unknown {{...}} sequences pass through
// unchanged.
func RenderTemplate(s, charName, userName string) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.Index(s, "{{")
		if i < 0 {
			b.WriteString(s)
			break
		}
		j := strings.Index(s[i:], "}}")
		if j < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		switch s[i : i+j+2] {
		case placeholderChar:
			b.WriteString(charName)
		case placeholderUser:
			b.WriteString(userName)
		default:
			b.WriteString(s[i : i+j+2])
		}
		s = s[i+j+2:]
	}
	return b.String()
}
