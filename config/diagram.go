package config

import "strings"

// Mermaid renders the next_phase links as a Mermaid flowchart.
func Mermaid(cfg *Config) string {
	var b strings.Builder
	b.WriteString("graph TD\n\n")
	for _, p := range cfg.Phases {
		b.WriteString(mermaidID(p.ID()))
		if p.NextPhase != "" {
			b.WriteString(" --> ")
			b.WriteString(mermaidID(p.NextPhase))
		}
		b.WriteString("\n")
	}
	for _, e := range cfg.Endings {
		b.WriteString(mermaidID(e.ID()))
		b.WriteString("((\"")
		b.WriteString(e.Name)
		b.WriteString("\"))\n")
	}
	return b.String()
}

func mermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
