package input

import (
	"fmt"
	"strings"

	"github.com/milk9111/phusic/config"
)

// Row is one line of the controls table.
type Row struct {
	Action string
	Key    string
}

// Section is a titled group of rows.
type Section struct {
	Title string
	Rows  []Row
}

// Describe lists the controls of cfg grouped into Generic, Phases, SFX and
// Endings.
func Describe(cfg *config.Config) []Section {
	generic := Section{Title: "Generic", Rows: []Row{
		{Action: "Fullscreen", Key: Label(cfg.Controls.Fullscreen)},
		{Action: "Controls", Key: Label(cfg.Controls.Controls)},
		{Action: "Next", Key: "Right or Space"},
		{Action: "Previous", Key: "Left"},
		{Action: "Jump to next", Key: "Ctrl+Right"},
		{Action: "Jump to previous", Key: "Ctrl+Left"},
		{Action: "Quit", Key: "Ctrl+C"},
	}}

	phases := Section{Title: "Phases"}
	for _, p := range cfg.Phases {
		if p.Key != "" {
			phases.Rows = append(phases.Rows, Row{Action: p.Name, Key: Label(p.Key)})
		}
	}

	sfx := Section{Title: "SFX"}
	for _, s := range cfg.Sfx {
		sfx.Rows = append(sfx.Rows, Row{Action: s.Name, Key: Label(s.Key)})
	}

	endings := Section{Title: "Endings"}
	for _, e := range cfg.Endings {
		endings.Rows = append(endings.Rows, Row{Action: e.Name, Key: Label(e.Key)})
	}

	out := []Section{generic}
	if len(phases.Rows) > 0 {
		out = append(out, phases)
	}
	return append(out, sfx, endings)
}

// Markdown renders sections as titled GitHub tables.
func Markdown(sections []Section) string {
	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", s.Title)

		actionW, keyW := len("Action"), len("Key")
		for _, r := range s.Rows {
			actionW = max(actionW, len(r.Action))
			keyW = max(keyW, len(r.Key))
		}
		fmt.Fprintf(&sb, "| %-*s | %-*s |\n", actionW, "Action", keyW, "Key")
		fmt.Fprintf(&sb, "|%s|%s|\n", strings.Repeat("-", actionW+2), strings.Repeat("-", keyW+2))
		for _, r := range s.Rows {
			fmt.Fprintf(&sb, "| %-*s | %-*s |\n", actionW, r.Action, keyW, r.Key)
		}
	}
	return sb.String()
}
