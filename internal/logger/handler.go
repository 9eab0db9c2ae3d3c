package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	provenanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	processStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)

	levelStyles = map[Level]lipgloss.Style{
		Debug:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Diagnostic: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Info:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Critical:   lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Bold(true),
	}
)

func levelTag(lev Level) string {
	return levelStyles[lev].Render(lev.String() + ":")
}

// DefaultHandler writes one line per message. File and line are shown for
// debug messages and for warnings and above.
func DefaultHandler(w io.Writer) Handler {
	var mu sync.Mutex
	return func(prov Provenance, lev Level, msg string) {
		var b strings.Builder
		if lev == Debug || lev >= Warning {
			b.WriteString(provenanceStyle.Render(prov.String()))
			b.WriteString(": ")
		}
		b.WriteString(levelTag(lev))
		b.WriteByte(' ')
		b.WriteString(msg)
		b.WriteByte('\n')

		mu.Lock()
		io.WriteString(w, b.String())
		mu.Unlock()
	}
}

// LocalHandler always shows provenance and tags each line with a process
// id, building the whole line before a single write.
func LocalHandler(w io.Writer, pid int) Handler {
	return func(prov Provenance, lev Level, msg string) {
		line := fmt.Sprintf("%s: %s %s %s\n",
			provenanceStyle.Render(prov.String()),
			processStyle.Render(fmt.Sprintf("pid %d:", pid)),
			levelTag(lev),
			msg)
		io.WriteString(w, line)
	}
}
