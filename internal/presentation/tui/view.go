package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muesli/termenv"

	"github.com/pulsepredict/sentinel/internal/notify"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/ports"
)

// View renders one full dashboard frame.
type View struct {
	profile  termenv.Profile
	markdown func(string) (string, error)
}

// NewView creates a View using the terminal's detected color profile.
func NewView() *View {
	return &View{
		profile:  termenv.ColorProfile(),
		markdown: NewRenderer(),
	}
}

// Render formats a snapshot, its sync mode, action statuses and the current
// notification (if any) into a printable frame.
func (v *View) Render(snap *domain.Snapshot, mode domain.SyncMode, statuses map[int]domain.ActionStatus, note *notify.Notification) string {
	var b strings.Builder

	b.WriteString(v.modeBadge(mode))
	b.WriteString("\n\n")

	v.renderEnvironment(&b, snap.Environment)
	v.renderPredictions(&b, snap)
	v.renderInventory(&b, snap.Inventory)
	v.renderAgent(&b, snap.Agent, statuses)

	if note != nil {
		b.WriteString("\n")
		b.WriteString(v.notification(*note))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.faint("  [1-9] execute action   [r] refresh   [q] quit"))
	b.WriteString("\n")
	return b.String()
}

func (v *View) modeBadge(mode domain.SyncMode) string {
	switch mode {
	case domain.ModeLive:
		return termenv.String("  ● LIVE  ").
			Foreground(v.profile.Color("#22c55e")).Bold().String() +
			v.faint("connected to command backend")
	default:
		return termenv.String("  ● OFFLINE  ").
			Foreground(v.profile.Color("#f59e0b")).Bold().String() +
			v.faint("showing built-in dataset")
	}
}

func (v *View) renderEnvironment(b *strings.Builder, env domain.Environment) {
	b.WriteString(v.heading("Environment"))
	fmt.Fprintf(b, "  Temp %.1f°C   Rain %.1fmm   AQI %.1f   Humidity %.1f%%\n\n",
		env.Temp, env.Rain, env.AQI, env.Humidity)
}

func (v *View) renderPredictions(b *strings.Builder, snap *domain.Snapshot) {
	b.WriteString(v.heading("Risk Outlook"))
	if snap.TopTrend != "" {
		fmt.Fprintf(b, "  Top trend: %s\n", termenv.String(snap.TopTrend).Bold())
	}

	names := make([]string, 0, len(snap.Predictions))
	for name := range snap.Predictions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := snap.Predictions[name]
		fmt.Fprintf(b, "  %-22s %4.1f  %s\n", name, p.Score, v.severity(p.Status))
	}
	b.WriteString("\n")
}

func (v *View) renderInventory(b *strings.Builder, inv map[string]int) {
	b.WriteString(v.heading("Hospital Inventory"))

	items := make([]string, 0, len(inv))
	for item := range inv {
		items = append(items, item)
	}
	sort.Strings(items)

	for _, item := range items {
		fmt.Fprintf(b, "  %-22s %d\n", item, inv[item])
	}
	b.WriteString("\n")
}

func (v *View) renderAgent(b *strings.Builder, agent domain.Agent, statuses map[int]domain.ActionStatus) {
	b.WriteString(v.heading("Agent Briefing"))
	if agent.Summary != "" {
		if out, err := v.markdown(agent.Summary); err == nil {
			b.WriteString(out)
		} else {
			b.WriteString("  " + agent.Summary + "\n")
		}
	}

	if len(agent.Actions) == 0 {
		return
	}
	b.WriteString(v.heading("Recommended Actions"))
	for i, action := range agent.Actions {
		b.WriteString(v.actionLine(i+1, action, statuses[action.ID]))
	}
}

func (v *View) actionLine(n int, action domain.Action, status domain.ActionStatus) string {
	marker := "  "
	title := termenv.String(action.Title)

	switch {
	case status == domain.StatusExecuted:
		marker = termenv.String("✔ ").Foreground(v.profile.Color("#22c55e")).String()
		title = title.Faint().CrossOut()
	case !action.Executable:
		marker = v.faint("– ")
		title = title.Faint()
	}

	line := fmt.Sprintf("  [%d] %s%s  %s\n", n, marker, title, v.faint(action.Type))
	if status == domain.StatusExecuted {
		return line
	}
	if !action.Executable {
		return line + v.faint("        (manual follow-up, not executable)") + "\n"
	}
	return line
}

func (v *View) notification(note notify.Notification) string {
	color := "#60a5fa"
	switch note.Level {
	case ports.NotifySuccess:
		color = "#22c55e"
	case ports.NotifyWarning:
		color = "#f59e0b"
	case ports.NotifyError:
		color = "#ef4444"
	}
	return termenv.String("  » " + note.Message).Foreground(v.profile.Color(color)).String()
}

func (v *View) severity(status string) string {
	switch status {
	case domain.SeverityCritical:
		return termenv.String(status).Foreground(v.profile.Color("#ef4444")).Bold().String()
	case domain.SeverityWarning:
		return termenv.String(status).Foreground(v.profile.Color("#f59e0b")).String()
	default:
		return termenv.String(status).Foreground(v.profile.Color("#22c55e")).String()
	}
}

func (v *View) heading(s string) string {
	return termenv.String("  "+s).Bold().Underline().String() + "\n"
}

func (v *View) faint(s string) string {
	return termenv.String(s).Faint().String()
}
