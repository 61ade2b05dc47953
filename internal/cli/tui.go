package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexsaveliev/getdeps/pkg/resolve"
)

// runResolveTUI resolves specs while showing a live progress view.
// The resolution itself runs inside a bubbletea command; the view
// quits as soon as the batch completes.
func runResolveTUI(
	ctx context.Context,
	resolver *resolve.Resolver,
	specs map[string]string,
) (map[string]resolve.Resolution, error) {
	runner := func() map[string]resolve.Resolution {
		return resolver.ResolveAll(ctx, specs)
	}

	p := tea.NewProgram(
		newResolveModel(specs, runner),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}

	m := final.(resolveModel)
	if !m.done {
		return nil, fmt.Errorf("resolution aborted")
	}
	return m.result, nil
}

type resolveDoneMsg struct {
	result map[string]resolve.Resolution
}

type tickMsg time.Time

// resolveModel is the bubbletea model for the live resolution view:
// a spinner, the elapsed time, and one line per dependency that
// flips to its outcome when the batch finishes.
type resolveModel struct {
	names  []string
	runner func() map[string]resolve.Resolution

	frame  int
	start  time.Time
	done   bool
	result map[string]resolve.Resolution
}

var tuiFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func newResolveModel(specs map[string]string, runner func() map[string]resolve.Resolution) resolveModel {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	slices.Sort(names)
	return resolveModel{
		names:  names,
		runner: runner,
		start:  time.Now(),
	}
}

func (m resolveModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.resolveCmd())
}

func (m resolveModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m resolveModel) resolveCmd() tea.Cmd {
	return func() tea.Msg {
		return resolveDoneMsg{result: m.runner()}
	}
}

func (m resolveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.frame++
		if m.done {
			return m, nil
		}
		return m, m.tick()
	case resolveDoneMsg:
		m.done = true
		m.result = msg.result
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m resolveModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Resolving %d dependencies", len(m.names))))
	b.WriteString(" ")
	if !m.done {
		b.WriteString(styleIconSpinner.Render(tuiFrames[m.frame%len(tuiFrames)]))
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf(" %s", time.Since(m.start).Round(time.Second))))
	b.WriteString("\n\n")

	for _, name := range m.names {
		switch {
		case !m.done:
			b.WriteString(StyleDim.Render("  … " + name))
		case m.resolved(name):
			b.WriteString(styleIconSuccess.Render("  "+iconSuccess) + " " + StyleValue.Render(name))
		default:
			b.WriteString(styleIconError.Render("  "+iconError) + " " + StyleDim.Render(name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m resolveModel) resolved(name string) bool {
	_, ok := m.result[name]
	return ok
}
