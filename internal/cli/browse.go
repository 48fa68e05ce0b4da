package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/standardmorph/standardmorph/pkg/pipeline"
	"github.com/standardmorph/standardmorph/pkg/report"
)

// browseCommand creates the browse command for inspecting findings
// interactively.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "browse <file.swc>",
		Short: "Inspect validation findings interactively",
		Long: `Validate an SWC file and browse its findings in the terminal.

Each finding row shows the rule, its description, and the offending node
IDs; selecting a row expands the full node list with coordinates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", opts.Delimiter, "column delimiter (default: any whitespace)")
	cmd.Flags().Float64VarP(&opts.SomaChildrenDistanceThreshold, "threshold", "t", opts.SomaChildrenDistanceThreshold, "max soma-to-child distance in microns (default 50)")
	cmd.Flags().StringVar(&opts.Convention, "convention", opts.Convention, "filename convention to check: AIND, AIBS")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.InputPath = input
	opts.IncludeNodeDetails = true

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	if res.Report.Passed() {
		printSuccess("%s passed all checks, nothing to browse", input)
		return nil
	}

	model := newFindingsModel(res.Report)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("browse ui: %w", err)
	}
	return nil
}

// =============================================================================
// findingsModel - Interactive finding inspection
// =============================================================================

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// findingsModel is the bubbletea model for browsing findings.
type findingsModel struct {
	rep      report.Report
	cursor   int
	expanded bool
}

func newFindingsModel(rep report.Report) findingsModel {
	return findingsModel{rep: rep}
}

func (m findingsModel) Init() tea.Cmd {
	return nil
}

func (m findingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.expanded = false
			}
		case "down", "j":
			if m.cursor < len(m.rep.Findings)-1 {
				m.cursor++
				m.expanded = false
			}
		case "enter", " ":
			m.expanded = !m.expanded
		}
	}
	return m, nil
}

func (m findingsModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Findings: " + m.rep.InputFile))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  q quit"))
	b.WriteString("\n\n")

	rows := [][]string{}
	for i, f := range m.rep.Findings {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, f.Test, summarizeNodes(f.NodesWithError), f.Description})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Rule", "Nodes", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.expanded && m.cursor < len(m.rep.Findings) {
		b.WriteString("\n")
		b.WriteString(m.renderDetail(m.rep.Findings[m.cursor]))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rep.Findings))))
	return b.String()
}

// renderDetail expands one finding into its full node list.
func (m findingsModel) renderDetail(f report.Finding) string {
	var b strings.Builder
	b.WriteString(StyleWarning.Render(f.Test))
	b.WriteString("\n")

	if len(f.NodeDetails) > 0 {
		for _, d := range f.NodeDetails {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  node %d at (%.1f, %.1f, %.1f)\n", d.ID, d.X, d.Y, d.Z)))
		}
		return b.String()
	}
	for _, id := range f.NodesWithError {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  node %d\n", id)))
	}
	return b.String()
}

// summarizeNodes compresses a node list for the table column.
func summarizeNodes(ids []int) string {
	if len(ids) == 0 {
		return "—"
	}
	if len(ids) <= 4 {
		return strings.Trim(fmt.Sprint(ids), "[]")
	}
	return fmt.Sprintf("%d nodes", len(ids))
}
