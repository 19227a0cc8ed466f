package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ldgraph/pkg/canon"
	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/diff"
	"github.com/matzehuels/ldgraph/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	paneStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// browseCommand creates the interactive diff browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags captureFlags
		slot  string
	)

	cmd := &cobra.Command{
		Use:   "browse <left> <right>",
		Short: "Browse the node changes between two captures",
		Long: `Browse the node changes between two captures.

Lists every added, removed and changed node of the slot. Press enter on a
node to see its canonical form on both sides.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			left, err := loadCapture(ctx, runner, args[0], flags)
			if err != nil {
				return err
			}
			right, err := loadCapture(ctx, runner, args[1], flags)
			if err != nil {
				return err
			}

			res := runner.Compare(ctx, left, right, slot)
			if !res.Available() || res.Empty() {
				printDiff(res)
				return nil
			}

			model := NewDiffBrowserModel(res, left, right)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&slot, "slot", pipeline.DefaultSlot, "slot to compare")

	return cmd
}

// =============================================================================
// DiffBrowserModel - Interactive diff navigation
// =============================================================================

// DiffBrowserModel is the bubbletea model for browsing node changes.
type DiffBrowserModel struct {
	Result diff.Result
	Rows   []diffRow
	Left   map[string]string
	Right  map[string]string

	Cursor int
	Offset int
	Height int
	Detail bool
}

// NewDiffBrowserModel creates a browser over the node changes of res. The
// bundles supply the canonical node text shown in the detail view.
func NewDiffBrowserModel(res diff.Result, left, right *capture.Bundle) DiffBrowserModel {
	var rows []diffRow
	for _, r := range diffRows(res) {
		if r.kind == "node" {
			rows = append(rows, r)
		}
	}
	return DiffBrowserModel{
		Result: res,
		Rows:   rows,
		Left:   nodeIndex(left, res.Slot),
		Right:  nodeIndex(right, res.Slot),
		Height: 15,
	}
}

// nodeIndex maps node keys of one slot to their canonical text. For
// duplicate keys the first node wins.
func nodeIndex(b *capture.Bundle, slot string) map[string]string {
	idx := map[string]string{}
	docs, _ := b.Slot(slot)
	for _, n := range diff.Flatten(docs) {
		key := canon.Key(n)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = canon.String(n)
		}
	}
	return idx
}

func (m DiffBrowserModel) Init() tea.Cmd {
	return nil
}

func (m DiffBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DiffBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Slot " + m.Result.Slot))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(m.Result.Summary()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  esc back  q quit"))
	b.WriteString("\n\n")

	if m.Detail && m.Cursor < len(m.Rows) {
		b.WriteString(m.detailView(m.Rows[m.Cursor]))
	} else {
		b.WriteString(m.listView())
	}

	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	return b.String()
}

func (m DiffBrowserModel) listView() string {
	end := min(m.Offset+m.Height, len(m.Rows))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark, _ := statusMark(r.status)
		rows = append(rows, []string{cursor, mark, truncate(r.key, 72)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Node").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			_, style := statusMark(m.Rows[idx].status)
			if idx == m.Cursor {
				return style.Bold(true)
			}
			return style
		})
	return t.Render()
}

func (m DiffBrowserModel) detailView(r diffRow) string {
	left := paneStyle.Render(StyleDim.Render("before") + "\n" + prettyCanon(m.Left[r.key]))
	right := paneStyle.Render(StyleDim.Render("after") + "\n" + prettyCanon(m.Right[r.key]))
	mark, style := statusMark(r.status)
	head := style.Render(mark+" "+r.status) + " " + StyleValue.Render(r.key)
	return head + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// prettyCanon indents canonical JSON for display.
func prettyCanon(s string) string {
	if s == "" {
		return listDimStyle.Render("(absent)")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}
