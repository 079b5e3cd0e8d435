package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/newsdataio/newsdata-go/pkg/newsdata"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ArticleListModel - Interactive article selection
// =============================================================================

// listKeyMap holds the picker key bindings.
type listKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Select key.Binding
	Quit   key.Binding
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Top}, {k.Select, k.Quit}}
}

var listKeys = listKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "open")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// ArticleListModel is the bubbletea model for picking one article from a
// result page.
type ArticleListModel struct {
	Articles []newsdata.Article
	Cursor   int
	Selected *newsdata.Article
	Height   int
	Offset   int

	help help.Model
}

// NewArticleListModel creates a new article list model.
func NewArticleListModel(articles []newsdata.Article) ArticleListModel {
	return ArticleListModel{
		Articles: articles,
		Height:   15,
		help:     help.New(),
	}
}

func (m ArticleListModel) Init() tea.Cmd {
	return nil
}

func (m ArticleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, listKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, listKeys.Up):
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case key.Matches(msg, listKeys.Down):
			if m.Cursor < len(m.Articles)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case key.Matches(msg, listKeys.Top):
			m.Cursor, m.Offset = 0, 0
		case key.Matches(msg, listKeys.Select):
			if len(m.Articles) == 0 {
				return m, tea.Quit
			}
			a := m.Articles[m.Cursor]
			m.Selected = &a
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ArticleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Article"))
	b.WriteString("\n")
	b.WriteString(m.help.View(listKeys))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Articles) {
		end = len(m.Articles)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		a := m.Articles[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		source := a.SourceID
		if source == "" {
			source = "—"
		}
		rows = append(rows, []string{cursor, truncate(a.Title, 70), source, formatPubDate(a.PubDate)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Title", "Source", "Published").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				if col == 1 {
					return listSelectedStyle
				}
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if col == 1 {
				return StyleValue
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Articles) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Articles))))
	}

	return b.String()
}

// runArticlePicker shows the picker and prints the chosen article.
func runArticlePicker(ctx context.Context, articles []newsdata.Article) error {
	if len(articles) == 0 {
		printInfo("No articles found")
		return nil
	}

	final, err := tea.NewProgram(NewArticleListModel(articles), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("article picker: %w", err)
	}

	m, ok := final.(ArticleListModel)
	if !ok || m.Selected == nil {
		return nil
	}
	printArticle(*m.Selected)
	return nil
}

// printArticle prints the fields of a single article.
func printArticle(a newsdata.Article) {
	fmt.Println(StyleTitle.Render(a.Title))
	if a.Description != "" {
		printDetail("%s", truncate(a.Description, 300))
	}
	fmt.Println()
	printKeyValue("source", a.SourceID)
	printKeyValue("published", a.PubDate)
	if len(a.Creator) > 0 {
		printKeyValue("by", strings.Join(a.Creator, ", "))
	}
	if len(a.Category) > 0 {
		printKeyValue("category", strings.Join(a.Category, ", "))
	}
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleLink.Render(a.Link))
}

// =============================================================================
// Helpers
// =============================================================================

// pubDateLayout is the timestamp layout of the pubDate field (UTC).
const pubDateLayout = "2006-01-02 15:04:05"

// formatPubDate renders a publication timestamp relative to now.
func formatPubDate(s string) string {
	return formatRelativeTime(s, time.Now())
}

func formatRelativeTime(s string, now time.Time) string {
	t, err := time.Parse(pubDateLayout, s)
	if err != nil {
		return s
	}

	diff := now.Sub(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2, 15:04")
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
