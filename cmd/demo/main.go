package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const indexFile = "rect_index.gob"

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6")).
			Background(lipgloss.Color("#282A36")).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BD93F9")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	statStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))
)

type stage int

const (
	stageIndexing stage = iota
	stageIndexComplete
	stageContains
	stageContainsComplete
	stageBox
	stageBoxComplete
	stageNearest
	stageNearestComplete
	stageDone
)

type model struct {
	cfg             Config
	stage           stage
	spinner         spinner.Model
	progress        progress.Model
	progressPercent float64

	// Indexing stats
	rectsIndexed int
	indexTime    time.Duration

	// Benchmark stats
	containsStats benchmarkResult
	boxStats      benchmarkResult
	nearestStats  benchmarkResult

	// Messages
	messages []string
	width    int
	height   int
}

type benchmarkResult struct {
	totalQueries  int64
	totalTime     time.Duration
	totalResults  int64
	avgQueryTime  time.Duration
	queriesPerSec float64
}

type indexStats struct {
	rects    int
	duration time.Duration
}

type progressMsg float64
type advanceMsg struct{}
type stageCompleteMsg struct {
	stage stage
	stats interface{}
}
type messageMsg string

func initialModel(cfg Config) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	p := progress.New(progress.WithDefaultGradient())

	return model{
		cfg:      cfg,
		stage:    stageIndexing,
		spinner:  s,
		progress: p,
		messages: []string{},
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			go runDemo(m.cfg, program.Send)
			return nil
		},
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		m.progressPercent = float64(msg)
		return m, m.progress.SetPercent(float64(msg))

	case messageMsg:
		m.messages = append(m.messages, string(msg))
		if len(m.messages) > 5 {
			m.messages = m.messages[1:]
		}
		return m, nil

	case advanceMsg:
		if m.stage < stageDone {
			m.stage++
		}
		return m, nil

	case stageCompleteMsg:
		switch msg.stage {
		case stageIndexing:
			if stats, ok := msg.stats.(indexStats); ok {
				m.rectsIndexed = stats.rects
				m.indexTime = stats.duration
			}
			m.stage = stageIndexComplete
		case stageContains:
			if stats, ok := msg.stats.(benchmarkResult); ok {
				m.containsStats = stats
			}
			m.stage = stageContainsComplete
		case stageBox:
			if stats, ok := msg.stats.(benchmarkResult); ok {
				m.boxStats = stats
			}
			m.stage = stageBoxComplete
		case stageNearest:
			if stats, ok := msg.stats.(benchmarkResult); ok {
				m.nearestStats = stats
			}
			m.stage = stageNearestComplete
		}

		// Auto-advance past the stats screen
		if m.stage < stageDone {
			return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
				return advanceMsg{}
			})
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Go Rect-Index Demo"))
	b.WriteString("\n\n")

	switch m.stage {
	case stageIndexing:
		b.WriteString(subtitleStyle.Render("Indexing Rectangles"))
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + fmt.Sprintf(" Indexing %d random rectangles...\n\n", m.cfg.Demo.Rects))
		b.WriteString(m.progress.ViewAs(m.progressPercent))

	case stageIndexComplete:
		b.WriteString(renderIndexStats(m.rectsIndexed, m.indexTime))

	case stageContains:
		b.WriteString(subtitleStyle.Render("Running Point Containment Queries"))
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + fmt.Sprintf(" Executing %d containment queries...\n\n", m.cfg.Demo.Queries))
		b.WriteString(m.progress.ViewAs(m.progressPercent))

	case stageContainsComplete:
		b.WriteString(renderBenchmarkStats("Point Containment Queries", m.containsStats))

	case stageBox:
		b.WriteString(subtitleStyle.Render("Running Box Intersection Queries"))
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + fmt.Sprintf(" Executing %d box queries...\n\n", m.cfg.Demo.Queries))
		b.WriteString(m.progress.ViewAs(m.progressPercent))

	case stageBoxComplete:
		b.WriteString(renderBenchmarkStats("Box Intersection Queries", m.boxStats))

	case stageNearest:
		b.WriteString(subtitleStyle.Render("Running Nearest Neighbor Searches"))
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + fmt.Sprintf(" Finding %d nearest rectangles for %d queries...\n\n",
			m.cfg.Demo.Neighbors, m.cfg.Demo.Queries))
		b.WriteString(m.progress.ViewAs(m.progressPercent))

	case stageNearestComplete:
		b.WriteString(renderBenchmarkStats("Nearest Neighbor Searches", m.nearestStats))

	case stageDone:
		b.WriteString(renderSummary(m))
	}

	if len(m.messages) > 0 {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Recent activity:"))
		b.WriteString("\n")
		for _, msg := range m.messages {
			b.WriteString(dimStyle.Render("• " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press 'q' to quit"))

	return b.String()
}

func renderIndexStats(rects int, duration time.Duration) string {
	stats := fmt.Sprintf(
		"✓ Indexed %s rectangles in %s\n"+
			"✓ Rectangles per second: %s\n"+
			"✓ Index saved to %s",
		statStyle.Render(fmt.Sprintf("%d", rects)),
		statStyle.Render(duration.String()),
		statStyle.Render(fmt.Sprintf("%.0f", float64(rects)/duration.Seconds())),
		statStyle.Render(indexFile),
	)

	return boxStyle.Render(successStyle.Render("Indexing Complete!\n\n") + stats)
}

func renderBenchmarkStats(title string, stats benchmarkResult) string {
	content := fmt.Sprintf(
		"✓ Total queries: %s\n"+
			"✓ Total time: %s\n"+
			"✓ Queries per second: %s\n"+
			"✓ Average query time: %s\n"+
			"✓ Total results found: %s\n"+
			"✓ Average results per query: %s",
		statStyle.Render(fmt.Sprintf("%d", stats.totalQueries)),
		statStyle.Render(stats.totalTime.String()),
		statStyle.Render(fmt.Sprintf("%.0f", stats.queriesPerSec)),
		statStyle.Render(stats.avgQueryTime.String()),
		statStyle.Render(fmt.Sprintf("%d", stats.totalResults)),
		statStyle.Render(fmt.Sprintf("%.1f", float64(stats.totalResults)/float64(stats.totalQueries))),
	)

	return boxStyle.Render(successStyle.Render(title+" Complete!\n\n") + content)
}

func renderSummary(m model) string {
	summary := titleStyle.Render("Demo Complete!")
	summary += "\n\n"

	summary += infoStyle.Render("The R-Tree rectangle index demonstrated:")
	summary += "\n\n"

	features := []string{
		fmt.Sprintf("• Parallel indexing using %d CPU cores", runtime.NumCPU()),
		fmt.Sprintf("• Point containment queries (%s queries/sec)", statStyle.Render(fmt.Sprintf("%.0f", m.containsStats.queriesPerSec))),
		fmt.Sprintf("• Box intersection queries (%s queries/sec)", statStyle.Render(fmt.Sprintf("%.0f", m.boxStats.queriesPerSec))),
		fmt.Sprintf("• Nearest neighbor lookups (%s queries/sec)", statStyle.Render(fmt.Sprintf("%.0f", m.nearestStats.queriesPerSec))),
	}

	for _, feature := range features {
		summary += successStyle.Render(feature) + "\n"
	}

	summary += "\n"
	summary += boxStyle.Render(
		infoStyle.Render("Performance Summary:\n\n") +
			fmt.Sprintf("Total rectangles indexed: %s\n", statStyle.Render(fmt.Sprintf("%d", m.rectsIndexed))) +
			fmt.Sprintf("Index creation time: %s\n", statStyle.Render(m.indexTime.String())) +
			fmt.Sprintf("Average query performance: %s", statStyle.Render(fmt.Sprintf("~%.0f queries/sec",
				(m.containsStats.queriesPerSec+m.boxStats.queriesPerSec+m.nearestStats.queriesPerSec)/3))),
	)

	return summary
}

var program *tea.Program

func main() {
	cfg, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		runPlain(cfg)
		return
	}

	program = tea.NewProgram(initialModel(cfg))

	if _, err := program.Run(); err != nil {
		log.Fatal(err)
	}
}
