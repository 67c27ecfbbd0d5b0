package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"playdex/internal/shared"
	"playdex/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunView ViewState = iota
	ResultView
)

// IndexRunner runs one indexing pass, reporting progress on the channel.
// Satisfied by [tasks.Indexer].
type IndexRunner interface {
	Run(ctx context.Context, rawPlaylist string, progress chan<- tasks.ProgressUpdate) (*tasks.RunResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	runner   IndexRunner
	playlist string

	width  int
	height int

	progressChan chan tasks.ProgressUpdate
	done         chan runCompleteMsg
	current      tasks.ProgressUpdate
	seenPhases   map[tasks.Phase]bool

	spin spinner.Model
	bar  progress.Model

	result *tasks.RunResult
	err    error

	help help.Model
	keys keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.RunResult
	err    error
}

// NewModel creates a new TUI model for indexing the given playlist.
func NewModel(ctx context.Context, runner IndexRunner, playlist string) *Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.title

	return &Model{
		ctx:        ctx,
		view:       RunView,
		runner:     runner,
		playlist:   playlist,
		seenPhases: make(map[tasks.Phase]bool),
		spin:       spin,
		bar:        progress.New(progress.WithDefaultGradient()),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Result returns the run result once the TUI has finished, nil before then.
func (m *Model) Result() *tasks.RunResult { return m.result }

// Err returns the run error, if any.
func (m *Model) Err() error { return m.err }

// Init starts the indexing run.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.startRun())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-8, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.view == ResultView {
				return m.restart()
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progressUpdateMsg:
		m.current = tasks.ProgressUpdate(msg)
		m.seenPhases[m.current.Phase] = true
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) restart() (tea.Model, tea.Cmd) {
	m.view = RunView
	m.result = nil
	m.err = nil
	m.current = tasks.ProgressUpdate{}
	m.seenPhases = make(map[tasks.Phase]bool)
	return m, tea.Batch(m.spin.Tick, m.startRun())
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	done := make(chan runCompleteMsg, 1)
	go func() {
		result, err := m.runner.Run(m.ctx, m.playlist, m.progressChan)
		done <- runCompleteMsg{result: result, err: err}
		close(m.progressChan)
	}()
	m.done = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

var phaseOrder = []tasks.Phase{
	tasks.ResolvePlaylist,
	tasks.FetchPlaylist,
	tasks.FetchTracks,
	tasks.EnrichTracks,
	tasks.DownloadArtwork,
	tasks.AssembleSnapshot,
}

var phaseLabels = map[tasks.Phase]string{
	tasks.ResolvePlaylist:  "Resolve playlist",
	tasks.FetchPlaylist:    "Fetch metadata",
	tasks.FetchTracks:      "Fetch tracks",
	tasks.EnrichTracks:     "Audio features",
	tasks.DownloadArtwork:  "Download artwork",
	tasks.AssembleSnapshot: "Assemble snapshot",
}

func (m *Model) renderRun() string {
	out := styles.title.Render(fmt.Sprintf("Indexing %s", m.playlist)) + "\n\n"

	for _, phase := range phaseOrder {
		switch {
		case phase == m.current.Phase && m.seenPhases[phase]:
			out += fmt.Sprintf("%s %s\n", m.spin.View(), phaseLabels[phase])
			if m.current.Total > 1 {
				percent := float64(m.current.Step) / float64(m.current.Total)
				out += fmt.Sprintf("  %s %d/%d\n", m.bar.ViewAs(percent), m.current.Step, m.current.Total)
			}
			if m.current.Message != "" {
				out += styles.help.Render("  "+m.current.Message) + "\n"
			}
		case m.seenPhases[phase]:
			out += styles.ok.Render("✓ ") + phaseLabels[phase] + "\n"
		default:
			out += styles.help.Render("· "+phaseLabels[phase]) + "\n"
		}
	}

	return out + "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) renderResult() string {
	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("Indexing failed: %v", m.err))
		return fmt.Sprintf("%s\n\n%s", body, m.help.ShortHelpView(m.keys.FullHelp()[0]))
	}

	if m.result == nil || m.result.Snapshot == nil {
		body := styles.err.Render("No snapshot available")
		return fmt.Sprintf("%s\n\n%s", body, m.help.ShortHelpView(m.keys.FullHelp()[0]))
	}

	snap := m.result.Snapshot
	summary := snap.Summary

	title := styles.ok.Render(fmt.Sprintf("✓ Indexed %s", snap.PlaylistMetadata.Name))
	info := fmt.Sprintf(
		"\nTracks: %d\nDuration: %s (%.2f hours)\nUnique artists: %d\nArtwork: %d downloaded, %d skipped, %d failed",
		summary.TotalTracks,
		shared.FormatDuration(summary.TotalDurationMS),
		summary.TotalDurationHours,
		summary.UniqueArtists,
		summary.ArtworkDownloaded,
		summary.ArtworkSkipped,
		summary.ArtworkFailed,
	)

	var warnings string
	if m.result.SkippedEntries > 0 {
		warnings += "\n" + styles.warn.Render(fmt.Sprintf("Skipped %d malformed entries", m.result.SkippedEntries))
	}
	if m.result.FailedBatches > 0 {
		warnings += "\n" + styles.warn.Render(fmt.Sprintf("%d feature batches failed", m.result.FailedBatches))
	}
	if m.result.PaginationErr != nil {
		warnings += "\n" + styles.warn.Render(fmt.Sprintf("Pagination interrupted: %v", m.result.PaginationErr))
	}

	helpView := m.help.ShortHelpView(m.keys.FullHelp()[0])
	return fmt.Sprintf("%s%s%s\n\n%s", title, info, warnings, helpView)
}
