package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// Rows taken by the header, the bordered input and the status bar.
const chromeHeight = 6

// greeting opens every session.
const greeting = "Ask a question about the loaded documents."

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	transcript *transcript.Transcript
	input      *input.QuestionInput
	status     *status.Bar
	spinner    spinner.Model

	// busy is set while an ask, summary or load is in flight.
	busy bool

	// reloads delivers watcher-triggered loads to the program.
	reloads chan messages.LoadCompleted

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a chat TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	bar := status.NewBar(s, km)
	bar.SetModel(ports.Model)
	bar.SetDocuments(len(ports.Assistant.ListDocuments()))

	tr := transcript.New(s, 80, 20)
	if ports.InitialReport != nil {
		tr.AddReport(ports.InitialReport)
	}
	tr.AddNotice(greeting)

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		transcript: tr,
		input:      input.NewQuestionInput(s),
		status:     bar,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		reloads:    make(chan messages.LoadCompleted, 1),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.input.Init(), a.spinner.Tick}
	if a.ports.Watch {
		cmds = append(cmds, a.startWatch(), a.waitForReload())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.status.SetSpinner(a.spinner.View())
		return a, cmd

	case messages.AnswerReceived:
		a.finish()
		a.transcript.AddAnswer(msg.Answer)
		return a, nil

	case messages.SummaryReceived:
		a.finish()
		a.transcript.AddSummary(msg.Summary)
		return a, nil

	case messages.LoadCompleted:
		if !msg.Watched {
			a.finish()
		}
		a.handleLoad(msg)
		if msg.Watched {
			return a, a.waitForReload()
		}
		return a, nil

	case messages.WatchStopped:
		if msg.Err != nil {
			a.transcript.AddError(fmt.Errorf("watch stopped: %w", msg.Err))
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.Send):
		question := strings.TrimSpace(a.input.Value())
		if question == "" || a.busy {
			return a, nil
		}
		a.input.Reset()
		a.transcript.AddQuestion(question)
		a.start(status.StateThinking)
		return a, a.askCmd(question)

	case keymap.Matches(key, a.keymap.Summarize):
		if a.busy {
			return a, nil
		}
		a.transcript.AddQuestion("Summarize the documents")
		a.start(status.StateThinking)
		return a, a.summarizeCmd()

	case keymap.Matches(key, a.keymap.Documents):
		a.transcript.AddDocuments(a.ports.Assistant.ListDocuments())
		return a, nil

	case keymap.Matches(key, a.keymap.Reload):
		if a.busy || a.ports.Bucket == "" {
			return a, nil
		}
		a.start(status.StateLoading)
		return a, a.loadCmd()

	case keymap.Matches(key, a.keymap.ScrollUp), keymap.Matches(key, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleLoad(msg messages.LoadCompleted) {
	if msg.Err != nil {
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		a.transcript.AddError(msg.Err)
		return
	}
	a.status.SetDocuments(msg.Report.Loaded)
	if msg.Watched {
		a.status.SetMessage("reloaded")
	}
	a.transcript.AddReport(msg.Report)
}

func (a *App) start(state status.State) {
	a.busy = true
	a.status.SetState(state)
	a.input.Blur()
}

func (a *App) finish() {
	a.busy = false
	a.status.Clear()
	a.input.Focus()
}

func (a *App) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		return messages.AnswerReceived{
			Question: question,
			Answer:   a.ports.Assistant.Ask(a.ctx, question),
		}
	}
}

func (a *App) summarizeCmd() tea.Cmd {
	return func() tea.Msg {
		return messages.SummaryReceived{Summary: a.ports.Assistant.Summarize(a.ctx)}
	}
}

func (a *App) loadCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := a.ports.Assistant.Load(a.ctx, a.ports.Bucket)
		return messages.LoadCompleted{Report: report, Err: err}
	}
}

// startWatch runs the bucket watcher until the app context ends.
func (a *App) startWatch() tea.Cmd {
	return func() tea.Msg {
		err := a.ports.Assistant.Watch(a.ctx, a.ports.Bucket, func(report *domain.LoadReport, err error) {
			select {
			case a.reloads <- messages.LoadCompleted{Report: report, Err: err, Watched: true}:
			case <-a.ctx.Done():
			}
		})
		return messages.WatchStopped{Err: err}
	}
}

func (a *App) waitForReload() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-a.reloads:
			return msg
		case <-a.ctx.Done():
			return nil
		}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	header := a.styles.Title.Render("bucketqa")
	if a.ports.Bucket != "" {
		header += a.styles.Muted.Render("  " + a.ports.Bucket)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.transcript.View(),
		a.input.View(),
		a.status.View(),
	)
}

// Run starts the program and blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// SetDimensions lays the components out for a terminal of the given size.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	transcriptHeight := height - chromeHeight
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	a.transcript.SetSize(width, transcriptHeight)
	a.input.SetWidth(width)
	a.status.SetWidth(width)
}

// Busy reports whether a request is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// Ready reports whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// Transcript returns the rendered conversation.
func (a *App) Transcript() string {
	return a.transcript.Content()
}
