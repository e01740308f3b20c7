package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/copywriter/internal/config"
	"github.com/sant0-9/copywriter/internal/llm"
	"github.com/sant0-9/copywriter/internal/pipeline"
	"github.com/sant0-9/copywriter/internal/store"
	"github.com/sant0-9/copywriter/internal/studio"
)

type view int

const (
	viewSetup view = iota
	viewArtists
	viewArtist
	viewGuide
	viewEditGuide
	viewGenerate
	viewProcessing
	viewResult
	viewSettings
	viewHelp
	viewError
)

type App struct {
	width    int
	height   int
	view     view
	state    *state
	store    *store.Store
	logger   *slog.Logger
	quitting bool
}

// NewApp creates the application. A nil cfg starts the setup wizard.
func NewApp(cfg *config.Config, st *store.Store, logger *slog.Logger) *App {
	s := newState()
	if cfg == nil {
		s.needsSetup = true
		s.config = config.DefaultConfig()
	} else {
		s.config = cfg
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &App{
		view:   viewArtists,
		state:  s,
		store:  st,
		logger: logger,
	}
}

func (a *App) Init() tea.Cmd {
	if a.state.needsSetup {
		a.view = viewSetup
		return tea.Batch(tea.WindowSize(), textinput.Blink)
	}

	return tea.Batch(
		tea.WindowSize(),
		a.connect(),
		a.loadArtists(),
	)
}

// connect builds the provider and studio, then pings the provider. A failed
// ping still yields a usable studio so artists can be browsed offline.
func (a *App) connect() tea.Cmd {
	cfg := a.state.config
	return func() tea.Msg {
		provider, err := llm.NewProvider(cfg)
		if err != nil {
			return providerErrorMsg{err: err}
		}
		st, err := studio.New(cfg, provider, a.store, a.logger)
		if err != nil {
			return providerErrorMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := provider.Ping(ctx); err != nil {
			a.logger.Warn("provider not reachable", "provider", provider.Name(), "error", err)
			return providerErrorMsg{studio: st, err: err}
		}
		return providerReadyMsg{studio: st}
	}
}

type setupCompleteMsg struct{}
type setupErrorMsg struct{ error }

type providerReadyMsg struct{ studio *studio.Studio }

type providerErrorMsg struct {
	studio *studio.Studio
	err    error
}

type artistsLoadedMsg struct {
	artists []*store.Artist
	err     error
}

type artistCreatedMsg struct {
	artist *store.Artist
	err    error
}

type artistLoadedMsg struct {
	artist    *store.Artist
	documents []*store.Document
	guide     string
	words     int
	err       error
}

type progressMsg pipeline.Progress

type ingestDoneMsg struct {
	verb   string
	result *pipeline.Result
	err    error
}

type documentDeletedMsg struct{ err error }

type guideBuiltMsg struct {
	guide string
	err   error
}

type guideSavedMsg struct{ err error }

type generatedMsg struct {
	generation *studio.Generation
	text       string
	err        error
}

type exportedMsg struct {
	exported *studio.Exported
	err      error
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()

	case spinner.TickMsg:
		if a.view != viewProcessing {
			return a, nil
		}
		var cmd tea.Cmd
		a.state.spinner, cmd = a.state.spinner.Update(msg)
		return a, cmd

	case setupCompleteMsg:
		a.state.needsSetup = false
		a.view = viewArtists
		return a, tea.Batch(a.connect(), a.loadArtists())

	case setupErrorMsg:
		return a, a.showError(msg.error, viewSetup)

	case providerReadyMsg:
		a.state.studio = msg.studio
		a.state.providerReady = true
		a.state.providerError = nil
		return a, nil

	case providerErrorMsg:
		if msg.studio != nil {
			a.state.studio = msg.studio
		}
		a.state.providerReady = false
		a.state.providerError = msg.err
		return a, nil

	case artistsLoadedMsg:
		if msg.err != nil {
			return a, a.showError(msg.err, viewArtists)
		}
		a.state.artists = msg.artists
		if a.state.artistCursor >= len(msg.artists) {
			a.state.artistCursor = max(0, len(msg.artists)-1)
		}
		return a, nil

	case artistCreatedMsg:
		a.state.addingArtist = false
		a.state.input.Reset()
		a.state.input.Blur()
		if msg.err != nil {
			return a, a.showError(msg.err, viewArtists)
		}
		return a, a.loadArtists()

	case artistLoadedMsg:
		if msg.err != nil {
			return a, a.showError(msg.err, viewArtists)
		}
		a.state.selectedArtist = msg.artist
		a.state.documents = msg.documents
		a.state.styleGuide = msg.guide
		a.state.corpusWords = msg.words
		if a.state.docCursor >= len(msg.documents) {
			a.state.docCursor = max(0, len(msg.documents)-1)
		}
		if a.view == viewArtists || a.view == viewProcessing {
			a.view = viewArtist
		}
		return a, nil

	case progressMsg:
		p := pipeline.Progress(msg)
		a.state.progress = &p
		return a, waitForProgress(a.state.progressCh)

	case ingestDoneMsg:
		a.stopProcessing()
		a.state.uploading = false
		if msg.err != nil {
			return a, a.showError(msg.err, viewArtist)
		}
		a.state.lastIngest = msg.result
		a.state.lastVerb = msg.verb
		a.view = viewArtist
		return a, a.loadArtist(a.state.selectedArtist)

	case documentDeletedMsg:
		if msg.err != nil {
			return a, a.showError(msg.err, viewArtist)
		}
		return a, a.loadArtist(a.state.selectedArtist)

	case guideBuiltMsg:
		a.stopProcessing()
		if msg.err != nil {
			return a, a.showError(msg.err, viewArtist)
		}
		a.state.styleGuide = msg.guide
		a.openGuide()
		return a, tea.Batch(a.loadArtist(a.state.selectedArtist), a.loadArtists())

	case guideSavedMsg:
		if msg.err != nil {
			return a, a.showError(msg.err, viewEditGuide)
		}
		a.state.guideEditor.Blur()
		a.openGuide()
		return a, tea.Batch(a.loadArtist(a.state.selectedArtist), a.loadArtists())

	case generatedMsg:
		a.stopProcessing()
		if msg.err != nil {
			return a, a.showError(msg.err, viewGenerate)
		}
		if msg.generation != nil {
			a.state.generation = msg.generation
			a.state.resultText = msg.generation.Copy
		} else {
			a.state.generation = nil
			a.state.resultText = msg.text
		}
		a.state.exported = nil
		a.state.resultViewport.SetContent(wrapText(a.state.resultText, a.state.resultViewport.Width))
		a.state.resultViewport.GotoTop()
		a.view = viewResult
		return a, nil

	case exportedMsg:
		if msg.err != nil {
			return a, a.showError(msg.err, a.view)
		}
		a.state.exported = msg.exported
		a.state.notice = "Saved " + msg.exported.Markdown + " and .html"
		return a, nil
	}

	cmds = append(cmds, a.updateInputs(msg))
	return a, tea.Batch(cmds...)
}

// updateInputs forwards non-key messages such as cursor blinks to whichever
// component has focus
func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.view {
	case viewSetup:
		if a.state.setupStep == setupGallery {
			a.state.input, cmd = a.state.input.Update(msg)
		} else {
			a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		}
	case viewSettings:
		switch a.state.settingsMode {
		case settingsAPIKey:
			a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		case settingsGallery, settingsAvoid:
			a.state.input, cmd = a.state.input.Update(msg)
		}
	case viewEditGuide:
		a.state.guideEditor, cmd = a.state.guideEditor.Update(msg)
	case viewGenerate:
		switch a.state.genFocus {
		case focusBrief:
			a.state.briefInput, cmd = a.state.briefInput.Update(msg)
		case focusImages:
			a.state.imagesInput, cmd = a.state.imagesInput.Update(msg)
		}
	case viewArtists, viewArtist, viewResult:
		if a.state.input.Focused() {
			a.state.input, cmd = a.state.input.Update(msg)
		}
	}
	return cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		if a.state.cancel != nil {
			a.state.cancel()
		}
		a.quitting = true
		return tea.Quit, true
	}

	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewArtists:
		return a.handleArtistsKey(msg)
	case viewArtist:
		return a.handleArtistKey(msg)
	case viewGuide:
		return a.handleGuideKey(msg)
	case viewEditGuide:
		return a.handleEditGuideKey(msg)
	case viewGenerate:
		return a.handleGenerateKey(msg)
	case viewProcessing:
		if key.Matches(msg, keys.Back) && a.state.cancel != nil {
			a.state.cancel()
			return nil, true
		}
		return nil, true
	case viewResult:
		return a.handleResultKey(msg)
	case viewSettings:
		return a.handleSettingsKey(msg)
	case viewHelp:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Help) {
			a.view = a.state.errorBack
			return nil, true
		}
		return nil, true
	case viewError:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Enter) {
			a.view = a.state.errorBack
			a.state.err = nil
		}
		return nil, true
	}
	return nil, false
}

func (a *App) showError(err error, back view) tea.Cmd {
	a.logger.Error("operation failed", "error", err)
	a.state.err = err
	a.state.errorBack = back
	a.view = viewError
	return nil
}

func (a *App) showHelp() {
	a.state.errorBack = a.view
	a.view = viewHelp
}

// startProcessing switches to the processing view with a cancellable context
func (a *App) startProcessing(label string) (context.Context, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	a.state.cancel = cancel
	a.state.processing = label
	a.state.progress = nil
	a.state.started = time.Now()
	a.view = viewProcessing
	return ctx, a.state.spinner.Tick
}

func (a *App) stopProcessing() {
	if a.state.cancel != nil {
		a.state.cancel()
		a.state.cancel = nil
	}
	a.state.processing = ""
	a.state.progressCh = nil
}

func (a *App) resize() {
	w := min(90, a.width-6)
	if w < 20 {
		w = 20
	}
	h := a.height - 8
	if h < 5 {
		h = 5
	}
	a.state.guideViewport.Width = w
	a.state.guideViewport.Height = h
	a.state.resultViewport.Width = w
	a.state.resultViewport.Height = h - 3
	a.state.guideEditor.SetWidth(w)
	a.state.guideEditor.SetHeight(h - 1)
	a.state.briefInput.SetWidth(min(w, 70))

	if a.state.styleGuide != "" {
		a.state.guideViewport.SetContent(wrapText(a.state.styleGuide, w))
	}
	if a.state.resultText != "" {
		a.state.resultViewport.SetContent(wrapText(a.state.resultText, w))
	}
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewSetup:
		return a.renderSetup()
	case viewArtists:
		return a.renderArtists()
	case viewArtist:
		return a.renderArtist()
	case viewGuide:
		return a.renderGuide()
	case viewEditGuide:
		return a.renderEditGuide()
	case viewGenerate:
		return a.renderGenerate()
	case viewProcessing:
		return a.renderProcessing()
	case viewResult:
		return a.renderResult()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	case viewError:
		return a.renderError()
	default:
		return a.renderArtists()
	}
}
