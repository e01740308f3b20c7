package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sant0-9/copywriter/internal/config"
	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/pipeline"
	"github.com/sant0-9/copywriter/internal/store"
	"github.com/sant0-9/copywriter/internal/studio"
)

// setup wizard steps
const (
	setupProvider = iota
	setupAPIKey
	setupGallery
)

// generate form focus order
const (
	focusDocType = iota
	focusBrief
	focusImages
	focusCount
)

type state struct {
	// Config
	config     *config.Config
	needsSetup bool

	// Setup wizard state
	setupStep        int
	selectedProvider int
	apiKeyInput      textinput.Model

	// Settings
	settingsMode     settingsMode
	settingsSelected int

	// Provider
	studio        *studio.Studio
	providerReady bool
	providerError error

	// Artists
	artists        []*store.Artist
	artistCursor   int
	addingArtist   bool
	selectedArtist *store.Artist

	// Artist page
	documents   []*store.Document
	docCursor   int
	styleGuide  string
	corpusWords int
	uploading   bool
	confirmDel  bool
	lastIngest  *pipeline.Result
	lastVerb    string

	// Style guide view and editor
	guideViewport viewport.Model
	guideEditor   textarea.Model

	// Generate form
	docTypes      []document.DocType
	docTypeCursor int
	genFocus      int
	briefInput    textarea.Model
	imagesInput   textinput.Model
	freeForm      bool

	// Processing
	spinner    spinner.Model
	processing string
	progress   *pipeline.Progress
	progressCh chan pipeline.Progress
	cancel     context.CancelFunc
	started    time.Time

	// Result
	generation     *studio.Generation
	resultText     string
	resultViewport viewport.Model
	revising       bool
	exported       *studio.Exported

	// Single line input shared by the artist name, upload paths and revision prompts
	input textinput.Model

	// Errors and notices
	err       error
	errorBack view
	notice    string
}

func newState() *state {
	input := textinput.New()
	input.CharLimit = 2000
	input.Width = 60

	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API key here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	brief := textarea.New()
	brief.Placeholder = "Collection name, artwork titles, dates, prices, charity details..."
	brief.CharLimit = 0
	brief.ShowLineNumbers = false
	brief.SetWidth(66)
	brief.SetHeight(8)

	images := textinput.New()
	images.Placeholder = "Optional image paths, comma separated"
	images.CharLimit = 2000
	images.Width = 60

	editor := textarea.New()
	editor.CharLimit = 0
	editor.SetWidth(76)
	editor.SetHeight(20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSpinner

	return &state{
		input:          input,
		apiKeyInput:    apiKey,
		briefInput:     brief,
		imagesInput:    images,
		guideEditor:    editor,
		guideViewport:  viewport.New(76, 20),
		resultViewport: viewport.New(76, 20),
		spinner:        sp,
	}
}
