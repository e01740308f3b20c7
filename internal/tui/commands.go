package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/pipeline"
	"github.com/sant0-9/copywriter/internal/store"
	"github.com/sant0-9/copywriter/internal/studio"
	"github.com/sant0-9/copywriter/internal/writer"
)

var errNotConnected = errors.New("no provider configured; open settings with [s]")

func (a *App) loadArtists() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		artists, err := a.store.ListArtists(ctx)
		return artistsLoadedMsg{artists: artists, err: err}
	}
}

func (a *App) createArtist(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		artist, err := a.store.CreateArtist(ctx, name)
		return artistCreatedMsg{artist: artist, err: err}
	}
}

func (a *App) loadArtist(artist *store.Artist) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		fresh, err := a.store.Artist(ctx, artist.ID)
		if err != nil {
			return artistLoadedMsg{err: err}
		}
		docs, err := a.store.ListDocuments(ctx, artist.ID)
		if err != nil {
			return artistLoadedMsg{err: err}
		}
		guide, err := a.store.StyleGuide(ctx, artist.ID)
		if err != nil {
			return artistLoadedMsg{err: err}
		}

		words := 0
		for _, d := range docs {
			words += d.WordCount
		}
		return artistLoadedMsg{artist: fresh, documents: docs, guide: guide, words: words}
	}
}

// uploadFiles runs the ingestion pipeline over the given paths
func (a *App) uploadFiles(input string) tea.Cmd {
	if a.state.studio == nil {
		return a.showError(errNotConnected, viewArtist)
	}
	raws, err := studio.ReadUploads(studio.SplitPaths(input))
	if err != nil {
		return a.showError(err, viewArtist)
	}

	st := a.state.studio
	artistID := a.state.selectedArtist.ID
	return a.runIngest("Uploading documents", "Uploaded", func(ctx context.Context, onProgress func(pipeline.Progress)) (*pipeline.Result, error) {
		return st.Upload(ctx, artistID, raws, onProgress)
	})
}

// reextractDocuments re-reads the artist's stored originals with the
// current extractor and chunk settings
func (a *App) reextractDocuments() tea.Cmd {
	if a.state.studio == nil {
		return a.showError(errNotConnected, viewArtist)
	}
	st := a.state.studio
	artistID := a.state.selectedArtist.ID
	return a.runIngest("Re-extracting documents", "Re-extracted", func(ctx context.Context, onProgress func(pipeline.Progress)) (*pipeline.Result, error) {
		return st.Reextract(ctx, artistID, onProgress)
	})
}

// runIngest runs fn in the background and streams its progress through a
// channel that waitForProgress drains
func (a *App) runIngest(label, verb string, fn func(context.Context, func(pipeline.Progress)) (*pipeline.Result, error)) tea.Cmd {
	ctx, tick := a.startProcessing(label)
	ch := make(chan pipeline.Progress, 16)
	a.state.progressCh = ch
	a.state.uploading = true

	run := func() tea.Msg {
		defer close(ch)
		res, err := fn(ctx, func(p pipeline.Progress) {
			select {
			case ch <- p:
			case <-ctx.Done():
			}
		})
		return ingestDoneMsg{verb: verb, result: res, err: err}
	}
	return tea.Batch(tick, run, waitForProgress(ch))
}

func waitForProgress(ch <-chan pipeline.Progress) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func (a *App) deleteDocument(doc *store.Document) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return documentDeletedMsg{err: a.store.DeleteDocument(ctx, doc.ID)}
	}
}

func (a *App) buildGuide() tea.Cmd {
	if a.state.studio == nil {
		return a.showError(errNotConnected, viewArtist)
	}
	ctx, tick := a.startProcessing("Analysing " + a.state.selectedArtist.Name + "'s writing style")
	st := a.state.studio
	artist := a.state.selectedArtist
	return tea.Batch(tick, func() tea.Msg {
		guide, err := st.BuildStyleGuide(ctx, artist)
		return guideBuiltMsg{guide: guide, err: err}
	})
}

func (a *App) saveGuide(content string) tea.Cmd {
	artistID := a.state.selectedArtist.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return guideSavedMsg{err: a.store.SaveStyleGuide(ctx, artistID, content)}
	}
}

func (a *App) generate(docType document.DocType, brief, imagePaths string) tea.Cmd {
	if a.state.studio == nil {
		return a.showError(errNotConnected, viewGenerate)
	}
	images, err := studio.LoadImages(studio.SplitPaths(imagePaths))
	if err != nil {
		return a.showError(err, viewGenerate)
	}

	st := a.state.studio
	artist := a.state.selectedArtist
	freeForm := a.state.freeForm

	label := "Writing " + st.Rule(docType).Title()
	if freeForm {
		label = "Writing"
	}
	ctx, tick := a.startProcessing(label)

	return tea.Batch(tick, func() tea.Msg {
		if freeForm {
			text, err := st.Converse(ctx, artist, brief, images)
			return generatedMsg{text: text, err: err}
		}
		gen, err := st.Generate(ctx, artist, docType, brief, images)
		return generatedMsg{generation: gen, err: err}
	})
}

func (a *App) revise(instruction string) tea.Cmd {
	st := a.state.studio
	gen := a.state.generation
	ctx, tick := a.startProcessing("Revising")
	return tea.Batch(tick, func() tea.Msg {
		revised, err := st.Revise(ctx, gen, instruction)
		return generatedMsg{generation: revised, err: err}
	})
}

func (a *App) exportResult() tea.Cmd {
	st := a.state.studio
	artist := a.state.selectedArtist
	gen := a.state.generation
	text := a.state.resultText
	return func() tea.Msg {
		dir, err := st.ExportDir()
		if err != nil {
			return exportedMsg{err: err}
		}
		if gen == nil {
			gen = &studio.Generation{
				Artist:  artist,
				Request: writer.Request{DocType: document.DocTypeGeneral},
				Copy:    text,
			}
		}
		out, err := st.ExportGeneration(dir, gen)
		return exportedMsg{exported: out, err: err}
	}
}

func (a *App) exportGuide() tea.Cmd {
	st := a.state.studio
	artist := a.state.selectedArtist
	guide := a.state.styleGuide
	return func() tea.Msg {
		if st == nil {
			return exportedMsg{err: errNotConnected}
		}
		dir, err := st.ExportDir()
		if err != nil {
			return exportedMsg{err: err}
		}
		out, err := st.ExportStyleGuide(dir, artist, guide)
		return exportedMsg{exported: out, err: err}
	}
}
