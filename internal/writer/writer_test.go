package writer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/formats"
	"github.com/sant0-9/copywriter/internal/llm"
)

type stubProvider struct {
	content string
	err     error
	calls   int
	got     *llm.CompletionRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Ping(ctx context.Context) error { return nil }

func (s *stubProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.calls++
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

const profileWithCharity = `## Voice Snapshot
- Warm, local, proud

## Sample paragraphs
Castle Fine Art will donate £100 to Birmingham Children's Hospital for every piece sold.`

func TestBuildRequestFactProvenance(t *testing.T) {
	w := NewWriter(&stubProvider{}, "gpt-4o")
	req, err := w.BuildRequest(&Request{
		StyleProfile: profileWithCharity,
		DocType:      document.DocTypePressRelease,
		Brief:        "New collection 'Night Market', five works, launches 3 May.",
	})
	require.NoError(t, err)
	require.Len(t, req.Messages, 1)

	text := req.Messages[0].Content
	assert.Contains(t, text, "--- STYLE GUIDE (voice and structure rules only) ---")
	assert.Contains(t, text, "This is the ONLY source of facts")
	assert.Contains(t, text, "Do NOT recycle specific facts, charity amounts, collection\nnames, or event details from the style guide")
	assert.Contains(t, text, "Uses ONLY the facts provided in the user brief and images above")
	assert.Contains(t, text, "Birmingham Children's Hospital", "the profile is embedded verbatim")
	assert.Contains(t, text, "Document type: Press Release\n\nNew collection 'Night Market'")
}

func TestBuildRequestHouseStyle(t *testing.T) {
	w := NewWriter(&stubProvider{}, "gpt-4o")
	req, err := w.BuildRequest(&Request{StyleProfile: "p", DocType: document.DocTypeBio, Brief: "b"})
	require.NoError(t, err)

	text := req.Text()
	assert.Contains(t, text, `Refers to the gallery as "Castle Fine Art" (never "Castle Galleries")`)
	assert.Contains(t, text, "British English throughout (colour, favour, centre, catalogue)")
	assert.Contains(t, text, `"price tag", "check out", "awesome", "amazing"`)
	assert.Contains(t, text, `"priced at £X" or "available at £X"`)
	assert.Contains(t, text, "Write the bio now.")
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 3000, req.MaxTokens)
}

func TestBuildRequestCustomHouseStyle(t *testing.T) {
	w := NewWriter(&stubProvider{}, "m", WithHouseStyle(HouseStyle{Gallery: "Harbour Gallery"}))
	req, err := w.BuildRequest(&Request{StyleProfile: "p", DocType: document.DocTypeBio, Brief: "b"})
	require.NoError(t, err)
	assert.Contains(t, req.Text(), `Refers to the gallery as "Harbour Gallery"`+"\n")
	assert.NotContains(t, req.Text(), "(never ")
}

func TestBuildRequestFormatRules(t *testing.T) {
	w := NewWriter(&stubProvider{}, "m")
	rules := formats.Builtin()

	for _, dt := range document.DocTypes {
		req, err := w.BuildRequest(&Request{StyleProfile: "p", DocType: dt, Brief: "b"})
		require.NoError(t, err)
		assert.Contains(t, req.Text(), rules.Lookup(dt).Block())
	}
}

func TestBuildRequestUnknownTypeUsesGeneral(t *testing.T) {
	w := NewWriter(&stubProvider{}, "m")

	unknown, err := w.BuildRequest(&Request{StyleProfile: "p", DocType: "newsletter", Brief: "b"})
	require.NoError(t, err)
	general, err := w.BuildRequest(&Request{StyleProfile: "p", DocType: document.DocTypeGeneral, Brief: "b"})
	require.NoError(t, err)

	assert.Equal(t, general.Text(), unknown.Text())
}

func TestBuildRequestImages(t *testing.T) {
	w := NewWriter(&stubProvider{}, "m")
	images := []llm.Image{{Name: "a.jpg", Data: []byte{1}}, {Name: "b.jpg", Data: []byte{2}}}

	req, err := w.BuildRequest(&Request{StyleProfile: "p", DocType: document.DocTypePaidAds, Brief: "b", Images: images})
	require.NoError(t, err)
	assert.Equal(t, 2, req.ImageCount())
	assert.Equal(t, images, req.Messages[0].Images)
	assert.Contains(t, req.Text(), "2 images of the artwork are attached")
}

func TestBuildRequestValidation(t *testing.T) {
	w := NewWriter(&stubProvider{}, "m")

	_, err := w.BuildRequest(&Request{StyleProfile: " ", Brief: "b"})
	assert.ErrorIs(t, err, ErrNoStyleProfile)

	_, err = w.BuildRequest(&Request{StyleProfile: "p", Brief: "\n"})
	assert.ErrorIs(t, err, ErrEmptyBrief)
}

func TestWrite(t *testing.T) {
	stub := &stubProvider{content: "  Fresh copy.\n"}
	w := NewWriter(stub, "m")

	out, err := w.Write(context.Background(), &Request{StyleProfile: "p", DocType: document.DocTypeBio, Brief: "b"})
	require.NoError(t, err)
	assert.Equal(t, "Fresh copy.", out)
	assert.Equal(t, 1, stub.calls)
}

func TestWriteFailures(t *testing.T) {
	for name, stub := range map[string]*stubProvider{
		"provider error": {err: errors.New("boom")},
		"empty":          {content: " "},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewWriter(stub, "m").Write(context.Background(), &Request{StyleProfile: "p", Brief: "b"})
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.Equal(t, 1, stub.calls, "no retry")
		})
	}
}

func TestConverse(t *testing.T) {
	stub := &stubProvider{content: "Caption."}
	w := NewWriter(stub, "m")

	out, err := w.Converse(context.Background(), &Conversation{StyleProfile: "voice rules", Request: "Write a 50-word caption"})
	require.NoError(t, err)
	assert.Equal(t, "Caption.", out)

	text := stub.got.Text()
	assert.Contains(t, text, "--- STYLE GUIDE ---\nvoice rules\n--- END STYLE GUIDE ---")
	assert.Contains(t, text, "Write a 50-word caption")
	assert.Contains(t, text, `refer to the gallery as "Castle Fine Art"`)
}

func TestRevise(t *testing.T) {
	stub := &stubProvider{content: "Shorter copy."}
	w := NewWriter(stub, "m")

	original, err := w.BuildRequest(&Request{StyleProfile: "p", DocType: document.DocTypeBio, Brief: "b"})
	require.NoError(t, err)

	out, err := w.Revise(context.Background(), original, "Long copy.", "make it shorter")
	require.NoError(t, err)
	assert.Equal(t, "Shorter copy.", out)

	require.Len(t, stub.got.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, stub.got.Messages[1].Role)
	assert.Equal(t, "Long copy.", stub.got.Messages[1].Content)
	assert.Contains(t, stub.got.Messages[2].Content, "make it shorter")
	assert.Len(t, original.Messages, 1, "original request is not modified")
}
