package document

import (
	"fmt"
	"strings"
)

// DocType is the kind of marketing document, used both to classify
// source documents and to pick format rules for generated copy
type DocType string

const (
	DocTypePressRelease       DocType = "press_release"
	DocTypeBio                DocType = "bio"
	DocTypeCollectionOverview DocType = "collection_overview"
	DocTypePaidAds            DocType = "paid_ads"
	DocTypeGeneral            DocType = "general"
)

// DocTypes lists every document type in menu order.
var DocTypes = []DocType{
	DocTypePressRelease,
	DocTypeCollectionOverview,
	DocTypeBio,
	DocTypePaidAds,
	DocTypeGeneral,
}

// Label returns the human-readable name, e.g. "press release"
func (t DocType) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Title returns the menu name shown in the UI
func (t DocType) Title() string {
	switch t {
	case DocTypePressRelease:
		return "Press Release"
	case DocTypeCollectionOverview:
		return "Collection Overview"
	case DocTypeBio:
		return "Artist Bio"
	case DocTypePaidAds:
		return "Paid Ads (Meta + Google)"
	case DocTypeGeneral:
		return "General"
	default:
		return t.Label()
	}
}

// RawDocument is an uploaded file before extraction
type RawDocument struct {
	Filename string
	Data     []byte
}

// NormalizedDocument is the extracted, cleaned representation of a document
type NormalizedDocument struct {
	Filename   string   `json:"filename"`
	DocType    DocType  `json:"doc_type"`
	FullText   string   `json:"full_text"`
	Paragraphs []string `json:"paragraphs"`
	WordCount  int      `json:"word_count"`
}

// Normalize builds a NormalizedDocument from already-extracted text
func Normalize(filename, fullText string) *NormalizedDocument {
	return &NormalizedDocument{
		Filename:   filename,
		DocType:    Classify(filename),
		FullText:   fullText,
		Paragraphs: SplitParagraphs(fullText),
		WordCount:  len(strings.Fields(fullText)),
	}
}

// SplitParagraphs splits text on blank-line boundaries, dropping empty parts
func SplitParagraphs(text string) []string {
	paragraphs := []string{}
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// Classify guesses the document type from its filename.
// Checks run in priority order, so "Press Release - Bio.docx" is a press release.
func Classify(filename string) DocType {
	lower := strings.ToLower(filename)

	switch {
	case strings.Contains(lower, "press release"):
		return DocTypePressRelease
	case strings.Contains(lower, "bio"):
		return DocTypeBio
	case strings.Contains(lower, "overview"), strings.Contains(lower, "collection"):
		return DocTypeCollectionOverview
	default:
		return DocTypeGeneral
	}
}

// SizeHuman returns human-readable file size
func SizeHuman(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.0f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}
