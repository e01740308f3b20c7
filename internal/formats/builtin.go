package formats

import "github.com/sant0-9/copywriter/internal/document"

var builtinRules = []*Rule{
	{
		DocType:    document.DocTypePressRelease,
		MinWords:   400,
		MaxWords:   600,
		Paragraphs: "6-8",
		Sections: []string{
			"Headline: one line announcing the release or event",
			"Opening paragraph: who, what, where and when",
			"The artist: background and approach",
			"The work: subjects, technique and what sets this release apart",
			"Artist quote (only if a quote is given in the brief)",
			"Release or event details: dates, venue, availability and pricing",
			"Closing line with a clear call to action",
			"Notes to Editors: short artist boilerplate and a [gallery contact] placeholder",
		},
		Include: []string{
			"Write in the third person",
			"End with the Notes to Editors section",
		},
		Exclude: []string{
			"Invent quotes, dates or prices that are not in the brief",
		},
	},
	{
		DocType:    document.DocTypeBio,
		MinWords:   250,
		MaxWords:   400,
		Paragraphs: "4-5",
		Sections: []string{
			"Who the artist is and what they are known for",
			"Background, upbringing and influences",
			"Technique and process",
			"Milestones, collectors or recognition (only those in the brief)",
			"Current direction and relationship with the gallery",
		},
		Include: []string{
			"Write in the third person, present tense",
		},
		Exclude: []string{
			"Include a headline",
			"Include a Notes to Editors section",
			"Mention prices or release dates",
		},
	},
	{
		DocType:    document.DocTypeCollectionOverview,
		MinWords:   300,
		MaxWords:   500,
		Paragraphs: "4-6",
		Sections: []string{
			"Collection title and a one-line hook",
			"Inspiration and theme of the collection",
			"Key works and what they depict (from the brief and images)",
			"Technique, materials and edition details",
			"Availability and call to action",
		},
		Exclude: []string{
			"Include a Notes to Editors section",
			"Add artist quotes unless the brief supplies them",
		},
	},
	{
		DocType: document.DocTypePaidAds,
		Label:   "Paid Ads (Meta + Google)",
		Limits: []CharLimit{
			{Variant: "Meta primary text", Max: 125, Count: 3},
			{Variant: "Meta headline", Max: 40, Count: 3},
			{Variant: "Meta description", Max: 30, Count: 3},
			{Variant: "Google headline", Max: 30, Count: 10},
			{Variant: "Google description", Max: 90, Count: 4},
		},
		Include: []string{
			"Label every variant and show its character count in brackets",
			"Group the output under \"Meta\" and \"Google\" headings",
		},
		Exclude: []string{
			"Use hashtags in Google ads",
			"Use exclamation marks in headlines",
			"Mention a price unless the brief gives one",
		},
	},
	{
		DocType:    document.DocTypeGeneral,
		MinWords:   150,
		MaxWords:   400,
		Paragraphs: "3-5",
		Sections: []string{
			"Opening hook",
			"Body following whatever the brief asks for",
			"Closing line with a call to action",
		},
		Include: []string{
			"Follow any structure the brief spells out in preference to the one above",
		},
	},
}

// Builtin returns the default rule table
func Builtin() *Table {
	rules := make([]*Rule, len(builtinRules))
	for i, r := range builtinRules {
		c := *r
		c.Source = "builtin"
		rules[i] = &c
	}
	t, err := NewTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}
