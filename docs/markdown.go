package docs

import (
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/docs/v1"
)

// Converter turns note markdown into Docs batchUpdate requests, tracking
// the running document index across insertions. Index arithmetic assumes
// the ASCII subset the voice agent emits.
type Converter struct {
	index int64
}

// NewConverter creates a converter inserting from startIndex.
func NewConverter(startIndex int64) *Converter {
	return &Converter{index: startIndex}
}

// Index returns the next insertion index.
func (c *Converter) Index() int64 {
	return c.index
}

var numberedItem = regexp.MustCompile(`^\d+\.\s+`)

// Convert renders headings, bullet and numbered lists, and paragraphs with
// bold, italic and code spans. Blank lines separate blocks.
func (c *Converter) Convert(markdown string) []*docs.Request {
	var requests []*docs.Request
	lastWasList := false

	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if level, text := splitHeading(line); level > 0 {
			requests = append(requests, c.heading(level, text)...)
			lastWasList = false
			continue
		}

		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			requests = append(requests, c.listItem(line[2:], "BULLET_DISC_CIRCLE_SQUARE")...)
			lastWasList = true
			continue
		}

		if loc := numberedItem.FindStringIndex(line); loc != nil {
			requests = append(requests, c.listItem(line[loc[1]:], "NUMBERED_DECIMAL_ALPHA_ROMAN")...)
			lastWasList = true
			continue
		}

		requests = append(requests, c.paragraph(line, lastWasList)...)
		lastWasList = false
	}

	return requests
}

// splitHeading returns the heading level and text, or level 0 when the
// line is not a heading.
func splitHeading(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(line) || line[level] != ' ' {
		return 0, line
	}
	return level, strings.TrimSpace(line[level:])
}

func (c *Converter) insertText(text string) *docs.Request {
	req := &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: c.index},
			Text:     text,
		},
	}
	c.index += int64(len(text))
	return req
}

func (c *Converter) heading(level int, text string) []*docs.Request {
	start := c.index
	insert := c.insertText(text + "\n")

	return []*docs.Request{insert, {
		UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range: &docs.Range{
				StartIndex: start,
				EndIndex:   start + int64(len(text)),
			},
			ParagraphStyle: &docs.ParagraphStyle{
				NamedStyleType: fmt.Sprintf("HEADING_%d", level),
			},
			Fields: "namedStyleType",
		},
	}}
}

func (c *Converter) listItem(text, preset string) []*docs.Request {
	clean, spans := stripInline(strings.TrimSpace(text))
	start := c.index
	requests := []*docs.Request{c.insertText(clean + "\n")}

	requests = append(requests, &docs.Request{
		CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
			Range: &docs.Range{
				StartIndex: start,
				EndIndex:   start + int64(len(clean)),
			},
			BulletPreset: preset,
		},
	})

	return append(requests, spanRequests(start, spans)...)
}

func (c *Converter) paragraph(line string, afterList bool) []*docs.Request {
	clean, spans := stripInline(line)
	start := c.index
	requests := []*docs.Request{c.insertText(clean + "\n")}

	if afterList {
		// A paragraph inserted after a list item inherits its bullet.
		requests = append(requests,
			&docs.Request{
				DeleteParagraphBullets: &docs.DeleteParagraphBulletsRequest{
					Range: &docs.Range{
						StartIndex: start,
						EndIndex:   start + int64(len(clean)),
					},
				},
			},
			&docs.Request{
				UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
					Range: &docs.Range{
						StartIndex: start,
						EndIndex:   start + int64(len(clean)),
					},
					ParagraphStyle: &docs.ParagraphStyle{
						NamedStyleType: "NORMAL_TEXT",
					},
					Fields: "namedStyleType",
				},
			},
		)
	}

	return append(requests, spanRequests(start, spans)...)
}

type inlineSpan struct {
	offset int64
	length int64
	style  *docs.TextStyle
	fields string
}

// stripInline removes **bold**, *italic* and `code` markers, recording the
// uncovered spans against offsets in the cleaned text.
func stripInline(text string) (string, []inlineSpan) {
	var clean strings.Builder
	var spans []inlineSpan

	record := func(inner string, style *docs.TextStyle, fields string) {
		spans = append(spans, inlineSpan{
			offset: int64(clean.Len()),
			length: int64(len(inner)),
			style:  style,
			fields: fields,
		})
		clean.WriteString(inner)
	}

	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], "**") {
			if end := strings.Index(text[i+2:], "**"); end >= 0 {
				record(text[i+2:i+2+end], &docs.TextStyle{Bold: true}, "bold")
				i += end + 4
				continue
			}
		} else if text[i] == '*' {
			if end := strings.IndexByte(text[i+1:], '*'); end >= 0 {
				record(text[i+1:i+1+end], &docs.TextStyle{Italic: true}, "italic")
				i += end + 2
				continue
			}
		} else if text[i] == '`' {
			if end := strings.IndexByte(text[i+1:], '`'); end >= 0 {
				record(text[i+1:i+1+end], &docs.TextStyle{
					WeightedFontFamily: &docs.WeightedFontFamily{FontFamily: "Consolas"},
				}, "weightedFontFamily")
				i += end + 2
				continue
			}
		}
		clean.WriteByte(text[i])
		i++
	}

	return clean.String(), spans
}

func spanRequests(lineStart int64, spans []inlineSpan) []*docs.Request {
	requests := make([]*docs.Request, 0, len(spans))
	for _, s := range spans {
		if s.length == 0 {
			continue
		}
		requests = append(requests, &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range: &docs.Range{
					StartIndex: lineStart + s.offset,
					EndIndex:   lineStart + s.offset + s.length,
				},
				TextStyle: s.style,
				Fields:    s.fields,
			},
		})
	}
	return requests
}
