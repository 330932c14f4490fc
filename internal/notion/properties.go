package notion

import (
	"strings"
	"time"

	"github.com/user/notionclip/internal/capture"
)

// The rich_text field has a 2000-character hard limit upstream; stay 100
// under it.
const maxTextLen = 1900

const untitledPlaceholder = "untitled"

// truncate keeps at most max characters, never splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// buildProperties maps a capture onto the database's typed property values.
func buildProperties(pc capture.PageCapture) map[string]interface{} {
	title := truncate(pc.Title, maxTextLen)
	if title == "" {
		title = untitledPlaceholder
	}
	description := truncate(pc.Description, maxTextLen)

	var titleRT richText
	titleRT.Text.Content = title

	descRT := map[string]interface{}{
		"type": "text",
		"text": map[string]interface{}{
			"content": description,
			"link":    nil,
		},
		"annotations": map[string]interface{}{
			"bold":          false,
			"italic":        true,
			"strikethrough": false,
			"underline":     false,
			"code":          false,
			"color":         "default",
		},
		"plain_text": description,
	}

	properties := map[string]interface{}{
		"Title": map[string]interface{}{
			"id":    "title",
			"type":  "title",
			"title": []richText{titleRT},
		},
		"URL": map[string]interface{}{
			"id":   "url",
			"type": "url",
			"url":  pc.URL,
		},
		"Description": map[string]interface{}{
			"id":        "description",
			"type":      "rich_text",
			"rich_text": []interface{}{descRT},
		},
		// The date property keeps its original "published" id; it is reused
		// for the save timestamp.
		"Saved At": map[string]interface{}{
			"id":   "published",
			"type": "date",
			"date": map[string]interface{}{
				"start": pc.SavedAt.Format(time.RFC3339),
				"end":   nil,
			},
		},
	}

	// Only absolute HTTP(S) URLs are attachable; anything else is omitted
	// entirely rather than sent empty.
	if pc.Image != "" && strings.HasPrefix(pc.Image, "http") {
		properties["Image"] = map[string]interface{}{
			"files": []interface{}{
				map[string]interface{}{
					"type": "external",
					"name": "Image",
					"external": map[string]string{
						"url": pc.Image,
					},
				},
			},
		}
	}

	return properties
}
