package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"moodjournal/internal/domain"
)

// EntryViewHandler renders an entry's markdown as a standalone HTML page
func (h *Handler) EntryViewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	entry, body, err := h.journal.Render(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := struct {
		Title    string
		Date     string
		Mood     string
		Category string
		Words    int
		Tags     []string
		Content  template.HTML
	}{
		Title:    entry.Title,
		Date:     domain.FormatDate(entry.EntryDate),
		Category: entry.Category,
		Words:    entry.WordCount,
		// Render sanitizes through goldmark without the unsafe option.
		Content: template.HTML(body),
	}
	if data.Title == "" {
		data.Title = data.Date
	}

	if moods, err := h.catalog.Moods(r.Context()); err == nil {
		for _, m := range moods {
			if m.ID == entry.PrimaryMoodID {
				data.Mood = m.Emoji + " " + m.Name
				break
			}
		}
	} else {
		h.logger.Warn("Could not load moods for entry view: %v", err)
	}
	if tags, err := h.catalog.TagsForEntry(r.Context(), id); err == nil {
		for _, t := range tags {
			data.Tags = append(data.Tags, t.Name)
		}
	} else {
		h.logger.Warn("Could not load tags for entry view: %v", err)
	}

	var buf bytes.Buffer
	if err := h.entryPage.Execute(&buf, data); err != nil {
		h.logger.Error("Failed to render entry %d: %v", id, err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

const entryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Mood Journal</title>
    <style>
        .entry-container {
            max-width: 800px;
            margin: 2rem auto;
            padding: 2rem;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
        }
        .entry-header {
            border-bottom: 1px solid #eee;
            padding-bottom: 1rem;
            margin-bottom: 2rem;
        }
        .entry-meta {
            color: #666;
            font-size: 0.9rem;
        }
        .entry-tag {
            display: inline-block;
            background: #f0f0f0;
            padding: 0.25rem 0.5rem;
            border-radius: 4px;
            font-size: 0.8rem;
            margin-right: 0.25rem;
        }
        .entry-content {
            line-height: 1.6;
        }
        .entry-content pre {
            padding: 1rem;
            border-radius: 6px;
            overflow-x: auto;
            font-size: 0.875rem;
        }
        .entry-content blockquote {
            border-left: 4px solid #ddd;
            margin: 1rem 0;
            padding-left: 1rem;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="entry-container">
        <header class="entry-header">
            <h1>{{.Title}}</h1>
            <p class="entry-meta">{{.Date}}{{if .Mood}} &middot; {{.Mood}}{{end}}{{if .Category}} &middot; {{.Category}}{{end}} &middot; {{.Words}} words</p>
            {{range .Tags}}<span class="entry-tag">{{.}}</span>{{end}}
        </header>
        <main class="entry-content">
            {{.Content}}
        </main>
    </div>
</body>
</html>`
