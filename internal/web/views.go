package web

// views.go holds the HTML fragments returned to HTMX callers. They are small
// enough to write directly against templ.Component.

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/schoolcal/internal/core"
)

// historyTimeFormat is how batch timestamps appear in the history table.
const historyTimeFormat = "2006-01-02 15:04 MST"

// ErrorAlert renders a user-facing error as an alert box.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-error" role="alert">`)
		b.WriteString(`<p class="alert-message">`)
		b.WriteString(templ.EscapeString(msg.Message))
		b.WriteString(`</p>`)
		if msg.Action != "" {
			b.WriteString(`<p class="alert-action">`)
			b.WriteString(templ.EscapeString(msg.Action))
			b.WriteString(`</p>`)
		}
		if msg.Code != "" {
			b.WriteString(`<p class="alert-code">Reference: `)
			b.WriteString(templ.EscapeString(msg.Code))
			b.WriteString(`</p>`)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// BatchHistory renders recent batches of one kind as a table. Completed
// batches get an undo button wired for HTMX.
func BatchHistory(kind core.EntityKind, batches []core.ImportBatch) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<table class="batch-history" data-kind="%s">`, templ.EscapeString(string(kind)))
		b.WriteString(`<thead><tr><th>Imported</th><th>By</th><th>Rows</th><th>Added</th><th>Errors</th><th>Duplicates</th><th>Status</th><th></th></tr></thead>`)
		b.WriteString(`<tbody>`)

		if len(batches) == 0 {
			b.WriteString(`<tr><td colspan="8" class="empty">No recent imports</td></tr>`)
		}

		for _, batch := range batches {
			actor := batch.Actor
			if actor == "" {
				actor = "-"
			}
			b.WriteString(`<tr>`)
			fmt.Fprintf(&b, `<td>%s</td>`, templ.EscapeString(batch.CreatedAt.UTC().Format(historyTimeFormat)))
			fmt.Fprintf(&b, `<td>%s</td>`, templ.EscapeString(actor))
			fmt.Fprintf(&b, `<td>%d</td><td>%d</td><td>%d</td><td>%d</td>`,
				batch.TotalRows, batch.SuccessCount, batch.ErrorCount, batch.DuplicateCount)
			fmt.Fprintf(&b, `<td class="status-%s">%s</td>`,
				templ.EscapeString(string(batch.Status)), templ.EscapeString(string(batch.Status)))

			b.WriteString(`<td>`)
			if batch.Status == core.BatchCompleted {
				undoURL := fmt.Sprintf("/api/%s/batches/%s/undo", kind, batch.ID)
				fmt.Fprintf(&b, `<button hx-post="%s" hx-confirm="Remove every row from this import?">Undo</button>`,
					templ.EscapeString(undoURL))
			}
			b.WriteString(`</td></tr>`)
		}

		b.WriteString(`</tbody></table>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
