package templates

import (
	"html/template"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

const (
	ActionSuccessText = "Success!"
	ActionErrorText   = "Error"
	FormSuccessText   = "Submitted successfully!"
	FormErrorText     = "Submission failed. Please try again."
)

// DefaultStatusWindowMillis applies when the context carries no window.
const DefaultStatusWindowMillis = 3000

var statusTmpl = template.Must(template.New("status").Parse(
	`{{define "inline"}}<span class="{{.Class}}"{{if .Delay}} hx-get="{{.ResetURL}}" hx-trigger="load delay:{{.Delay}}ms" hx-swap="outerHTML"{{end}}>{{.Message}}</span>{{end}}` +
		`{{define "banner"}}<div class="{{.Class}}" role="status">{{.Message}}</div>{{end}}`,
))

type statusData struct {
	Class    string
	Message  string
	ResetURL string
	Delay    int64
}

// RenderInlineStatus is the answer to an api button or row action. It asks
// resetURL to replace it after windowMillis; zero keeps it.
func RenderInlineStatus(status rendering.ActionStatus, message, resetURL string, windowMillis int64) string {
	if status == rendering.StatusIdle {
		return ""
	}
	return execute(statusTmpl, "inline", statusData{
		Class:    StatusClasses(status),
		Message:  message,
		ResetURL: resetURL,
		Delay:    windowMillis,
	})
}

// RenderActionResult picks the inline text for a finished action. With
// refresh, clearing a success status also reloads the page's tables.
func RenderActionResult(success, refresh bool, windowMillis int64) string {
	if windowMillis <= 0 {
		windowMillis = DefaultStatusWindowMillis
	}
	if success {
		resetURL := StatusResetURL
		if refresh {
			resetURL += "?" + RefreshQuery + "=1"
		}
		return RenderInlineStatus(rendering.StatusSuccess, ActionSuccessText, resetURL, windowMillis)
	}
	return RenderInlineStatus(rendering.StatusError, ActionErrorText, StatusResetURL, windowMillis)
}

// RenderFormResult is the banner shown above a submitted form. It stays
// until the next submission.
func RenderFormResult(success bool) string {
	if success {
		return execute(statusTmpl, "banner", statusData{Class: BannerClasses(rendering.StatusSuccess), Message: FormSuccessText})
	}
	return execute(statusTmpl, "banner", statusData{Class: BannerClasses(rendering.StatusError), Message: FormErrorText})
}
