package web

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/adanyl0v/go-taskmaster/internal/dashboard"
	"github.com/adanyl0v/go-taskmaster/internal/models"
)

// viewContext is what every page needs to render its chrome.
type viewContext struct {
	Email   string
	Theme   string
	Notices []dashboard.Notice
}

type dashboardView struct {
	viewContext
	Form       dashboard.FormState
	Tasks      []dashboard.TaskView
	Priorities []models.Priority
}

type loginView struct {
	viewContext
	Register bool
}

var iconGlyphs = map[models.Icon]string{
	models.IconAlert:  "⚠",
	models.IconCircle: "○",
	models.IconCheck:  "✓",
}

func (h *Handler) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(h.location).Format("Jan 2, 2006")
		},
		"formatTime": func(t time.Time) string {
			return t.In(h.location).Format("Jan 2, 2006 15:04")
		},
		"glyph": func(icon models.Icon) string {
			return iconGlyphs[icon]
		},
		"label": func(v any) string {
			s := fmt.Sprint(v)
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
}
