// Package webui serves debug pages that dump the running configuration.
package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/hvv-tools/departureboard/internal/app"
	"github.com/hvv-tools/departureboard/internal/geofox"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type WebUI struct {
	*app.Application
}

type debugData struct {
	Title string
	Pre   string
}

// modeRow is one line of the transport mode table.
type modeRow struct {
	Tag    geofox.ModeTag
	Filter string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	var data interface{}
	var title string

	switch r.URL.Query().Get("dataType") {
	case "config":
		data = webUI.Config.Redacted()
		title = "Configuration"
	case "board":
		req := webUI.BoardRequest()
		if req.Credentials.Secret != "" {
			req.Credentials.Secret = "[redacted]"
		}
		data = req
		title = "Board Request"
	case "last":
		if result, ok := webUI.LastResult(); ok {
			data = result
		} else {
			data = "no board served yet"
		}
		title = "Last Result"
	case "modes":
		rows := make([]modeRow, 0, len(geofox.ModeOrder))
		for _, tag := range geofox.ModeOrder {
			rows = append(rows, modeRow{Tag: tag, Filter: tag.FilterValue()})
		}
		data = rows
		title = "Transport Modes"
	default:
		data = map[string]string{
			"error": "Please use one of the following: config, board, last, modes.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
