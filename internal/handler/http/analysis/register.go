package analysis

import (
	"log/slog"
	"net/http"
)

// Routes lists the paths served by Register, for metrics labelling.
var Routes = []string{"/", "/plugin", "/courses", "/instructors"}

// Register registers the analysis endpoints with mux. A nil logger means
// slog.Default().
func Register(mux *http.ServeMux, svc Service, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	mux.Handle("GET /plugin", PluginHandler{Svc: svc, Logger: logger})
	mux.Handle("GET /courses", CoursesHandler{Svc: svc, Logger: logger})
	mux.Handle("GET /instructors", InstructorsHandler{Svc: svc, Logger: logger})
	mux.Handle("GET /{$}", ConfigurationHandler{Svc: svc})
}
