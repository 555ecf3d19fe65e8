package reminder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apphttp "github.com/forgelabs/forge/pkg/app/http"
)

// RegisterRoutes mounts the manual trigger endpoint on the router.
func (r *Reminder) RegisterRoutes(router chi.Router) {
	router.Post("/reminders/run", apphttp.HandleError(r.handleRun))
}

func (r *Reminder) handleRun(w http.ResponseWriter, req *http.Request) error {
	if err := r.Run(req.Context()); err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}
