// Package ui serves the posts page and turns its form posts into
// controller actions.
package ui

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"posts-app/form"
	"posts-app/middlewares"
	"posts-app/models"

	"github.com/gorilla/mux"
)

//go:embed templates/index.html
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/index.html"))

type Handler struct {
	Controller *form.Controller
}

// Routes returns the page router wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/state", h.State).Methods("GET")
	r.HandleFunc("/form", h.Submit).Methods("POST")
	r.HandleFunc("/posts/{id}/edit", h.Edit).Methods("POST")
	r.HandleFunc("/posts/{id}/delete", h.Delete).Methods("POST")
	return middlewares.LoggingMiddleware(r)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, h.Controller.Snapshot()); err != nil {
		middlewares.HttpError(w, "Failed to render page", http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing page: %v", err)
	}
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	middlewares.RespondJSON(w, h.Controller.Snapshot(), http.StatusOK)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middlewares.HttpError(w, "Invalid form", http.StatusBadRequest, err)
		return
	}

	for _, name := range []string{"name", "email"} {
		if _, ok := r.PostForm[name]; !ok {
			continue
		}
		if err := h.Controller.SetField(name, r.PostForm.Get(name)); err != nil {
			middlewares.HttpError(w, "Invalid form", http.StatusBadRequest, err)
			return
		}
	}

	// Remote failures are logged by the controller; validation failures
	// show up as the page alert.
	ignore(h.Controller.Submit(r.Context()))
	backToIndex(w, r)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id := models.PostID(mux.Vars(r)["id"])
	if err := h.Controller.Edit(id); errors.Is(err, form.ErrUnknownPost) {
		log.Printf("Edit of unlisted post %s ignored", id)
	}
	backToIndex(w, r)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ignore(h.Controller.Delete(r.Context(), models.PostID(mux.Vars(r)["id"])))
	backToIndex(w, r)
}

func ignore(err error) {
	if errors.Is(err, form.ErrBusy) {
		log.Printf("Action dropped: %v", err)
	}
}

func backToIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
