package handler

import (
	"hireflow/internal/formprops"
	"net/http"
	"strings"
)

// FormPropsHandler serves dropdown option lists
type FormPropsHandler struct {
	catalog *formprops.Catalog
}

func NewFormPropsHandler(catalog *formprops.Catalog) *FormPropsHandler {
	return &FormPropsHandler{catalog: catalog}
}

// Get handles GET /v1/form-properties?keys=domain,jobLevel
func (h *FormPropsHandler) Get(w http.ResponseWriter, r *http.Request) {
	var keys []string
	for _, k := range strings.Split(r.URL.Query().Get("keys"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	writeJSON(w, http.StatusOK, h.catalog.Lookup(keys...))
}
