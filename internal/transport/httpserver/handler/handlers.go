package handler

import (
	"net/http"

	importsdomain "gift-tracker-go/internal/domain/imports"
	mergedomain "gift-tracker-go/internal/domain/merge"
	registrydomain "gift-tracker-go/internal/domain/registry"
	"gift-tracker-go/pkg/logger"
)

type Handlers struct {
	Resolver  *registrydomain.Resolver
	Directory *registrydomain.Directory
	Imports   *importsdomain.Service
	Merge     *mergedomain.Service
	log       logger.Logger
}

func New(resolver *registrydomain.Resolver, directory *registrydomain.Directory, imports *importsdomain.Service, merge *mergedomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Resolver:  resolver,
		Directory: directory,
		Imports:   imports,
		Merge:     merge,
		log:       log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
