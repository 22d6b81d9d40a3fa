package server

import (
	"log/slog"
	"net/http"

	"github.com/SriGanesh737/employee-api/internal/errs"
	"github.com/SriGanesh737/employee-api/internal/metrics"
	"github.com/SriGanesh737/employee-api/internal/repository"
	"github.com/gorilla/mux"
)

// NewRouter wires the employee endpoints onto a gorilla/mux router.
// Unknown paths and methods are answered with the JSON error envelope.
func NewRouter(log *slog.Logger, repo repository.EmployeeRepoIface, appMetrics *metrics.Metrics) http.Handler {
	mdw := &middleware{log: log.With(slog.String("op", "server.http")), metrics: appMetrics}
	handler := &employeeHandler{repo: repo, log: log.With(slog.String("op", "server.employees"))}

	router := mux.NewRouter()
	router.Use(mdw.chain)

	router.HandleFunc("/employees", handler.create).Methods(http.MethodPost)
	router.HandleFunc("/employees", handler.list).Methods(http.MethodGet)
	router.HandleFunc("/employees/{id}", handler.get).Methods(http.MethodGet)
	router.HandleFunc("/employees/{id}", handler.update).Methods(http.MethodPut)
	router.HandleFunc("/employees/{id}", handler.delete).Methods(http.MethodDelete)

	router.NotFoundHandler = mdw.chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, handler.log, errs.NewHTTPError(http.StatusNotFound, "route not found"))
	}))
	router.MethodNotAllowedHandler = mdw.chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, handler.log, errs.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"))
	}))

	return router
}
