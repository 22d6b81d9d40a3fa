package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SriGanesh737/employee-api/internal/errs"
	"github.com/SriGanesh737/employee-api/internal/models"
	"github.com/SriGanesh737/employee-api/internal/repository"
	"github.com/SriGanesh737/employee-api/internal/validation"
	"github.com/gorilla/mux"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxBodyBytes    = 1 << 20
)

type employeeHandler struct {
	repo repository.EmployeeRepoIface
	log  *slog.Logger
}

func (h *employeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateEmployeeInput
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	employee, err := h.repo.CreateEmployee(r.Context(), input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusCreated, employee)
}

func (h *employeeHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", defaultPage)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	pageSize, err := queryInt(r, "pageSize", defaultPageSize)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err = validation.Page(page, pageSize); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	employees, err := h.repo.ListEmployees(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if employees == nil {
		employees = []models.Employee{}
	}

	writeJSON(w, h.log, http.StatusOK, employees)
}

func (h *employeeHandler) get(w http.ResponseWriter, r *http.Request) {
	identifier, err := pathID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	employee, err := h.repo.GetEmployeeByID(r.Context(), identifier)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if employee == nil {
		writeError(w, r, h.log, fmt.Errorf("employee %d: %w", identifier, errs.ErrNotFound))
		return
	}

	writeJSON(w, h.log, http.StatusOK, employee)
}

func (h *employeeHandler) update(w http.ResponseWriter, r *http.Request) {
	identifier, err := pathID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var input models.UpdateEmployeeInput
	if err = decodeBody(w, r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	employee, err := h.repo.UpdateEmployee(r.Context(), identifier, input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, employee)
}

func (h *employeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	identifier, err := pathID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	employee, err := h.repo.DeleteEmployee(r.Context(), identifier)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, employee)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		return bodyError(err)
	}

	// exactly one JSON value per body
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return bodyError(err)
		}
		return errs.NewHTTPError(http.StatusBadRequest, "request body must contain a single JSON object")
	}

	return nil
}

func bodyError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return errs.NewHTTPError(http.StatusRequestEntityTooLarge, "request body is too large")
	}

	return errs.NewHTTPError(http.StatusBadRequest, "invalid request body")
}

// pathID parses the {id} segment. Ids too large for the id column name no stored employee.
func pathID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]

	identifier, err := strconv.ParseInt(raw, 10, 32)
	if errors.Is(err, strconv.ErrRange) && identifier > 0 {
		return 0, fmt.Errorf("employee %s: %w", raw, errs.ErrNotFound)
	}
	if err != nil || identifier < 1 {
		return 0, errs.NewValidationError("id must be a positive integer",
			errs.FieldError{Field: "id", Error: "must be a positive integer"})
	}

	return int(identifier), nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValidationError(name+" must be a positive integer",
			errs.FieldError{Field: name, Error: "must be a positive integer"})
	}

	return value, nil
}
