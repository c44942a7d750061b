package http

import (
	"fmt"
	"net/http"
	"strings"

	"employee-auth/internal/domain"
	"employee-auth/internal/dto"
	"employee-auth/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type employeeHandler struct {
	employees service.EmployeeService
	access    service.AccessService
}

func (h *employeeHandler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.employees.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *employeeHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.employees.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *employeeHandler) canManage(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	role, err := domain.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CanManageResponse{CanManage: h.access.CanManage(r.Context(), p.ID, role)})
}

func (h *employeeHandler) create(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req dto.CreateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.employees.Create(r.Context(), p.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/employees/"+e.ID)
	writeJSON(w, http.StatusCreated, e)
}

func (h *employeeHandler) update(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := employeeIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.UpdateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.employees.Update(r.Context(), p.ID, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *employeeHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req dto.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.employees.UpdateProfile(r.Context(), p.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *employeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := employeeIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.employees.Delete(r.Context(), p.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func employeeIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid employee id", domain.ErrInvalidRequest)
	}
	return id, nil
}
