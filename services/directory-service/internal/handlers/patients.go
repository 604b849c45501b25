package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/model"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/storage"
)

func (h *Handler) Patients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getPatients(w, r)
	case http.MethodPost:
		h.createPatient(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) getPatients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if id := strings.TrimSpace(q.Get("id")); id != "" {
		p, err := h.patients.Get(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "patient not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, p)
		return
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	patients, err := h.patients.List(r.Context(), strings.TrimSpace(q.Get("search")), limit)
	if err != nil {
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}
	if patients == nil {
		patients = []model.Patient{}
	}
	writeJSON(w, http.StatusOK, patients)
}

func (h *Handler) createPatient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		http.Error(w, "full_name is required", http.StatusBadRequest)
		return
	}

	id, err := h.patients.Create(r.Context(), &model.Patient{
		FullName: req.FullName,
		Phone:    strings.TrimSpace(req.Phone),
		Email:    strings.TrimSpace(req.Email),
		Notes:    strings.TrimSpace(req.Notes),
	})
	if err != nil {
		http.Error(w, "failed to create patient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"patient_id": id})
}

func (h *Handler) Departments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		departments, err := h.departments.List(r.Context())
		if err != nil {
			http.Error(w, "failed to list departments", http.StatusInternalServerError)
			return
		}
		if departments == nil {
			departments = []model.Department{}
		}
		writeJSON(w, http.StatusOK, departments)
	case http.MethodPost:
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		id, err := h.departments.Create(r.Context(), &model.Department{
			Name:        req.Name,
			Description: strings.TrimSpace(req.Description),
		})
		if err != nil {
			if storage.IsDuplicate(err) {
				http.Error(w, "department already exists", http.StatusConflict)
				return
			}
			http.Error(w, "failed to create department", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"department_id": id})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) Transfers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		limit := 0
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		transfers, err := h.transfers.List(r.Context(), strings.TrimSpace(q.Get("patient_id")), limit)
		if err != nil {
			http.Error(w, "failed to list transfers", http.StatusInternalServerError)
			return
		}
		if transfers == nil {
			transfers = []model.Transfer{}
		}
		writeJSON(w, http.StatusOK, transfers)
	case http.MethodPost:
		var req struct {
			PatientID      string `json:"patient_id"`
			FromDepartment string `json:"from_department"`
			ToDepartment   string `json:"to_department"`
			Reason         string `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.PatientID = strings.TrimSpace(req.PatientID)
		req.ToDepartment = strings.TrimSpace(req.ToDepartment)
		if req.PatientID == "" || req.ToDepartment == "" {
			http.Error(w, "patient_id and to_department are required", http.StatusBadRequest)
			return
		}
		id, err := h.transfers.Create(r.Context(), &model.Transfer{
			PatientID:      req.PatientID,
			FromDepartment: strings.TrimSpace(req.FromDepartment),
			ToDepartment:   req.ToDepartment,
			Reason:         strings.TrimSpace(req.Reason),
		})
		if err != nil {
			http.Error(w, "failed to create transfer", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"transfer_id": id})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
