package api

import (
	"encoding/json"
	"net/http"
)

// BookAppointmentRequest is the booking submission body. Field validation
// happens here at the boundary; the scheduling service only sees well-formed
// requests.
type BookAppointmentRequest struct {
	PatientName      string `json:"patientName" validate:"required"`
	PatientEmail     string `json:"patientEmail" validate:"required,email"`
	PatientPhone     string `json:"patientPhone" validate:"required"`
	AppointmentDate  string `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	AppointmentTime  string `json:"appointmentTime" validate:"required,datetime=15:04"`
	ConsultationType string `json:"consultationType" validate:"required,oneof=online offline"`
	Notes            string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
