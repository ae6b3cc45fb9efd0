package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/civicfix/civicfix_client/util"
	"github.com/civicfix/civicfix_client/util/tracing"
)

type ServerResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Data       interface{} `json:"data,omitempty"`
}

func respondWithError(err error, message string, status string, tc *tracing.Context) *ServerResponse {
	if tc != nil {
		log.Printf("[%s] %s: %v", tc.RequestID, message, err)
	} else {
		log.Printf("%s: %v", message, err)
	}
	return &ServerResponse{
		Status:     status,
		Message:    message,
		StatusCode: util.StatusCode(status),
	}
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

func writeErrorResponse(w http.ResponseWriter, err error, status string, message string) {
	resp := ServerResponse{
		Status:     status,
		Message:    message,
		StatusCode: util.StatusCode(status),
	}
	log.Printf("%s: %v", message, err)

	body, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		http.Error(w, message, http.StatusInternalServerError)
		return
	}
	writeJSONResponse(w, body, resp.StatusCode)
}
