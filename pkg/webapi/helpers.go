package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	solwatch "github.com/solpaylabs/solwatch/pkg"
)

var httpCodeForError = map[string]int{
	string(solwatch.BadRequest):   400,
	string(solwatch.NotAvailable): 503,
	string(solwatch.NotFound):     404,
	string(solwatch.UnknownError): 500,
}

func HttpStatusForError(code solwatch.ErrorCode) int {
	status, found := httpCodeForError[string(code)]
	if !found {
		status = http.StatusInternalServerError
	}
	return status
}

func sendResponse(w http.ResponseWriter, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		sendErrorResponse(w, http.StatusInternalServerError, solwatch.UnknownError, fmt.Sprintf("in json.Marshal: %s", err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store") // do not cache (Browsers cache GET forever by default)
	w.Write(b)
}

func sendNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func sendBadRequest(w http.ResponseWriter, message string) {
	sendErrorResponse(w, http.StatusBadRequest, solwatch.BadRequest, message)
}

func sendError(w http.ResponseWriter, where string, err error) {
	var info *solwatch.ErrorInfo
	if errors.As(err, &info) {
		sendErrorResponse(w, HttpStatusForError(info.Code), info.Code, info.Message)
	} else {
		sendErrorResponse(w, http.StatusInternalServerError, solwatch.UnknownError, fmt.Sprintf("%s: %s", where, err.Error()))
	}
}

// sendErrorResponse writes a flat {"error": message} body, the format the
// ingestion callers expect.
func sendErrorResponse(w http.ResponseWriter, statusCode int, code solwatch.ErrorCode, message string) {
	log.Printf("[!] %s: %s\n", code, message)
	// avoids the need to handle encoding errors from json.Marshal itself
	payload := fmt.Sprintf("{\"error\":%q}", message)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	w.Write([]byte(payload))
}
