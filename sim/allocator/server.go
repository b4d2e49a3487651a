package allocator

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewServer returns an HTTP handler exposing script at /next with the
// allocation service's wire contract.
func NewServer(script *Script) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/next", nextHandler(script)).Methods(http.MethodGet, http.MethodPost)
	return r
}

func nextHandler(script *Script) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		var req JobRequest
		if err := decoder.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "request not valid json",
			})
			return
		}

		status, body := script.next(req)
		logrus.Debugf("/next roll_length=%v -> %d length=%v", req.RollLength, status, body.Length)
		if status != http.StatusOK {
			writeJSON(w, status, map[string]string{
				"error": http.StatusText(status),
			})
			return
		}
		if body.Plan == nil {
			body.Plan = []Placement{}
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, obj any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")
	if err := encoder.Encode(obj); err != nil {
		logrus.Warnf("writing /next response: %v", err)
	}
}
