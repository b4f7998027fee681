package http

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// errorResponse — стандартный формат ошибки API.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError переводит вид доменной ошибки в HTTP-статус. Это единственное
// место, где коды статусов встречаются с ошибками ядра: само ядро статусы
// не кодирует. Инфраструктурные сбои наружу не детализируются.
func writeError(w http.ResponseWriter, logger *log.Entry, err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		kind = domain.KindInfrastructure
	}

	status := http.StatusInternalServerError
	message := "internal error"
	switch kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case domain.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case domain.KindConflict:
		status = http.StatusConflict
		message = err.Error()
	default:
		logger.WithError(err).Error("request failed")
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidation("malformed request body")
	}
	return nil
}
