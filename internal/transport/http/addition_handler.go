package http

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/service/catalog"
)

// additionHandler обслуживает /api/v1/additions.
type additionHandler struct {
	catalog *catalog.Service
	logger  *log.Entry
}

type additionRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Kind  string `json:"kind"`
}

func (req additionRequest) toInput() (catalog.AdditionInput, error) {
	price, err := domain.NewPriceFromString(req.Price)
	if err != nil {
		return catalog.AdditionInput{}, err
	}
	kind, err := domain.ParseAdditionKind(req.Kind)
	if err != nil {
		return catalog.AdditionInput{}, err
	}
	return catalog.AdditionInput{Name: req.Name, Price: price, Kind: kind}, nil
}

func (h *additionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req additionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	addition, err := h.catalog.AddAddition(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdditionDTO(addition))
}

func (h *additionHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req additionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	addition, err := h.catalog.UpdateAddition(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdditionDTO(addition))
}

func (h *additionHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.catalog.DeleteAddition(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *additionHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	addition, err := h.catalog.GetAddition(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdditionDTO(addition))
}

func (h *additionHandler) list(w http.ResponseWriter, r *http.Request) {
	additions, err := h.catalog.GetAllAdditions(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dtos := make([]AdditionDTO, 0, len(additions))
	for _, addition := range additions {
		dtos = append(dtos, toAdditionDTO(addition))
	}
	writeJSON(w, http.StatusOK, dtos)
}
