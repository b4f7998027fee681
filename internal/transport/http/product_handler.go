package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/service/catalog"
)

// productHandler обслуживает /api/v1/products.
type productHandler struct {
	catalog *catalog.Service
	logger  *log.Entry
}

type productRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Kind  string `json:"kind"`
}

func (req productRequest) toInput() (catalog.ProductInput, error) {
	price, err := domain.NewPriceFromString(req.Price)
	if err != nil {
		return catalog.ProductInput{}, err
	}
	kind, err := domain.ParseProductKind(req.Kind)
	if err != nil {
		return catalog.ProductInput{}, err
	}
	return catalog.ProductInput{Name: req.Name, Price: price, Kind: kind}, nil
}

func (h *productHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(product))
}

func (h *productHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}

func (h *productHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *productHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}

func (h *productHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetAllProducts(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dtos := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, toProductDTO(product))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// pathID разбирает параметр {id} маршрута; мусорный идентификатор — это
// ошибка валидации, а не NotFound.
func pathID(r *http.Request) (domain.EntityID, error) {
	id, err := domain.ParseEntityID(chi.URLParam(r, "id"))
	if err != nil {
		return domain.EntityID{}, domain.NewValidation("malformed id in path")
	}
	return id, nil
}
