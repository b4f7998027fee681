package http

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/service/cart"
)

// productSaleHandler обслуживает /api/v1/product-sales.
type productSaleHandler struct {
	cart   *cart.Service
	logger *log.Entry
}

type addProductSaleRequest struct {
	ProductID  string  `json:"product_id"`
	AdditionID *string `json:"addition_id,omitempty"`
	Email      string  `json:"email"`
}

type updateProductSaleRequest struct {
	ProductID      *string `json:"product_id,omitempty"`
	AdditionID     *string `json:"addition_id,omitempty"`
	RemoveAddition bool    `json:"remove_addition,omitempty"`
	Email          *string `json:"email,omitempty"`
}

func (h *productSaleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req addProductSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	productID, err := domain.ParseEntityID(req.ProductID)
	if err != nil {
		writeError(w, h.logger, domain.NewValidation("malformed product_id"))
		return
	}
	email, err := domain.NewEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	in := cart.AddInput{ProductID: productID, Email: email}
	if req.AdditionID != nil {
		additionID, err := domain.ParseEntityID(*req.AdditionID)
		if err != nil {
			writeError(w, h.logger, domain.NewValidation("malformed addition_id"))
			return
		}
		in.AdditionID = &additionID
	}

	sale, err := h.cart.Add(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductSaleDTO(sale))
}

func (h *productSaleHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req updateProductSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	in := cart.UpdateInput{ID: id, RemoveAddition: req.RemoveAddition}
	if req.ProductID != nil {
		productID, err := domain.ParseEntityID(*req.ProductID)
		if err != nil {
			writeError(w, h.logger, domain.NewValidation("malformed product_id"))
			return
		}
		in.ProductID = &productID
	}
	if req.AdditionID != nil {
		additionID, err := domain.ParseEntityID(*req.AdditionID)
		if err != nil {
			writeError(w, h.logger, domain.NewValidation("malformed addition_id"))
			return
		}
		in.AdditionID = &additionID
	}
	if req.Email != nil {
		email, err := domain.NewEmail(*req.Email)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		in.Email = &email
	}

	sale, err := h.cart.Update(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductSaleDTO(sale))
}

func (h *productSaleHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.cart.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *productSaleHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	sale, err := h.cart.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductSaleDTO(sale))
}

// list отдаёт все позиции либо, при ?email=, корзину одного покупателя.
func (h *productSaleHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		sales []*domain.ProductSale
		err   error
	)
	if raw := r.URL.Query().Get("email"); raw != "" {
		email, mailErr := domain.NewEmail(raw)
		if mailErr != nil {
			writeError(w, h.logger, mailErr)
			return
		}
		sales, err = h.cart.GetAllInCartByEmail(r.Context(), email)
	} else {
		sales, err = h.cart.GetAll(r.Context())
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	dtos := make([]ProductSaleDTO, 0, len(sales))
	for _, sale := range sales {
		dtos = append(dtos, toProductSaleDTO(sale))
	}
	writeJSON(w, http.StatusOK, dtos)
}
