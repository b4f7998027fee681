package http

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/service/order"
)

// orderHandler обслуживает /api/v1/orders.
type orderHandler struct {
	orders *order.Service
	logger *log.Entry
}

type addOrderRequest struct {
	OrderNumber    string   `json:"order_number"`
	Email          string   `json:"email"`
	Note           string   `json:"note,omitempty"`
	ProductSaleIDs []string `json:"product_sale_ids"`
}

type updateOrderRequest struct {
	Email          string   `json:"email"`
	Note           string   `json:"note,omitempty"`
	ProductSaleIDs []string `json:"product_sale_ids"`
}

func parseSaleIDs(raw []string) ([]domain.EntityID, error) {
	ids := make([]domain.EntityID, 0, len(raw))
	for _, value := range raw {
		id, err := domain.ParseEntityID(value)
		if err != nil {
			return nil, domain.NewValidation("malformed product sale id: " + value)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (h *orderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req addOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	number, err := domain.NewOrderNumber(req.OrderNumber)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	email, err := domain.NewEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	saleIDs, err := parseSaleIDs(req.ProductSaleIDs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	created, err := h.orders.Add(r.Context(), order.AddInput{
		OrderNumber:    number,
		Email:          email,
		Note:           req.Note,
		ProductSaleIDs: saleIDs,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDTO(created))
}

func (h *orderHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	email, err := domain.NewEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	saleIDs, err := parseSaleIDs(req.ProductSaleIDs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	updated, err := h.orders.Update(r.Context(), order.UpdateInput{
		ID:             id,
		Email:          email,
		Note:           req.Note,
		ProductSaleIDs: saleIDs,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(updated))
}

// delete удаляет запись заказа; его позиции возвращаются в корзину.
func (h *orderHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteWithPositions удаляет заказ вместе с позициями.
func (h *orderHandler) deleteWithPositions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.orders.DeleteWithPositions(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	found, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(found))
}

func (h *orderHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dtos := make([]OrderDTO, 0, len(orders))
	for _, found := range orders {
		dtos = append(dtos, toOrderDTO(found))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *orderHandler) timeline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	events, err := h.orders.Timeline(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dtos := make([]TimelineEventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, toTimelineEventDTO(event))
	}
	writeJSON(w, http.StatusOK, dtos)
}
