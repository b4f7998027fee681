package http

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/service/user"
)

// userHandler обслуживает /api/v1/users.
type userHandler struct {
	users  *user.Service
	logger *log.Entry
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *userHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	email, err := domain.NewEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	account, err := h.users.Register(r.Context(), user.RegisterInput{
		Email:    email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(account))
}

func (h *userHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	email, err := domain.NewEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.users.Login(r.Context(), email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *userHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	account, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(account))
}

func (h *userHandler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.users.GetAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dtos := make([]UserDTO, 0, len(accounts))
	for _, account := range accounts {
		dtos = append(dtos, toUserDTO(account))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *userHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
