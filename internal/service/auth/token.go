package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// tokenPayload — подписываемая часть сессионного токена.
type tokenPayload struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"exp"`
}

// HMACTokenIssuer выдаёт токены вида base64(payload).base64(hmac-sha256).
// Токен самодостаточен: проверка не обращается к хранилищу.
type HMACTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  domain.Clock
}

// NewHMACTokenIssuer создаёт issuer с данным секретом и временем жизни токена.
func NewHMACTokenIssuer(secret []byte, ttl time.Duration, clock domain.Clock) (*HMACTokenIssuer, error) {
	if len(secret) == 0 {
		return nil, domain.NewValidation("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, domain.NewValidation("token ttl must be positive")
	}
	return &HMACTokenIssuer{secret: secret, ttl: ttl, clock: clock}, nil
}

// Issue подписывает новый токен для пользователя.
func (i *HMACTokenIssuer) Issue(userID domain.EntityID, email domain.Email, role domain.Role) (string, error) {
	payload, err := json.Marshal(tokenPayload{
		UserID:    userID.String(),
		Email:     email.String(),
		Role:      string(role),
		ExpiresAt: i.clock.Now().Add(i.ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal token payload: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + i.sign(encoded), nil
}

// Verify проверяет подпись и срок действия токена и возвращает
// идентификатор пользователя.
func (i *HMACTokenIssuer) Verify(token string) (domain.EntityID, error) {
	encoded, signature, ok := strings.Cut(token, ".")
	if !ok {
		return domain.EntityID{}, domain.NewValidation("malformed token")
	}
	if !hmac.Equal([]byte(signature), []byte(i.sign(encoded))) {
		return domain.EntityID{}, domain.NewValidation("invalid token signature")
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return domain.EntityID{}, domain.NewValidation("malformed token payload")
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.EntityID{}, domain.NewValidation("malformed token payload")
	}
	if i.clock.Now().Unix() >= payload.ExpiresAt {
		return domain.EntityID{}, domain.NewValidation("token expired")
	}

	userID, err := domain.ParseEntityID(payload.UserID)
	if err != nil {
		return domain.EntityID{}, domain.NewValidation("malformed token subject")
	}
	return userID, nil
}

func (i *HMACTokenIssuer) sign(encoded string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

var _ domain.TokenIssuer = (*HMACTokenIssuer)(nil)
