package mailer

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// Mock — mailer для тестов и локального запуска: записывает письма в память
// и возвращает заранее заданную ошибку.
type Mock struct {
	mu   sync.Mutex
	sent []domain.Mail
	err  error
}

// NewMock создаёт mock mailer.
func NewMock() *Mock {
	return &Mock{}
}

// FailWith заставляет последующие Send возвращать err.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Send записывает письмо либо возвращает настроенную ошибку.
func (m *Mock) Send(_ context.Context, mail domain.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

// Sent возвращает копию всех отправленных писем.
func (m *Mock) Sent() []domain.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Mail(nil), m.sent...)
}

var _ domain.Mailer = (*Mock)(nil)
