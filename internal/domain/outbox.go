package domain

import "time"

// OutboxMessage — событие, записанное в transactional outbox вместе
// с бизнес-данными и публикуемое отдельным воркером.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
