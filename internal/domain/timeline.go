package domain

import "time"

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  EntityID
	Type     string
	Note     string
	Occurred time.Time
}

// Типы событий таймлайна заказа.
const (
	TimelineOrderCreated  = "OrderCreated"
	TimelineOrderUpdated  = "OrderUpdated"
	TimelineOrderDeleted  = "OrderDeleted"
	TimelineMailRequested = "ConfirmationMailRequested"
)
