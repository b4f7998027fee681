package kafka

// Topics для Kafka.
const (
	TopicOrderEvents = "resto.order.events"
)
