package rabbitmq

// QueueConfig описывает очередь и ключ, которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// AuditQueue получает все события реестра.
const AuditQueue = "lifeflow.audit"

// GetAuditQueues возвращает очереди, объявляемые при старте сервиса.
func GetAuditQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: AuditQueue, RoutingKey: "#"},
	}
}
