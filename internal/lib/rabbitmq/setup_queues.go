package rabbitmq

// MailExchange обменник, через который storefront передаёт письма сервису sender.
const MailExchange = "mail"

// QueueConfig описывает очередь и ключ маршрутизации, с которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// MailQueue очередь исходящих писем.
var MailQueue = QueueConfig{QueueName: "mail.outgoing", RoutingKey: "outgoing"}

// GetMailQueues возвращает очереди, объявляемые при настройке канала.
func GetMailQueues() []QueueConfig {
	return []QueueConfig{MailQueue}
}
