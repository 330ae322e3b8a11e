package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type RedisOperation string

const (
	RedisOpSet  RedisOperation = "set"
	RedisOpDel  RedisOperation = "del"
	RedisOpEval RedisOperation = "eval"
)

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
)

// Timer пишет длительность операции в гистограмму при ObserveDuration
// Используется через defer сразу после создания
type Timer struct {
	observer prometheus.Observer
	start    time.Time
}

func (t *Timer) ObserveDuration() {
	t.observer.Observe(time.Since(t.start).Seconds())
}

func NewRedisTimer(service string, op RedisOperation) *Timer {
	return &Timer{
		observer: RedisOperationDuration.WithLabelValues(service, string(op)),
		start:    time.Now(),
	}
}

func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

// NewDbTimer - table это таблица каталога, одинаково для gorm и PostgREST хранилищ
func NewDbTimer(service string, op DbOperation, table string) *Timer {
	return &Timer{
		observer: DbQueryDuration.WithLabelValues(service, string(op), table),
		start:    time.Now(),
	}
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

// KafkaProduceTimer - в отличие от Timer различает успех и ошибку отправки
type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	KafkaMessagesProduced.WithLabelValues(kt.service, kt.topic).Inc()
	KafkaProduceDuration.WithLabelValues(kt.service, kt.topic).Observe(time.Since(kt.start).Seconds())
}

func (kt *KafkaProduceTimer) Error() {
	KafkaErrors.WithLabelValues(kt.service, kt.topic, "produce").Inc()
}

// Результаты обработки сущности при импорте
const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

func RecordImportEntity(entity, outcome string) {
	ImportEntitiesTotal.WithLabelValues(entity, outcome).Inc()
}

func RecordImportRun(trigger, status string, duration time.Duration) {
	ImportRunsTotal.WithLabelValues(trigger, status).Inc()
	ImportRunDuration.Observe(duration.Seconds())
}
