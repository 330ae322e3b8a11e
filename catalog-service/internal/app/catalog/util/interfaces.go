package util

import (
	"context"
)

// CategoryCache - кеш списка категорий, который импорт сбрасывает после создания строк
type CategoryCache interface {
	DeleteCategories(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// RunLocker - межпроцессная блокировка, не дающая двум импортам идти одновременно
// release всегда не nil при acquired == true
type RunLocker interface {
	TryLock(ctx context.Context, key string) (release func(), acquired bool, err error)
}
