package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const runsCollection = "import_runs"

type runRepository struct {
	collection *mongo.Collection
}

// NewRunRepository создает репозиторий истории импортов в MongoDB
// Индекс по started_at нужен для выборки последних прогонов
func NewRunRepository(db *mongo.Database) RunRepository {
	collection := db.Collection(runsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "started_at", Value: -1}},
		Options: options.Index().SetName("started_at_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Индекс может уже существовать
		logger.Warn().Err(err).Str("collection", runsCollection).Msg("Failed to create index on started_at")
	}

	return &runRepository{collection: collection}
}

// Save сохраняет итог прогона, повторное сохранение с тем же ID перезаписывает документ
func (r *runRepository) Save(ctx context.Context, run *entity.RunSummary) error {
	filter := bson.M{"_id": run.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, run, opts); err != nil {
		return fmt.Errorf("failed to save import run: %w", err)
	}

	return nil
}

// GetByID возвращает прогон по ID
func (r *runRepository) GetByID(ctx context.Context, id string) (*entity.RunSummary, error) {
	var run entity.RunSummary
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}

	return &run, nil
}

// List возвращает последние прогоны, новые первыми
func (r *runRepository) List(ctx context.Context, limit int) ([]entity.RunSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find import runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := make([]entity.RunSummary, 0, limit)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode import runs: %w", err)
	}

	return runs, nil
}
