package repository

import (
	"context"
	"fmt"

	"story-engine/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check
var _ EventRepository = (*pgEventRepository)(nil)

type pgEventRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPgEventRepository(db DBTX, logger *zap.Logger) EventRepository {
	return &pgEventRepository{
		db:     db,
		logger: logger.Named("PgEventRepo"),
	}
}

// Create добавляет запись в журнал событий мира. Журнал append-only:
// операций обновления или удаления у репозитория нет.
func (r *pgEventRepository) Create(ctx context.Context, event *models.WorldEvent) error {
	query := `
        INSERT INTO world_events
            (id, world_id, arc_id, beat_id, event_type, description, impact_level, created_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	logFields := []zap.Field{
		zap.String("eventID", event.ID.String()),
		zap.String("worldID", event.WorldID.String()),
		zap.String("eventType", string(event.EventType)),
		zap.String("impactLevel", string(event.ImpactLevel)),
	}
	r.logger.Debug("Creating world event", logFields...)

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.WorldID,
		event.ArcID,
		event.BeatID,
		event.EventType,
		event.Description,
		event.ImpactLevel,
		event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create world event", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка записи события мира %s: %w", event.WorldID, err)
	}
	r.logger.Info("World event created successfully", logFields...)
	return nil
}

// ListRecentByWorld возвращает до limit последних событий мира,
// свежайшее первым.
func (r *pgEventRepository) ListRecentByWorld(ctx context.Context, worldID uuid.UUID, limit int) ([]models.WorldEvent, error) {
	query := `
        SELECT id, world_id, arc_id, beat_id, event_type, description, impact_level, created_at
        FROM world_events
        WHERE world_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	var events []models.WorldEvent
	if err := pgxscan.Select(ctx, r.db, &events, query, worldID, limit); err != nil {
		r.logger.Error("Failed to list recent world events",
			zap.String("worldID", worldID.String()), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения событий мира %s: %w", worldID, err)
	}
	return events, nil
}
