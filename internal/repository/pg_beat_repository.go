package repository

import (
	"context"
	"fmt"

	"story-engine/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ограничение уникальности слота бита в рамках арки.
const beatIndexConstraint = "world_beats_arc_id_beat_index_key"

// Compile-time check
var _ BeatRepository = (*pgBeatRepository)(nil)

type pgBeatRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPgBeatRepository(db DBTX, logger *zap.Logger) BeatRepository {
	return &pgBeatRepository{
		db:     db,
		logger: logger.Named("PgBeatRepo"),
	}
}

// Create вставляет бит. Занятый слот (arc_id, beat_index) - это
// ErrBeatIndexConflict: конкурирующий progress уже сгенерировал этот бит,
// существующие данные не затираются.
func (r *pgBeatRepository) Create(ctx context.Context, beat *models.WorldBeat) error {
	query := `
        INSERT INTO world_beats
            (id, arc_id, beat_index, beat_type, beat_name, description, world_directives, emergent_storylines, created_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	logFields := []zap.Field{
		zap.String("beatID", beat.ID.String()),
		zap.String("arcID", beat.ArcID.String()),
		zap.Int("beatIndex", beat.BeatIndex),
		zap.String("beatType", string(beat.BeatType)),
	}
	r.logger.Debug("Creating world beat", logFields...)

	_, err := r.db.Exec(ctx, query,
		beat.ID,
		beat.ArcID,
		beat.BeatIndex,
		beat.BeatType,
		beat.BeatName,
		beat.Description,
		beat.WorldDirectives,
		beat.EmergentStorylines,
		beat.CreatedAt,
	)
	if err != nil {
		if uniqueViolation(err, beatIndexConstraint) {
			r.logger.Warn("Beat slot already occupied", logFields...)
			return models.ErrBeatIndexConflict
		}
		r.logger.Error("Failed to create world beat", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания бита %d арки %s: %w", beat.BeatIndex, beat.ArcID, err)
	}
	r.logger.Info("World beat created successfully", logFields...)
	return nil
}

// ListByArc возвращает биты арки по возрастанию beat_index.
func (r *pgBeatRepository) ListByArc(ctx context.Context, arcID uuid.UUID) ([]models.WorldBeat, error) {
	query := `
        SELECT id, arc_id, beat_index, beat_type, beat_name, description, world_directives, emergent_storylines, created_at
        FROM world_beats
        WHERE arc_id = $1
        ORDER BY beat_index ASC
    `
	var beats []models.WorldBeat
	if err := pgxscan.Select(ctx, r.db, &beats, query, arcID); err != nil {
		r.logger.Error("Failed to list arc beats",
			zap.String("arcID", arcID.String()), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения битов арки %s: %w", arcID, err)
	}
	return beats, nil
}
