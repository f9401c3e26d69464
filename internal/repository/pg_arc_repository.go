package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-engine/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Ограничение уникальности номера арки в рамках мира.
const arcNumberConstraint = "world_arcs_world_id_arc_number_key"

// Количество попыток вставки при гонке за номер арки.
const arcCreateAttempts = 3

// Compile-time check
var _ ArcRepository = (*pgArcRepository)(nil)

type pgArcRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPgArcRepository(db DBTX, logger *zap.Logger) ArcRepository {
	return &pgArcRepository{
		db:     db,
		logger: logger.Named("PgArcRepo"),
	}
}

// Create вставляет арку, вычисляя arc_number = max+1 по миру внутри самого
// INSERT. UNIQUE(world_id, arc_number) закрывает гонку конкурентного
// создания: проигравшая вставка ловит 23505 и пробует заново.
func (r *pgArcRepository) Create(ctx context.Context, arc *models.WorldArc) error {
	query := `
        INSERT INTO world_arcs
            (id, world_id, arc_number, story_name, story_idea, status, created_at)
        VALUES
            ($1, $2,
             (SELECT COALESCE(MAX(arc_number), 0) + 1 FROM world_arcs WHERE world_id = $2),
             $3, $4, $5, $6)
        RETURNING arc_number
    `
	logFields := []zap.Field{zap.String("arcID", arc.ID.String()), zap.String("worldID", arc.WorldID.String())}
	r.logger.Debug("Creating world arc", logFields...)

	var lastErr error
	for attempt := 1; attempt <= arcCreateAttempts; attempt++ {
		err := r.db.QueryRow(ctx, query,
			arc.ID,
			arc.WorldID,
			arc.StoryName,
			arc.StoryIdea,
			arc.Status,
			arc.CreatedAt,
		).Scan(&arc.ArcNumber)
		if err == nil {
			r.logger.Info("World arc created successfully",
				append(logFields, zap.Int("arcNumber", arc.ArcNumber))...)
			return nil
		}
		if uniqueViolation(err, arcNumberConstraint) {
			r.logger.Warn("Arc number collision, retrying",
				append(logFields, zap.Int("attempt", attempt))...)
			lastErr = err
			continue
		}
		r.logger.Error("Failed to create world arc", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания арки: %w", err)
	}
	r.logger.Error("Failed to create world arc after retries", append(logFields, zap.Error(lastErr))...)
	return fmt.Errorf("ошибка создания арки после %d попыток: %w", arcCreateAttempts, lastErr)
}

func (r *pgArcRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WorldArc, error) {
	query := `
        SELECT id, world_id, arc_number, story_name, story_idea, status, summary, created_at, completed_at
        FROM world_arcs
        WHERE id = $1
    `
	arc := &models.WorldArc{}
	logFields := []zap.Field{zap.String("arcID", id.String())}
	r.logger.Debug("Getting world arc by ID", logFields...)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&arc.ID, &arc.WorldID, &arc.ArcNumber, &arc.StoryName, &arc.StoryIdea,
		&arc.Status, &arc.Summary, &arc.CreatedAt, &arc.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("World arc not found by ID", logFields...)
			return nil, models.ErrArcNotFound
		}
		r.logger.Error("Failed to get world arc by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения арки %s: %w", id, err)
	}
	return arc, nil
}

func (r *pgArcRepository) ListByWorld(ctx context.Context, worldID uuid.UUID) ([]models.WorldArc, error) {
	query := `
        SELECT id, world_id, arc_number, story_name, story_idea, status, summary, created_at, completed_at
        FROM world_arcs
        WHERE world_id = $1
        ORDER BY arc_number DESC
    `
	var arcs []models.WorldArc
	if err := pgxscan.Select(ctx, r.db, &arcs, query, worldID); err != nil {
		r.logger.Error("Failed to list world arcs",
			zap.String("worldID", worldID.String()), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения арок мира %s: %w", worldID, err)
	}
	return arcs, nil
}

// ListCompletedSummaries возвращает до limit summary завершенных арок мира,
// свежайший последним (порядок важен как continuity-контекст генерации).
func (r *pgArcRepository) ListCompletedSummaries(ctx context.Context, worldID uuid.UUID, limit int) ([]string, error) {
	query := `
        SELECT summary FROM (
            SELECT summary, arc_number
            FROM world_arcs
            WHERE world_id = $1 AND status = 'completed' AND summary IS NOT NULL
            ORDER BY arc_number DESC
            LIMIT $2
        ) recent
        ORDER BY arc_number ASC
    `
	var summaries []string
	if err := pgxscan.Select(ctx, r.db, &summaries, query, worldID, limit); err != nil {
		r.logger.Error("Failed to list completed arc summaries",
			zap.String("worldID", worldID.String()), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения summary завершенных арок мира %s: %w", worldID, err)
	}
	return summaries, nil
}

// MarkCompleted переводит арку в completed и выставляет summary/completed_at.
// Повторное завершение не проходит условие status = 'active'.
func (r *pgArcRepository) MarkCompleted(ctx context.Context, arcID uuid.UUID, summary string, completedAt time.Time) error {
	query := `
        UPDATE world_arcs SET status = $1, summary = $2, completed_at = $3
        WHERE id = $4 AND status = $5
    `
	logFields := []zap.Field{zap.String("arcID", arcID.String())}
	r.logger.Debug("Marking world arc completed", logFields...)

	commandTag, err := r.db.Exec(ctx, query,
		models.ArcStatusCompleted, summary, completedAt, arcID, models.ArcStatusActive,
	)
	if err != nil {
		r.logger.Error("Failed to mark world arc completed", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка завершения арки %s: %w", arcID, err)
	}
	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to complete non-existent or already completed arc", logFields...)
		return models.ErrArcAlreadyComplete
	}
	r.logger.Info("World arc marked completed", logFields...)
	return nil
}
