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

// Compile-time check
var _ WorldRepository = (*pgWorldRepository)(nil)

type pgWorldRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPgWorldRepository(db DBTX, logger *zap.Logger) WorldRepository {
	return &pgWorldRepository{
		db:     db,
		logger: logger.Named("PgWorldRepo"),
	}
}

func (r *pgWorldRepository) Create(ctx context.Context, world *models.World) error {
	query := `
        INSERT INTO worlds
            (id, name, description, current_arc_id, created_at)
        VALUES
            ($1, $2, $3, $4, $5)
    `
	logFields := []zap.Field{zap.String("worldID", world.ID.String()), zap.String("name", world.Name)}
	r.logger.Debug("Creating world", logFields...)

	_, err := r.db.Exec(ctx, query,
		world.ID,
		world.Name,
		world.Description,
		world.CurrentArcID,
		world.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create world", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания мира: %w", err)
	}
	r.logger.Info("World created successfully", logFields...)
	return nil
}

func (r *pgWorldRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.World, error) {
	query := `
        SELECT id, name, description, current_arc_id, created_at, updated_at
        FROM worlds
        WHERE id = $1
    `
	world := &models.World{}
	logFields := []zap.Field{zap.String("worldID", id.String())}
	r.logger.Debug("Getting world by ID", logFields...)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&world.ID, &world.Name, &world.Description,
		&world.CurrentArcID, &world.CreatedAt, &world.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("World not found by ID", logFields...)
			return nil, models.ErrWorldNotFound
		}
		r.logger.Error("Failed to get world by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения мира %s: %w", id, err)
	}
	return world, nil
}

func (r *pgWorldRepository) List(ctx context.Context) ([]models.World, error) {
	query := `
        SELECT id, name, description, current_arc_id, created_at, updated_at
        FROM worlds
        ORDER BY created_at DESC
    `
	var worlds []models.World
	if err := pgxscan.Select(ctx, r.db, &worlds, query); err != nil {
		r.logger.Error("Failed to list worlds", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка миров: %w", err)
	}
	return worlds, nil
}

// UpdateCurrentArc выставляет (или сбрасывает, при arcID == nil) указатель
// текущей арки мира.
func (r *pgWorldRepository) UpdateCurrentArc(ctx context.Context, worldID uuid.UUID, arcID *uuid.UUID) error {
	query := `
        UPDATE worlds SET current_arc_id = $1, updated_at = $2
        WHERE id = $3
    `
	logFields := []zap.Field{zap.String("worldID", worldID.String())}
	if arcID != nil {
		logFields = append(logFields, zap.String("arcID", arcID.String()))
	}
	r.logger.Debug("Updating world current arc", logFields...)

	commandTag, err := r.db.Exec(ctx, query, arcID, time.Now().UTC(), worldID)
	if err != nil {
		r.logger.Error("Failed to update world current arc", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка обновления current_arc_id мира %s: %w", worldID, err)
	}
	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update current arc of non-existent world", logFields...)
		return models.ErrWorldNotFound
	}
	r.logger.Info("World current arc updated", logFields...)
	return nil
}
