package repository

import (
	"context"
	"errors"
	"time"

	"story-engine/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX - минимальный контракт pgx-пула/транзакции, достаточный репозиториям.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WorldRepository - персистентность миров. CurrentArcID - единственный
// мутабельный указатель мира; пишет его только движок прогрессии.
type WorldRepository interface {
	Create(ctx context.Context, world *models.World) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.World, error)
	List(ctx context.Context) ([]models.World, error)
	UpdateCurrentArc(ctx context.Context, worldID uuid.UUID, arcID *uuid.UUID) error
}

// ArcRepository - персистентность арок. Create сам назначает ArcNumber
// атомарно относительно конкурентного создания арок того же мира.
type ArcRepository interface {
	Create(ctx context.Context, arc *models.WorldArc) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorldArc, error)
	ListByWorld(ctx context.Context, worldID uuid.UUID) ([]models.WorldArc, error)
	// ListCompletedSummaries возвращает до limit summary завершенных арок
	// мира, свежайший последним.
	ListCompletedSummaries(ctx context.Context, worldID uuid.UUID, limit int) ([]string, error)
	MarkCompleted(ctx context.Context, arcID uuid.UUID, summary string, completedAt time.Time) error
}

// BeatRepository - персистентность битов. Create падает с
// models.ErrBeatIndexConflict, если слот (arc_id, beat_index) уже занят -
// это и есть защита от двойной генерации одного слота.
type BeatRepository interface {
	Create(ctx context.Context, beat *models.WorldBeat) error
	// ListByArc возвращает биты арки по возрастанию beat_index.
	ListByArc(ctx context.Context, arcID uuid.UUID) ([]models.WorldBeat, error)
}

// EventRepository - append-only журнал событий мира.
type EventRepository interface {
	Create(ctx context.Context, event *models.WorldEvent) error
	// ListRecentByWorld возвращает события мира по убыванию created_at.
	ListRecentByWorld(ctx context.Context, worldID uuid.UUID, limit int) ([]models.WorldEvent, error)
}

// uniqueViolation проверяет, что ошибка - нарушение указанного UNIQUE
// ограничения PostgreSQL (SQLSTATE 23505).
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
