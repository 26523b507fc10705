package postgres

import (
	"candidateTasks/internal/logger"
	"candidateTasks/internal/models/task"
	repo "candidateTasks/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, options ...Option) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	for _, option := range options {
		option(config)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) CreateTask(ctx context.Context, t *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(uuid, name, display_name, description, days_to_complete, optional,
				 task_type, doc_link, uploadable_file_types, allowed_answers)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING created_at`

	answers := t.AllowedAnswers
	if answers == nil {
		answers = []string{}
	}

	err := s.pool.QueryRow(ctx, query,
		t.UUID,
		t.Name,
		t.DisplayName,
		t.Description,
		t.DaysToComplete,
		t.Optional,
		t.TaskType,
		t.DocLink,
		t.UploadableFileTypes,
		answers,
	).Scan(&t.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", mapError(err))
	}

	warnSlow(start, "CreateTask")
	return nil
}

const taskColumns = `t.uuid, t.name, t.display_name, t.description, t.days_to_complete, t.optional,
				t.task_type, t.doc_link, t.uploadable_file_types, t.allowed_answers, t.created_at`

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.UUID,
		&t.Name,
		&t.DisplayName,
		&t.Description,
		&t.DaysToComplete,
		&t.Optional,
		&t.TaskType,
		&t.DocLink,
		&t.UploadableFileTypes,
		&t.AllowedAnswers,
		&t.CreatedAt,
	)
	return t, err
}

func (s *Storage) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.uuid = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnSlow(start, "GetTask")
	return t, nil
}

func (s *Storage) ListTasks(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks t ORDER BY t.name, t.uuid`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnSlow(start, "ListTasks")
	return tasks, nil
}

func (s *Storage) AddListMembers(ctx context.Context, listID uuid.UUID, candidateIDs ...uuid.UUID) error {
	start := time.Now()

	batch := &pgx.Batch{}
	for _, id := range candidateIDs {
		batch.Queue(`INSERT INTO saved_list_members (list_id, candidate_id)
					VALUES ($1, $2)
					ON CONFLICT DO NOTHING`, listID, id)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		logger.Error("Repository: Не удалось добавить участников списка", err,
			zap.String("list_id", listID.String()))
		return fmt.Errorf("добавление участников списка: %w", err)
	}

	warnSlow(start, "AddListMembers")
	return nil
}

func (s *Storage) ListMembers(ctx context.Context, listID uuid.UUID) ([]uuid.UUID, error) {
	start := time.Now()

	query := `SELECT candidate_id FROM saved_list_members
				WHERE list_id = $1
				ORDER BY added_at, candidate_id`

	rows, err := s.pool.Query(ctx, query, listID)
	if err != nil {
		logger.Error("Repository: Не удалось получить участников списка", err)
		return nil, fmt.Errorf("получение участников списка: %w", err)
	}

	members, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	if len(members) == 0 {
		return nil, repo.ErrNotFound
	}

	warnSlow(start, "ListMembers")
	return members, nil
}

func (s *Storage) CreateAssignment(ctx context.Context, a *task.Assignment) error {
	start := time.Now()

	if a.Task == nil {
		return repo.ErrNotFound
	}
	if a.Status == "" {
		a.Status = task.StatusActive
	}
	if a.ActivatedAt.IsZero() {
		a.ActivatedAt = time.Now()
	}

	query := `INSERT INTO task_assignments
				(uuid, task_id, candidate_id, related_list_id, due_date, completed_date, abandoned_date,
				 status, candidate_notes, answer, activated_at, deactivated_at, version)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1)
				RETURNING version`

	err := s.pool.QueryRow(ctx, query,
		a.UUID,
		a.Task.UUID,
		a.CandidateID,
		a.RelatedListID,
		a.DueDate,
		a.CompletedDate,
		a.AbandonedDate,
		a.Status,
		a.CandidateNotes,
		a.Answer,
		a.ActivatedAt,
		a.DeactivatedAt,
	).Scan(&a.Version)
	if err != nil {
		logger.Error("Repository: Не удалось добавить назначение", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление назначения: %w", mapError(err))
	}

	warnSlow(start, "CreateAssignment")
	return nil
}

// Update с оптимистичной блокировкой по версии
func (s *Storage) UpdateAssignment(ctx context.Context, a *task.Assignment) error {
	start := time.Now()

	query := `UPDATE task_assignments
			SET due_date = $1,
				completed_date = $2,
				abandoned_date = $3,
				status = $4,
				candidate_notes = $5,
				answer = $6,
				deactivated_at = $7,
				version = version + 1,
				updated_at = NOW()
			WHERE uuid = $8 AND version = $9
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query,
		a.DueDate,
		a.CompletedDate,
		a.AbandonedDate,
		a.Status,
		a.CandidateNotes,
		a.Answer,
		a.DeactivatedAt,
		a.UUID,
		a.Version,
	).Scan(&a.UpdatedAt, &a.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.updateMiss(ctx, a)
		}
		logger.Error("Repository: Не удалось обновить назначение", err)
		return fmt.Errorf("обновление назначения: %w", err)
	}

	warnSlow(start, "UpdateAssignment")
	return nil
}

// отличает отсутствующую запись от устаревшей версии
func (s *Storage) updateMiss(ctx context.Context, a *task.Assignment) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM task_assignments WHERE uuid = $1)`, a.UUID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("проверка назначения: %w", err)
	}
	if !exists {
		return repo.ErrNotFound
	}

	logger.Warn("Repository: Конфликт версий при обновлении назначения",
		zap.String("assignment_id", a.UUID.String()),
		zap.Int("expected_version", a.Version))
	return repo.ErrVersionConflict
}

const assignmentColumns = `a.uuid, a.candidate_id, a.related_list_id, a.due_date, a.completed_date, a.abandoned_date,
				a.status, a.candidate_notes, a.answer, a.activated_at, a.deactivated_at, a.updated_at, a.version, ` + taskColumns

const assignmentFrom = ` FROM task_assignments a JOIN tasks t ON t.uuid = a.task_id `

func scanAssignment(row pgx.Row) (*task.Assignment, error) {
	a := &task.Assignment{Task: &task.Task{}}
	t := a.Task
	err := row.Scan(
		&a.UUID,
		&a.CandidateID,
		&a.RelatedListID,
		&a.DueDate,
		&a.CompletedDate,
		&a.AbandonedDate,
		&a.Status,
		&a.CandidateNotes,
		&a.Answer,
		&a.ActivatedAt,
		&a.DeactivatedAt,
		&a.UpdatedAt,
		&a.Version,
		&t.UUID,
		&t.Name,
		&t.DisplayName,
		&t.Description,
		&t.DaysToComplete,
		&t.Optional,
		&t.TaskType,
		&t.DocLink,
		&t.UploadableFileTypes,
		&t.AllowedAnswers,
		&t.CreatedAt,
	)
	return a, err
}

func (s *Storage) GetAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error) {
	start := time.Now()

	query := `SELECT ` + assignmentColumns + assignmentFrom + `WHERE a.uuid = $1`

	a, err := scanAssignment(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить назначение", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение назначения: %w", err)
	}

	warnSlow(start, "GetAssignment")
	return a, nil
}

func (s *Storage) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*task.Assignment, error) {
	query := `SELECT ` + assignmentColumns + assignmentFrom + `WHERE a.candidate_id = $1`
	return s.listAssignments(ctx, "ListByCandidate", query, candidateID)
}

// назначения задачи кандидатам, которые сейчас состоят в списке
func (s *Storage) ListByTaskAndList(ctx context.Context, taskID, listID uuid.UUID) ([]*task.Assignment, error) {
	query := `SELECT ` + assignmentColumns + assignmentFrom + `
				JOIN saved_list_members m ON m.candidate_id = a.candidate_id AND m.list_id = $2
				WHERE a.task_id = $1`
	return s.listAssignments(ctx, "ListByTaskAndList", query, taskID, listID)
}

func (s *Storage) ListOutstandingDueBefore(ctx context.Context, deadline time.Time, limit int) ([]*task.Assignment, error) {
	query := `SELECT ` + assignmentColumns + assignmentFrom + `
				WHERE a.status = 'active'
					AND a.completed_date IS NULL
					AND a.abandoned_date IS NULL
					AND a.due_date < $1
				ORDER BY a.due_date
				LIMIT $2`
	return s.listAssignments(ctx, "ListOutstandingDueBefore", query, deadline, limit)
}

func (s *Storage) listAssignments(ctx context.Context, op, query string, args ...any) ([]*task.Assignment, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить назначения", err,
			zap.String("op", op), zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение назначений: %w", err)
	}
	defer rows.Close()

	assignments := []*task.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования назначения", err, zap.String("op", op))
			return nil, fmt.Errorf("сканирование назначения: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnSlow(start, op)
	return assignments, nil
}

func warnSlow(start time.Time, op string) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.String("op", op), zap.Duration("ms", time.Since(start)))
	}
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return errors.Join(repo.ErrAlreadyExists, err)
		case codeForeignKeyViolation:
			return errors.Join(repo.ErrNotFound, err)
		}
	}
	return err
}
