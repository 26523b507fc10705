package service

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/logger"
	"candidateTasks/internal/models/task"
	"candidateTasks/internal/monitor"
	rep "candidateTasks/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type AssignmentService struct {
	repo    Repository
	monitor *monitor.Monitor
	clock   lifecycle.Clock
}

func NewAssignmentService(repo Repository, options ...Option) *AssignmentService {
	s := &AssignmentService{
		repo:  repo,
		clock: lifecycle.SystemClock,
	}
	for _, opt := range options {
		opt(s)
	}
	s.monitor = monitor.New(repo, monitor.WithClock(s.clock))
	return s
}

// Now - текущее время сервиса, по нему классифицируются ответы
func (s *AssignmentService) Now() time.Time {
	return s.clock()
}

func (s *AssignmentService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *AssignmentService) CreateTask(ctx context.Context, draft *task.Task) (*task.Task, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return nil, NewValidationError("name", "название не может быть пустым")
	}
	if draft.DaysToComplete < 0 {
		return nil, NewValidationError("days_to_complete", "не может быть отрицательным")
	}
	if draft.TaskType == "" {
		draft.TaskType = task.TypeSimple
	}
	if !draft.TaskType.Valid() {
		return nil, NewValidationError("task_type", fmt.Sprintf("неизвестный тип %q", draft.TaskType))
	}
	if draft.DisplayName == "" {
		draft.DisplayName = draft.Name
	}
	draft.UUID = uuid.New()

	if err := s.repo.CreateTask(ctx, draft); err != nil {
		return nil, s.repoError(err, ResourceTask, draft.UUID, "создание задачи")
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", draft.UUID.String()),
		zap.String("name", draft.Name))
	return draft, nil
}

func (s *AssignmentService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *AssignmentService) AddListMembers(ctx context.Context, listID uuid.UUID, candidateIDs ...uuid.UUID) error {
	if len(candidateIDs) == 0 {
		return NewValidationError("candidate_ids", "список кандидатов пуст")
	}
	for _, id := range candidateIDs {
		if id == uuid.Nil {
			return NewValidationError("candidate_ids", "id не может быть пустым")
		}
	}

	if err := s.repo.AddListMembers(ctx, listID, candidateIDs...); err != nil {
		return fmt.Errorf("добавление участников списка: %w", err)
	}
	return nil
}

// AssignToCandidate назначает задачу кандидату.
// Без явного срока он равен текущему времени плюс DaysToComplete дней.
func (s *AssignmentService) AssignToCandidate(ctx context.Context, taskID, candidateID uuid.UUID, options ...task.AssignmentOption) (*task.Assignment, error) {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	a := s.newAssignment(t, candidateID, nil)
	a.Apply(options...)

	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		return nil, s.repoError(err, ResourceAssignment, a.UUID, "создание назначения")
	}

	logger.Info("Service: Задача назначена кандидату",
		zap.String("assignment_id", a.UUID.String()),
		zap.String("task_id", taskID.String()),
		zap.String("candidate_id", candidateID.String()))
	return a, nil
}

// AssignToList создаёт по назначению на каждого участника списка.
// Участники, у которых задача уже назначена и активна, пропускаются.
func (s *AssignmentService) AssignToList(ctx context.Context, taskID, listID uuid.UUID, options ...task.AssignmentOption) ([]*task.Assignment, error) {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, listID)
	if err != nil && !errors.Is(err, rep.ErrNotFound) {
		return nil, fmt.Errorf("получение участников списка: %w", err)
	}
	if len(members) == 0 {
		logger.Info("Service: Попытка назначить задачу пустому списку", zap.String("list_id", listID.String()))
		return nil, NewBusinessError(CodeListEmpty, fmt.Sprintf("в списке %s нет кандидатов", listID),
			ToDetail("list_id", listID.String()))
	}

	existing, err := s.repo.ListByTaskAndList(ctx, taskID, listID)
	if err != nil {
		return nil, fmt.Errorf("назначения задачи в списке: %w", err)
	}
	assigned := make(map[uuid.UUID]struct{}, len(existing))
	for _, a := range existing {
		if a.Status == task.StatusActive {
			assigned[a.CandidateID] = struct{}{}
		}
	}

	created := make([]*task.Assignment, 0, len(members))
	for _, candidateID := range members {
		if _, ok := assigned[candidateID]; ok {
			continue
		}
		a := s.newAssignment(t, candidateID, &listID)
		a.Apply(options...)

		if err := s.repo.CreateAssignment(ctx, a); err != nil {
			logger.Error("Service: Назначение списку прервано", err,
				zap.String("list_id", listID.String()),
				zap.Int("created", len(created)))
			return created, s.repoError(err, ResourceAssignment, a.UUID, "создание назначения")
		}
		created = append(created, a)
	}

	logger.Info("Service: Задача назначена списку",
		zap.String("task_id", taskID.String()),
		zap.String("list_id", listID.String()),
		zap.Int("assignments", len(created)),
		zap.Int("skipped", len(members)-len(created)))
	return created, nil
}

// RemoveTaskFromList деактивирует активные незакрытые назначения задачи, созданные через этот список.
// Завершённые, брошенные и назначенные напрямую не трогаются.
func (s *AssignmentService) RemoveTaskFromList(ctx context.Context, taskID, listID uuid.UUID) ([]*task.Assignment, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}
	if _, err := s.repo.ListMembers(ctx, listID); err != nil {
		return nil, s.repoError(err, ResourceList, listID, "получение участников списка")
	}

	existing, err := s.repo.ListByTaskAndList(ctx, taskID, listID)
	if err != nil {
		return nil, fmt.Errorf("назначения задачи в списке: %w", err)
	}

	now := s.clock()
	deactivated := make([]*task.Assignment, 0, len(existing))
	for _, a := range existing {
		if a.Status != task.StatusActive || a.RelatedListID == nil || *a.RelatedListID != listID || !a.IsOutstanding() {
			continue
		}
		a.Apply(task.WithStatus(task.StatusInactive, now))
		if err := s.repo.UpdateAssignment(ctx, a); err != nil {
			logger.Error("Service: Снятие задачи со списка прервано", err,
				zap.String("list_id", listID.String()),
				zap.Int("deactivated", len(deactivated)))
			return deactivated, s.repoError(err, ResourceAssignment, a.UUID, "деактивация назначения")
		}
		deactivated = append(deactivated, a)
	}

	logger.Info("Service: Задача снята со списка",
		zap.String("task_id", taskID.String()),
		zap.String("list_id", listID.String()),
		zap.Int("deactivated", len(deactivated)))
	return deactivated, nil
}

func (s *AssignmentService) GetAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error) {
	a, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, s.repoError(err, ResourceAssignment, id, "получение назначения")
	}
	return a, nil
}

// UpdateAssignment применяет опции и сохраняет назначение.
// Удалённые назначения не изменяются; запись с обеими датами не сохраняется.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, id uuid.UUID, options ...task.AssignmentOption) (*task.Assignment, error) {
	a, err := s.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == task.StatusDeleted {
		logger.Info("Service: Изменение удалённого назначения", zap.String("assignment_id", id.String()))
		return nil, NewBusinessError(CodeTaskDeleted, fmt.Sprintf("назначение %s удалено", id),
			ToDetail("id", id.String()))
	}

	a.Apply(options...)
	if a.IsAmbiguous() {
		logger.Warn("Service: Назначение одновременно завершено и брошено", zap.String("assignment_id", id.String()))
		return nil, NewValidationError("completed", "назначение не может быть одновременно завершено и брошено")
	}

	if err := s.repo.UpdateAssignment(ctx, a); err != nil {
		return nil, s.repoError(err, ResourceAssignment, id, "обновление назначения")
	}
	return a, nil
}

func (s *AssignmentService) CompleteAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error) {
	completed := true
	return s.UpdateAssignment(ctx, id, task.WithCompleted(&completed, s.clock()))
}

func (s *AssignmentService) AbandonAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error) {
	abandoned := true
	return s.UpdateAssignment(ctx, id, task.WithAbandoned(&abandoned, s.clock()))
}

func (s *AssignmentService) DeactivateAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error) {
	return s.UpdateAssignment(ctx, id, task.WithStatus(task.StatusInactive, s.clock()))
}

func (s *AssignmentService) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	_, err := s.UpdateAssignment(ctx, id, task.WithStatus(task.StatusDeleted, s.clock()))
	return err
}

// CandidateAssignments - назначения кандидата без удалённых, по сроку и имени задачи
func (s *AssignmentService) CandidateAssignments(ctx context.Context, candidateID uuid.UUID) ([]*task.Assignment, error) {
	all, err := s.repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("назначения кандидата %s: %w", candidateID.String(), err)
	}

	visible := make([]*task.Assignment, 0, len(all))
	for _, a := range all {
		if a != nil && monitor.ExcludeDeleted(a) {
			visible = append(visible, a)
		}
	}
	if err := lifecycle.Validate(visible); err != nil {
		logger.Error("Service: Некорректные назначения в хранилище", err,
			zap.String("candidate_id", candidateID.String()))
		return nil, err
	}
	return lifecycle.Sorted(visible), nil
}

func (s *AssignmentService) CandidateMonitor(ctx context.Context, candidateID uuid.UUID, activeOnly bool) (monitor.Summary, error) {
	return s.monitor.ForCandidate(ctx, candidateID, scope(activeOnly))
}

func (s *AssignmentService) ListTaskMonitor(ctx context.Context, taskID, listID uuid.UUID, activeOnly bool) (monitor.Summary, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return monitor.Summary{}, err
	}
	return s.monitor.ForListTask(ctx, taskID, listID, scope(activeOnly))
}

func scope(activeOnly bool) monitor.Filter {
	if activeOnly {
		return monitor.OnlyActive
	}
	return monitor.ExcludeDeleted
}

func (s *AssignmentService) getTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, s.repoError(err, ResourceTask, id, "получение задачи")
	}
	return t, nil
}

func (s *AssignmentService) newAssignment(t *task.Task, candidateID uuid.UUID, listID *uuid.UUID) *task.Assignment {
	now := s.clock()
	return &task.Assignment{
		UUID:          uuid.New(),
		Task:          t,
		CandidateID:   candidateID,
		RelatedListID: listID,
		DueDate:       now.AddDate(0, 0, t.DaysToComplete),
		Status:        task.StatusActive,
		ActivatedAt:   now,
	}
}

// переводит ошибки хранилища в бизнес-ошибки
func (s *AssignmentService) repoError(err error, resource Resource, id uuid.UUID, action string) error {
	switch {
	case errors.Is(err, rep.ErrNotFound):
		logger.Info("Service: Не найдено", zap.String("resource", string(resource)), zap.String("target_id", id.String()))
		return NewNotFound(resource, id.String())
	case errors.Is(err, rep.ErrVersionConflict):
		logger.Warn("Service: Конфликт версий", zap.String("target_id", id.String()))
		return NewVersionConflict(id.String(), err)
	case errors.Is(err, rep.ErrAlreadyExists):
		return NewBusinessError(CodeAlreadyExists, fmt.Sprintf("%s %s уже существует", resource, id),
			ToDetail("id", id.String()))
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
