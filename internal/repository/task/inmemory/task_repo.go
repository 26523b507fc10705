package inmemory

import (
	"candidateTasks/internal/logger"
	"candidateTasks/internal/models/task"
	repo "candidateTasks/internal/repository"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Storage хранит задачи, состав списков и назначения в памяти.
// Наружу отдаются копии, чтобы вызывающий код не менял хранилище в обход Update.
type Storage struct {
	tasks       map[uuid.UUID]*task.Task
	assignments map[uuid.UUID]*task.Assignment
	ids         []uuid.UUID
	lists       map[uuid.UUID][]uuid.UUID
	mtx         *sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		tasks:       make(map[uuid.UUID]*task.Task),
		assignments: make(map[uuid.UUID]*task.Assignment),
		ids:         []uuid.UUID{},
		lists:       make(map[uuid.UUID][]uuid.UUID),
		mtx:         &sync.RWMutex{},
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[taskToCreate.UUID]; ok {
		return repo.ErrAlreadyExists
	}
	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now()
	}

	stored := *taskToCreate
	s.tasks[taskToCreate.UUID] = &stored
	return nil
}

func (s *Storage) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	res := *t
	return &res, nil
}

// задачи упорядочены по имени
func (s *Storage) ListTasks(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		cp := *t
		res = append(res, &cp)
	}
	slices.SortFunc(res, func(a, b *task.Task) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return res, nil
}

func (s *Storage) AddListMembers(ctx context.Context, listID uuid.UUID, candidateIDs ...uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	members := s.lists[listID]
	for _, id := range candidateIDs {
		if !slices.Contains(members, id) {
			members = append(members, id)
		}
	}
	s.lists[listID] = members
	return nil
}

func (s *Storage) ListMembers(ctx context.Context, listID uuid.UUID) ([]uuid.UUID, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	members, ok := s.lists[listID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return slices.Clone(members), nil
}

func (s *Storage) CreateAssignment(ctx context.Context, a *task.Assignment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.assignments[a.UUID]; ok {
		return repo.ErrAlreadyExists
	}
	if a.Task == nil {
		return repo.ErrNotFound
	}
	if _, ok := s.tasks[a.Task.UUID]; !ok {
		return repo.ErrNotFound
	}
	if a.ActivatedAt.IsZero() {
		a.ActivatedAt = time.Now()
	}
	if a.Status == "" {
		a.Status = task.StatusActive
	}
	a.Version = 1

	s.assignments[a.UUID] = s.copyAssignment(a)
	s.ids = append(s.ids, a.UUID)
	return nil
}

// Update с оптимистичной блокировкой по версии
func (s *Storage) UpdateAssignment(ctx context.Context, a *task.Assignment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.assignments[a.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	if existing.Version != a.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	a.UpdatedAt = &now
	a.Version++
	s.assignments[a.UUID] = s.copyAssignment(a)
	return nil
}

func (s *Storage) GetAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	a, ok := s.assignments[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return s.copyAssignment(a), nil
}

func (s *Storage) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*task.Assignment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.filter(func(a *task.Assignment) bool {
		return a.CandidateID == candidateID
	}), nil
}

// назначения задачи кандидатам, которые сейчас состоят в списке
func (s *Storage) ListByTaskAndList(ctx context.Context, taskID, listID uuid.UUID) ([]*task.Assignment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	members := s.lists[listID]
	return s.filter(func(a *task.Assignment) bool {
		return a.Task.UUID == taskID && slices.Contains(members, a.CandidateID)
	}), nil
}

// активные, незавершённые и не брошенные назначения со сроком раньше deadline
func (s *Storage) ListOutstandingDueBefore(ctx context.Context, deadline time.Time, limit int) ([]*task.Assignment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Assignment{}
	for _, id := range s.ids {
		if len(res) >= limit {
			break
		}
		a := s.assignments[id]
		if a.Status == task.StatusActive && a.IsOutstanding() && a.DueDate.Before(deadline) {
			res = append(res, s.copyAssignment(a))
		}
	}
	return res, nil
}

func (s *Storage) filter(match func(*task.Assignment) bool) []*task.Assignment {
	res := []*task.Assignment{}
	for _, id := range s.ids {
		a := s.assignments[id]
		if match(a) {
			res = append(res, s.copyAssignment(a))
		}
	}
	return res
}

// копия назначения с актуальной версией задачи
func (s *Storage) copyAssignment(a *task.Assignment) *task.Assignment {
	cp := *a
	if a.Task != nil {
		if t, ok := s.tasks[a.Task.UUID]; ok {
			tc := *t
			cp.Task = &tc
		}
	}
	return &cp
}
