package worker

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/logger"
	"candidateTasks/internal/models/task"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutstandingSource отдаёт активные незакрытые назначения со сроком раньше deadline
type OutstandingSource interface {
	ListOutstandingDueBefore(ctx context.Context, deadline time.Time, limit int) ([]*task.Assignment, error)
}

// Snapshot - результат последней проверки
type Snapshot struct {
	CheckedAt   time.Time             `json:"checked_at"`
	Checked     int                   `json:"checked"`
	Overdue     int                   `json:"overdue"`
	ByCandidate map[uuid.UUID][]Entry `json:"by_candidate"`
}

type Entry struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	TaskName     string    `json:"task_name"`
	DueDate      time.Time `json:"due_date"`
}

type OverdueWorker struct {
	repo      OutstandingSource
	interval  time.Duration
	batchSize int
	clock     lifecycle.Clock

	mtx      sync.RWMutex
	snapshot Snapshot
}

func NewOverdueWorker(repo OutstandingSource, interval *time.Duration, batchSize *int, clock lifecycle.Clock) *OverdueWorker {
	intervalToSet := 5 * time.Minute
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	batchToSet := 100
	if batchSize != nil && *batchSize > 0 {
		batchToSet = *batchSize
	}

	if clock == nil {
		clock = lifecycle.SystemClock
	}

	return &OverdueWorker{
		repo:      repo,
		interval:  intervalToSet,
		batchSize: batchToSet,
		clock:     clock,
		snapshot:  Snapshot{ByCandidate: map[uuid.UUID][]Entry{}},
	}
}

// Start проверяет сразу и затем по тикеру, пока не отменён ctx
func (w *OverdueWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx)
	for {
		select {
		case <-ticker.C:
			logger.Debug("Worker: Фоновая проверка назначений на просроченность", zap.Time("started_at", time.Now()))
			w.check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return nil
		}
	}
}

func (w *OverdueWorker) check(ctx context.Context) {
	if _, err := w.Check(ctx); err != nil {
		logger.Warn("Worker: Ошибка проверки", zap.Error(err))
	}
}

// Check классифицирует незакрытые назначения и сохраняет снимок просроченных.
// Необязательные задачи просроченными не считаются.
func (w *OverdueWorker) Check(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	now := w.clock()

	assignments, err := w.repo.ListOutstandingDueBefore(ctx, now, w.batchSize)
	if err != nil {
		return Snapshot{}, fmt.Errorf("получение незакрытых назначений: %w", err)
	}
	if err := lifecycle.Validate(assignments); err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		CheckedAt:   now,
		Checked:     len(assignments),
		ByCandidate: map[uuid.UUID][]Entry{},
	}
	for _, a := range lifecycle.Sorted(assignments) {
		if !lifecycle.IsOverdue(a, now) {
			continue
		}
		snapshot.Overdue++
		snapshot.ByCandidate[a.CandidateID] = append(snapshot.ByCandidate[a.CandidateID], Entry{
			AssignmentID: a.UUID,
			TaskName:     a.TaskName(),
			DueDate:      a.DueDate,
		})
	}

	w.mtx.Lock()
	w.snapshot = snapshot
	w.mtx.Unlock()

	if len(assignments) == w.batchSize {
		logger.Warn("Worker: Выборка упёрлась в размер пачки", zap.Int("batch_size", w.batchSize))
	}
	logger.Info("Worker: Завершение проверки назначений",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", snapshot.Checked),
		zap.Int("overdue", snapshot.Overdue),
		zap.Int("candidates", len(snapshot.ByCandidate)),
	)
	return snapshot, nil
}

// Snapshot возвращает копию последнего снимка
func (w *OverdueWorker) Snapshot() Snapshot {
	w.mtx.RLock()
	defer w.mtx.RUnlock()

	cp := w.snapshot
	cp.ByCandidate = make(map[uuid.UUID][]Entry, len(w.snapshot.ByCandidate))
	for id, entries := range w.snapshot.ByCandidate {
		cp.ByCandidate[id] = append([]Entry(nil), entries...)
	}
	return cp
}
