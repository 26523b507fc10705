package inmemory

import (
	"candidateTasks/internal/logger"
	"candidateTasks/internal/models/task"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Tasks       []task.Task      `yaml:"tasks"`
	Lists       []seedList       `yaml:"lists"`
	Assignments []seedAssignment `yaml:"assignments"`
}

type seedList struct {
	ID      uuid.UUID   `yaml:"id"`
	Members []uuid.UUID `yaml:"members"`
}

type seedAssignment struct {
	task.Assignment `yaml:",inline"`
	TaskID          uuid.UUID `yaml:"task_id"`
}

// LoadSeedFile заполняет хранилище данными из yaml-файла
func (s *Storage) LoadSeedFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	return s.LoadSeed(ctx, file)
}

func (s *Storage) LoadSeed(ctx context.Context, r io.Reader) error {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("ошибка парсинга сида: %w", err)
	}

	for i := range seed.Tasks {
		if err := s.CreateTask(ctx, &seed.Tasks[i]); err != nil {
			return fmt.Errorf("задача %s: %w", seed.Tasks[i].UUID, err)
		}
	}
	for _, l := range seed.Lists {
		if err := s.AddListMembers(ctx, l.ID, l.Members...); err != nil {
			return fmt.Errorf("список %s: %w", l.ID, err)
		}
	}
	for i := range seed.Assignments {
		sa := &seed.Assignments[i]
		a := sa.Assignment
		a.Task = &task.Task{UUID: sa.TaskID}
		if err := s.CreateAssignment(ctx, &a); err != nil {
			return fmt.Errorf("назначение %s: %w", a.UUID, err)
		}
	}

	logger.Info("Repository: Сид загружен",
		zap.Int("tasks", len(seed.Tasks)),
		zap.Int("lists", len(seed.Lists)),
		zap.Int("assignments", len(seed.Assignments)),
	)
	return nil
}
