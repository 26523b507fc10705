package service

import "candidateTasks/internal/lifecycle"

type Option func(*AssignmentService)

// WithClock подменяет источник текущего времени, например в тестах
func WithClock(clock lifecycle.Clock) Option {
	return func(s *AssignmentService) {
		if clock != nil {
			s.clock = clock
		}
	}
}
