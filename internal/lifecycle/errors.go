package lifecycle

import (
	"candidateTasks/internal/models/task"
	"errors"
	"fmt"
)

var ErrNilAssignment = errors.New("назначение отсутствует")
var ErrMissingTask = errors.New("у назначения нет задачи")

// ContractViolation - ошибка вызывающего кода, а не пользователя.
// Классификатор паникует с ней, чтобы не угадывать состояние.
type ContractViolation struct {
	Index int
	Err   error
}

func (c *ContractViolation) Error() string {
	if c.Index >= 0 {
		return fmt.Sprintf("нарушение контракта классификатора [%d]: %s", c.Index, c.Err.Error())
	}
	return fmt.Sprintf("нарушение контракта классификатора: %s", c.Err.Error())
}

func (c *ContractViolation) Unwrap() error {
	return c.Err
}

// Validate проверяет набор до классификации и возвращает ошибку вместо паники
func Validate(assignments []*task.Assignment) error {
	for i, a := range assignments {
		if err := check(a); err != nil {
			return &ContractViolation{Index: i, Err: err}
		}
	}
	return nil
}

func check(a *task.Assignment) error {
	if a == nil {
		return ErrNilAssignment
	}
	if a.Task == nil {
		return fmt.Errorf("%w: %s", ErrMissingTask, a.UUID.String())
	}
	return nil
}

func mustHaveTask(a *task.Assignment) {
	if err := check(a); err != nil {
		panic(&ContractViolation{Index: -1, Err: err})
	}
}
