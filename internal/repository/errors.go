package repository

import "errors"

var ErrNotFound = errors.New("не найдено")
var ErrVersionConflict = errors.New("конфликт версий")
var ErrAlreadyExists = errors.New("уже существует")
