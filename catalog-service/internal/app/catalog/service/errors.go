package service

import (
	"errors"
	"fmt"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrImportInProgress = errors.New("catalog import already in progress")
	ErrRunNotFound      = errors.New("import run not found")
	ErrInvalidManifest  = errors.New("invalid manifest")
)

// StoreLookupError - сбой проверки существования строки
// Считать строку отсутствующей небезопасно, поэтому сущность и ее потомки пропускаются
type StoreLookupError struct {
	Entity string
	Name   string
	Err    error
}

func (e *StoreLookupError) Error() string {
	return fmt.Sprintf("lookup %s %q: %v", e.Entity, e.Name, e.Err)
}

func (e *StoreLookupError) Unwrap() error {
	return e.Err
}

// StoreInsertError - сбой вставки строки, соседние сущности продолжают обрабатываться
type StoreInsertError struct {
	Entity string
	Name   string
	Err    error
}

func (e *StoreInsertError) Error() string {
	return fmt.Sprintf("insert %s %q: %v", e.Entity, e.Name, e.Err)
}

func (e *StoreInsertError) Unwrap() error {
	return e.Err
}
