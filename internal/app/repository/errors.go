package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInUse    = errors.New("in use")

	ErrPackNotFound     = fmt.Errorf("pack %w", ErrNotFound)
	ErrVariableNotFound = fmt.Errorf("service variable %w", ErrNotFound)
	ErrPackInUse        = fmt.Errorf("pack %w by servers", ErrInUse)
)
