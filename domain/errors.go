package domain

import "errors"

var (
	ErrTableFull      = errors.New("table is full")
	ErrAlreadySeated  = errors.New("seat id already at table")
	ErrNoSeats        = errors.New("need at least 1 player to start a round")
	ErrTableNotFound  = errors.New("table not found")
	ErrTableExists    = errors.New("table already in lobby")
	ErrInvalidRules   = errors.New("invalid table rules")
	ErrEmptyTableName = errors.New("table name is required")
)
