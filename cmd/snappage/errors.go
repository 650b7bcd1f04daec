package main

import "errors"

// Sentinel errors for command operations
var (
	ErrNoUnits          = errors.New("no compilation units found")
	ErrInvalidQuoteChar = errors.New("quote must be a single character")
)
