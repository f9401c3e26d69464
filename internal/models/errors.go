package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound      = errors.New("resource not found") // General not found
	ErrWorldNotFound = errors.New("world not found")
	ErrArcNotFound   = errors.New("world arc not found")

	// Progression Engine Errors
	ErrBeatIndexConflict  = errors.New("beat already exists at this index") // Кто-то уже сгенерировал этот слот
	ErrArcAlreadyComplete = errors.New("world arc is already completed")
	ErrNoAnchorPoint      = errors.New("no next anchor point found") // Структурная порча арки, в норме невозможна

	// Generation Errors
	ErrInvalidGenerationResult = errors.New("generation result does not match required shape")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)
