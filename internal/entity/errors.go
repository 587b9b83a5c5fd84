package entity

import "errors"

// Domain errors for terms, texts and review sessions.
var (
	ErrTermNotFound      = errors.New("term not found")
	ErrTextNotFound      = errors.New("text not found")
	ErrLanguageNotFound  = errors.New("language not found")
	ErrInvalidTermID     = errors.New("invalid term ID")
	ErrInvalidTextID     = errors.New("invalid text ID")
	ErrInvalidLanguageID = errors.New("invalid language ID")
	ErrInvalidStatus     = errors.New("invalid term status")
	ErrNoStatusUpdate    = errors.New("either status or change is required")
	ErrInvalidSelection  = errors.New("invalid review selection")
	ErrInvalidListQuery  = errors.New("invalid list query")
	ErrInvalidWordMode   = errors.New("invalid word mode")
	ErrInvalidWordRegex  = errors.New("invalid word pattern")
)
