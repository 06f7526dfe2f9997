package polyglot

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for documents no processor can handle.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrFileTooLarge is returned for documents above the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
	// ErrCancelled marks work abandoned because of shutdown.
	ErrCancelled = errors.New("cancelled before completion")
)

// TranslationError reports a translation that failed after every attempt.
type TranslationError struct {
	Message  string
	Attempts int
	Cause    error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s after %d attempts: %v", e.Message, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("%s after %d attempts", e.Message, e.Attempts)
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// BackendError indicates a translation backend failure (auth, quota, network, etc.).
// Every backend error is treated as retryable by the orchestrator.
type BackendError struct {
	Service string
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend error (%s): %s: %v", e.Service, e.Message, e.Cause)
	}
	return fmt.Sprintf("backend error (%s): %s", e.Service, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a content processing failure (parse error, etc.).
type ProcessorError struct {
	Message string
	Cause   error
	Format  Format // The format that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.Format, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// Document processing stages reported in DocumentError.
const (
	StageRead    = "read"
	StageExtract = "extract"
	StageRebuild = "rebuild"
	StageWrite   = "write"
)

// DocumentError reports a failure while processing one document.
type DocumentError struct {
	Path  string
	Stage string
	Cause error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}
