package domain

import (
	"errors"
	"io/fs"
)

// Error categories. Every error leaving the pipeline wraps exactly one of these.
var (
	ErrUsage         = errors.New("usage error")
	ErrFormatParse   = errors.New("format parse error")
	ErrLoad          = errors.New("load error")
	ErrSerialization = errors.New("serialization error")
	ErrIO            = errors.New("io error")
)

// Canonical status codes used as process exit statuses.
const (
	CodeOK               = 0
	CodeUsage            = 2
	CodeInvalidArgument  = 3
	CodeNotFound         = 5
	CodePermissionDenied = 7
	CodeInternal         = 13
)

// ExitCode maps an error to the process exit status for its category.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrUsage):
		return CodeUsage
	case errors.Is(err, ErrFormatParse):
		return CodeInvalidArgument
	case errors.Is(err, ErrLoad):
		return fsCode(err, CodeInvalidArgument)
	case errors.Is(err, ErrIO):
		return fsCode(err, CodeInternal)
	default:
		return CodeInternal
	}
}

func fsCode(err error, fallback int) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return CodeNotFound
	case errors.Is(err, fs.ErrPermission):
		return CodePermissionDenied
	default:
		return fallback
	}
}
