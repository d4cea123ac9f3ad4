package errors

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// error categories for classification
const (
	CategoryDatabase   Category = "database"
	CategoryNetwork    Category = "network"
	CategoryValidation Category = "validation"
	CategoryAuth       Category = "auth"
	CategoryNotFound   Category = "not_found"
	CategoryTimeout    Category = "timeout"
	CategoryCanceled   Category = "canceled"
	CategoryUnknown    Category = "unknown"
)

// analyzes an error and returns its category and sanitized message
func Classify(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown, ""}
	}

	isProduction := os.Getenv("ENVIRONMENT") == "production"

	// database errors (pgx-specific)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return info(CategoryDatabase, isProduction, "database operation failed", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return info(CategoryNotFound, isProduction, "resource not found", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return info(CategoryTimeout, isProduction, "request timed out", err)
	}

	if errors.Is(err, context.Canceled) {
		return info(CategoryCanceled, isProduction, "request canceled", err)
	}

	// fallback to string matching for unknown error types
	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline"):
		return info(CategoryTimeout, isProduction, "request timed out", err)
	case strings.Contains(errMsg, "not found") || strings.Contains(errMsg, "no rows"):
		return info(CategoryNotFound, isProduction, "resource not found", err)
	case strings.Contains(errMsg, "database") || strings.Contains(errMsg, "sql") ||
		strings.Contains(errMsg, "postgres") || strings.Contains(errMsg, "pgx"):
		return info(CategoryDatabase, isProduction, "database operation failed", err)
	case strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dial"):
		return info(CategoryNetwork, isProduction, "connection error occurred", err)
	case strings.Contains(errMsg, "validation") || strings.Contains(errMsg, "invalid") ||
		strings.Contains(errMsg, "required"):
		return info(CategoryValidation, isProduction, "validation failed", err)
	case strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "forbidden") ||
		strings.Contains(errMsg, "permission"):
		return info(CategoryAuth, isProduction, "permission denied", err)
	}

	return info(CategoryUnknown, isProduction, "an error occurred", err)
}

func info(category Category, isProduction bool, sanitized string, err error) ErrorInfo {
	if isProduction {
		return ErrorInfo{Category: category, Sanitized: sanitized}
	}

	return ErrorInfo{Category: category, Sanitized: err.Error()}
}
