// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrInvalidReference = errors.New("referenced row does not exist")
	ErrHasDependents    = errors.New("row has dependent rows")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrTokenInvalid     = errors.New("token invalid")
)

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidReference = "INVALID_REFERENCE"
	CodeNotFound         = "NOT_FOUND"
	CodeDuplicate        = "DUPLICATE"
	CodeHasDependents    = "HAS_DEPENDENTS"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeTokenExpired     = "TOKEN_EXPIRED"
	CodeTokenRevoked     = "TOKEN_REVOKED"
	CodeTokenInvalid     = "TOKEN_INVALID"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is an error that already knows how it is rendered over HTTP.
type AppError struct {
	Code       string
	Message    string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: status,
		Err:        err,
	}
}

func ValidationError(message string) *AppError {
	return NewAppError(CodeValidation, message, http.StatusBadRequest, ErrInvalidInput)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(CodeNotFound, resource+" not found", http.StatusNotFound, ErrNotFound)
}

func DuplicateError(field string) *AppError {
	return NewAppError(CodeDuplicate, field+" already exists", http.StatusConflict, ErrDuplicateKey)
}

func InvalidReferenceError(resource string) *AppError {
	return NewAppError(
		CodeInvalidReference,
		resource+" references a row that does not exist",
		http.StatusUnprocessableEntity,
		ErrInvalidReference,
	)
}

func HasDependentsError(resource string) *AppError {
	return NewAppError(
		CodeHasDependents,
		resource+" still has dependent records",
		http.StatusConflict,
		ErrHasDependents,
	)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(CodeUnauthorized, message, http.StatusUnauthorized, ErrUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(CodeForbidden, message, http.StatusForbidden, ErrForbidden)
}

func TokenExpiredError() *AppError {
	return NewAppError(CodeTokenExpired, "token has expired", http.StatusUnauthorized, ErrTokenExpired)
}

func TokenRevokedError() *AppError {
	return NewAppError(CodeTokenRevoked, "token has been revoked", http.StatusUnauthorized, ErrTokenRevoked)
}

func TokenInvalidError() *AppError {
	return NewAppError(CodeTokenInvalid, "token is invalid", http.StatusUnauthorized, ErrTokenInvalid)
}

func InternalError(err error) *AppError {
	return NewAppError(CodeInternal, "internal server error", http.StatusInternalServerError, err)
}

// ToAppError maps the sentinel errors returned by services and repositories
// onto their HTTP rendering. resource names the entity in messages.
func ToAppError(err error, resource string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError(resource)
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateError(resource)
	case errors.Is(err, ErrInvalidReference):
		return InvalidReferenceError(resource)
	case errors.Is(err, ErrHasDependents):
		return HasDependentsError(resource)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(CodeValidation, err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("insufficient permissions")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("authentication required")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenRevoked):
		return TokenRevokedError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	default:
		return InternalError(err)
	}
}

// Postgres SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsDuplicateKeyError(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func IsForeignKeyError(err error) bool {
	return pgCode(err) == pgForeignKeyViolation
}

func IsConstraintError(err error) bool {
	code := pgCode(err)
	return code == pgCheckViolation || code == pgNotNullViolation
}

// TranslateWriteError converts constraint violations from an INSERT or
// UPDATE into sentinel errors. A foreign key failure on a write means the
// referenced parent is missing.
func TranslateWriteError(op string, err error) error {
	switch {
	case IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	case IsForeignKeyError(err):
		return fmt.Errorf("%s: %w", op, ErrInvalidReference)
	case IsConstraintError(err):
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// TranslateDeleteError converts a foreign key failure on DELETE into
// ErrHasDependents; the schema restricts deletes of referenced parents.
func TranslateDeleteError(op string, err error) error {
	if IsForeignKeyError(err) {
		return fmt.Errorf("%s: %w", op, ErrHasDependents)
	}
	return fmt.Errorf("%s: %w", op, err)
}
