package history

import "codeberg.org/mutker/overlayd/internal/errors"

// History-specific error codes
const (
	ErrInvalidDBPath          errors.ErrorCode = "invalid_db_path"
	ErrStorageInit            errors.ErrorCode = "storage_init_failed"
	ErrStorageClose           errors.ErrorCode = "storage_close_failed"
	ErrTransactionFailed      errors.ErrorCode = "transaction_failed"
	ErrSchemaInitFailed       errors.ErrorCode = "schema_init_failed"
	ErrSchemaValidationFailed errors.ErrorCode = "schema_validation_failed"
)
