package errors

import "errors"

var (
	ErrMissingBotToken   = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	ErrMissingSuperAdmin = errors.New("SUPER_ADMIN_ID environment variable is required")

	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrAlreadyAdmin       = errors.New("user is already an admin")
	ErrNotAnAdmin         = errors.New("user is not an admin")
	ErrInvalidPattern     = errors.New("invalid keyword pattern")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
