package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInvalidEmailFormat      = errors.New("invalid email format")
	ErrInvalidPasswordLength   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong         = errors.New("password must be at most 72 bytes")
	ErrManagerNotFound         = errors.New("manager not found")
	ErrNotAManager             = errors.New("referenced user is not a manager")
	ErrNotAnAgent              = errors.New("referenced user is not an agent")
	ErrUserInactive            = errors.New("user is inactive")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrSelfManager             = errors.New("a user cannot manage themselves")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrAdminAlreadyExists      = errors.New("an administrator already exists")
)
