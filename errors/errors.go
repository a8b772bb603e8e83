package errors

import "fmt"

var (
	ErrUnauthenticated   = fmt.Errorf("unauthenticated")
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrUserAlreadyExists = fmt.Errorf("user already exists")
	ErrPersistence       = fmt.Errorf("persistence failure")
	ErrTokenGeneration   = fmt.Errorf("token generation failure")
	ErrInvalidLogin      = fmt.Errorf("invalid login request")
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrEmptyDictionary   = fmt.Errorf("no censored words have been found")
)
