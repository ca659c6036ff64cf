package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCourseNotFound     = errors.New("course not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrContentNotFound    = errors.New("content item not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrNotAQuiz         = errors.New("content item is not a quiz")
	ErrEmptyQuiz        = errors.New("quiz has no questions")
	ErrQuizNotMarkable  = errors.New("quiz content is completed by submitting it, not by marking")
	ErrMalformedOptions = errors.New("malformed question options")

	ErrUnsupportedFileType = errors.New("unsupported file type")
)
