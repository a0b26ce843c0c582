package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrJobNotFound  = errors.New("job not found")
	ErrUserNotFound = errors.New("user not found")
	// ErrScrapeInProgress means another request already holds the scrape lock
	// for the same posting.
	ErrScrapeInProgress = errors.New("scrape already in progress")
	ErrResumeTooLarge   = errors.New("resume exceeds size limit")
	ErrPersistenceOff   = errors.New("persistence not configured")
)
