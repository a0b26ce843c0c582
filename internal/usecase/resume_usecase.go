package usecase

import (
	"context"
	"errors"

	"jobmate/internal/domain/user"
	"jobmate/internal/logger"
	"jobmate/internal/resume"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultResumeMaxBytes = 5 << 20

type ProfileStore interface {
	user.ProfileReader
	user.ProfileWriter
}

type ResumeResult struct {
	Profile user.ExtractedResumeProfile `json:"profile"`
	// Updated names the profile fields filled from this résumé; empty when
	// nothing was merged.
	Updated []string `json:"updated_fields"`
}

type ResumeUsecase struct {
	profiles ProfileStore
	maxBytes int64
	logger   *zap.Logger
}

func NewResumeUsecase(profiles ProfileStore, maxBytes int64, log *zap.Logger) *ResumeUsecase {
	if maxBytes <= 0 {
		maxBytes = defaultResumeMaxBytes
	}
	return &ResumeUsecase{profiles: profiles, maxBytes: maxBytes, logger: logger.OrNop(log)}
}

func (u *ResumeUsecase) MaxBytes() int64 { return u.maxBytes }

// Parse extracts a profile from an uploaded document. Format errors come back
// as resume.ErrUnsupportedFormat or resume.ErrResumeParse.
func (u *ResumeUsecase) Parse(filename string, data []byte) (user.ExtractedResumeProfile, error) {
	if len(data) == 0 {
		return user.ExtractedResumeProfile{}, ErrInvalidInput
	}
	if int64(len(data)) > u.maxBytes {
		return user.ExtractedResumeProfile{}, ErrResumeTooLarge
	}
	format, err := resume.FormatFromFilename(filename)
	if err != nil {
		return user.ExtractedResumeProfile{}, err
	}
	p, err := resume.Parse(data, format)
	if err != nil {
		u.logger.Info("resume parse failed", zap.String("filename", filename), zap.Error(err))
		return user.ExtractedResumeProfile{}, err
	}
	return p, nil
}

// ParseAndMerge parses the résumé and fills only the empty fields of the
// user's stored profile.
func (u *ResumeUsecase) ParseAndMerge(ctx context.Context, userID uuid.UUID, filename string, data []byte) (ResumeResult, error) {
	if userID == uuid.Nil {
		return ResumeResult{}, ErrInvalidInput
	}
	if u.profiles == nil {
		return ResumeResult{}, ErrPersistenceOff
	}

	ext, err := u.Parse(filename, data)
	if err != nil {
		return ResumeResult{}, err
	}

	p, err := u.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ResumeResult{}, ErrUserNotFound
		}
		u.logger.Error("load profile failed", zap.String("user_id", userID.String()), zap.Error(err))
		return ResumeResult{}, ErrInternal
	}

	updated := user.MergeIfEmpty(&p, ext)
	if len(updated) > 0 {
		if err := u.profiles.UpdateProfile(ctx, p); err != nil {
			u.logger.Error("update profile failed", zap.String("user_id", userID.String()), zap.Error(err))
			return ResumeResult{}, ErrInternal
		}
	}
	return ResumeResult{Profile: ext, Updated: updated}, nil
}
