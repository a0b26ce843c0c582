package usecase

import (
	"context"
	"errors"

	"jobmate/internal/domain/job"
	"jobmate/internal/domain/matching"
	"jobmate/internal/domain/user"
	"jobmate/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MatchInput struct {
	Skills         []string `json:"skills"`
	TargetRole     string   `json:"target_role"`
	JobTitle       string   `json:"job_title"`
	JobDescription string   `json:"job_description"`
}

type MatchingUsecase struct {
	jobs     job.Reader
	writer   job.RecordWriter
	profiles user.ProfileReader
	logger   *zap.Logger
}

func NewMatchingUsecase(jobs job.Reader, writer job.RecordWriter, profiles user.ProfileReader, log *zap.Logger) *MatchingUsecase {
	return &MatchingUsecase{jobs: jobs, writer: writer, profiles: profiles, logger: logger.OrNop(log)}
}

// Score rates ad-hoc input. It never fails.
func (u *MatchingUsecase) Score(in MatchInput) matching.Result {
	return matching.Score(in.Skills, in.TargetRole, in.JobTitle, in.JobDescription)
}

// MatchStored scores a stored job against a stored profile and persists the
// result.
func (u *MatchingUsecase) MatchStored(ctx context.Context, userID, jobID uuid.UUID) (matching.Result, error) {
	if userID == uuid.Nil || jobID == uuid.Nil {
		return matching.Result{}, ErrInvalidInput
	}
	if u.jobs == nil || u.profiles == nil {
		return matching.Result{}, ErrPersistenceOff
	}

	j, err := u.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return matching.Result{}, ErrJobNotFound
		}
		u.logger.Error("load job failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return matching.Result{}, ErrInternal
	}

	p, err := u.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return matching.Result{}, ErrUserNotFound
		}
		u.logger.Error("load profile failed", zap.String("user_id", userID.String()), zap.Error(err))
		return matching.Result{}, ErrInternal
	}

	res := matching.Score(p.Skills, p.TargetRole, j.Title, j.Description)

	if u.writer != nil {
		err := u.writer.SaveMatch(ctx, job.MatchRecord{
			UserID:        userID,
			JobID:         jobID,
			Score:         res.Score,
			MatchedSkills: res.MatchedSkills,
			MissingSkills: res.MissingSkills,
		})
		if err != nil {
			u.logger.Error("save match failed",
				zap.String("user_id", userID.String()),
				zap.String("job_id", jobID.String()),
				zap.Error(err),
			)
		}
	}
	return res, nil
}
