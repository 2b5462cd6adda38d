package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/model"
	"github.com/sakif/coursehub/internal/repository"
)

const (
	MsgCourseNotFound     = "Course was not found."
	MsgOperationForbidden = "Operation forbidden"
)

// CourseInput carries the client-editable course fields. There is no owner
// field on purpose: the owner is always the authenticated caller.
type CourseInput struct {
	Title           string
	Description     string
	EstimatedTime   *string
	MaterialsNeeded *string
}

// CourseService enforces course ownership.
//
// ACCESS MODEL:
//
//	anonymous ──(Authenticator)──> authenticated ──(owner check)──> owner | forbidden
//
// Reads are public. Create needs an authenticated caller. Update and Delete
// additionally need the caller to be the course's owner.
type CourseService struct {
	repo   repository.CourseRepository
	logger *slog.Logger
}

func NewCourseService(repo repository.CourseRepository, logger *slog.Logger) *CourseService {
	return &CourseService{
		repo:   repo,
		logger: logger,
	}
}

// List returns every course with its owner's name.
func (s *CourseService) List(ctx context.Context) ([]model.CourseDetail, error) {
	courses, err := s.repo.ListCourseDetails(ctx)
	if err != nil {
		s.logger.Error("failed to list courses", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

// Get returns one course with its owner's name.
func (s *CourseService) Get(ctx context.Context, id string) (*model.CourseDetail, error) {
	course, err := s.repo.GetCourseDetail(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id)
	}
	return course, nil
}

// Create stores a new course owned by owner. Whatever owner the client may
// have sent is never consulted, so nobody can create a course on someone
// else's behalf.
func (s *CourseService) Create(ctx context.Context, owner *model.User, in CourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:           in.Title,
		Description:     in.Description,
		EstimatedTime:   in.EstimatedTime,
		MaterialsNeeded: in.MaterialsNeeded,
		UserID:          owner.ID,
	}

	if err := s.repo.CreateCourse(ctx, course); err != nil {
		// The store's record validation is reported to the client as is.
		if apperror.KindOf(err) == apperror.KindValidation {
			return nil, err
		}
		s.logger.Error("failed to create course",
			slog.String("userID", owner.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating course: %w", err)
	}

	s.logger.Info("course created",
		slog.String("id", course.ID),
		slog.String("userID", owner.ID),
	)
	return course, nil
}

// Update overwrites a course's fields.
//
// CHECK ORDER:
//  1. the course exists           → 404
//  2. the caller owns it          → 403, even if the submitted fields are invalid
//  3. title and description given → 400 listing every missing field
//
// The owner is written back as the caller. After step 2 that is a no-op, it
// is kept so that an update can never move a course to another user.
func (s *CourseService) Update(ctx context.Context, owner *model.User, id string, in CourseInput) (*model.Course, error) {
	course, err := s.ownedCourse(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	var v apperror.Violations
	v.Check(strings.TrimSpace(in.Title) != "", model.MsgTitleRequired)
	v.Check(strings.TrimSpace(in.Description) != "", model.MsgDescriptionRequired)
	if err := v.Err(); err != nil {
		return nil, err
	}

	course.Title = in.Title
	course.Description = in.Description
	course.EstimatedTime = in.EstimatedTime
	course.MaterialsNeeded = in.MaterialsNeeded
	course.UserID = owner.ID

	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		if k := apperror.KindOf(err); k == apperror.KindValidation || k == apperror.KindNotFound {
			return nil, s.lookupError(err, id)
		}
		s.logger.Error("failed to update course",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating course: %w", err)
	}

	s.logger.Info("course updated", slog.String("id", id), slog.String("userID", owner.ID))
	return course, nil
}

// Delete removes a course. Same 404-then-403 order as Update.
func (s *CourseService) Delete(ctx context.Context, owner *model.User, id string) error {
	if _, err := s.ownedCourse(ctx, owner, id); err != nil {
		return err
	}

	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Deleted by a concurrent request between the check and now.
			return s.lookupError(err, id)
		}
		s.logger.Error("failed to delete course",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting course: %w", err)
	}

	s.logger.Info("course deleted", slog.String("id", id), slog.String("userID", owner.ID))
	return nil
}

// CheckOwner fails exactly as Update and Delete would before touching the
// fields: 404 for a missing course, 403 for someone else's.
func (s *CourseService) CheckOwner(ctx context.Context, owner *model.User, id string) error {
	_, err := s.ownedCourse(ctx, owner, id)
	return err
}

// ownedCourse loads the course and checks that owner may modify it.
func (s *CourseService) ownedCourse(ctx context.Context, owner *model.User, id string) (*model.Course, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id)
	}

	if course.UserID != owner.ID {
		s.logger.Warn("course modification forbidden",
			slog.String("id", id),
			slog.String("ownerID", course.UserID),
			slog.String("userID", owner.ID),
		)
		return nil, apperror.Forbidden(MsgOperationForbidden)
	}

	return course, nil
}

// lookupError turns a repository not-found into the client-facing message,
// passes other tagged errors through, and wraps the rest.
func (s *CourseService) lookupError(err error, id string) error {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return &apperror.AppError{
			Kind:    apperror.KindNotFound,
			Err:     apperror.ErrNotFound,
			Message: MsgCourseNotFound,
		}
	case apperror.KindInternal:
		s.logger.Error("failed to load course",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("loading course %s: %w", id, err)
	default:
		return err
	}
}
