// Package repository declares the storage contracts the service layer
// depends on. Implementations live in sub-packages (see repository/sqlite).
//
// Errors returned by implementations are tagged with apperror kinds:
// missing rows are apperror.NotFound, unique violations apperror.Conflict,
// record validation apperror.Invalid. Anything else is an internal failure.
package repository

import (
	"context"

	"github.com/sakif/coursehub/internal/model"
)

type UserRepository interface {
	// CreateUser fills in ID and timestamps. The password must already be hashed.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByEmail matches the address exactly as stored.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type CourseRepository interface {
	CreateCourse(ctx context.Context, course *model.Course) error
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	GetCourseDetail(ctx context.Context, id string) (*model.CourseDetail, error)
	ListCourseDetails(ctx context.Context) ([]model.CourseDetail, error)
	UpdateCourse(ctx context.Context, course *model.Course) error
	DeleteCourse(ctx context.Context, id string) error
}
