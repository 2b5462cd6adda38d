package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/model"
)

// =========================================================================
// FAKE REPOSITORIES
// =========================================================================
//
// In-memory implementations of the repository interfaces. They store copies
// so a test can't accidentally mutate "database" state through a pointer,
// and each has an error knob to simulate a failing database.

type fakeUserRepo struct {
	users   map[string]*model.User // keyed by ID
	nextID  int
	creates int // successful CreateUser calls

	createErr error
	lookupErr error

	// conflictOnCreate makes CreateUser behave as if another request
	// inserted the same email between the uniqueness check and the insert.
	conflictOnCreate bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.conflictOnCreate {
		return apperror.Conflict("user", user.EmailAddress)
	}
	for _, u := range f.users {
		if u.EmailAddress == user.EmailAddress {
			return apperror.Conflict("user", user.EmailAddress)
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	stored := *user
	f.users[user.ID] = &stored
	f.creates++
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.EmailAddress == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

type fakeCourseRepo struct {
	courses map[string]*model.Course
	order   []string
	nextID  int
	owners  map[string]model.Owner // user ID -> projection

	getErr   error
	writeErr error
	updates  int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses: make(map[string]*model.Course),
		owners:  make(map[string]model.Owner),
	}
}

func (f *fakeCourseRepo) addOwner(u *model.User) {
	f.owners[u.ID] = model.Owner{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

func (f *fakeCourseRepo) CreateCourse(_ context.Context, course *model.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	f.nextID++
	course.ID = fmt.Sprintf("course-%d", f.nextID)
	stored := *course
	f.courses[course.ID] = &stored
	f.order = append(f.order, course.ID)
	return nil
}

func (f *fakeCourseRepo) GetCourse(_ context.Context, id string) (*model.Course, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, apperror.NotFound("course", id)
	}
	result := *c
	return &result, nil
}

func (f *fakeCourseRepo) detail(c *model.Course) model.CourseDetail {
	return model.CourseDetail{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		EstimatedTime:   c.EstimatedTime,
		MaterialsNeeded: c.MaterialsNeeded,
		UserID:          c.UserID,
		Owner:           f.owners[c.UserID],
	}
}

func (f *fakeCourseRepo) GetCourseDetail(_ context.Context, id string) (*model.CourseDetail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, apperror.NotFound("course", id)
	}
	d := f.detail(c)
	return &d, nil
}

func (f *fakeCourseRepo) ListCourseDetails(_ context.Context) ([]model.CourseDetail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	result := make([]model.CourseDetail, 0, len(f.order))
	for _, id := range f.order {
		if c, ok := f.courses[id]; ok {
			d := f.detail(c)
			d.UserID = ""
			result = append(result, d)
		}
	}
	return result, nil
}

func (f *fakeCourseRepo) UpdateCourse(_ context.Context, course *model.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, ok := f.courses[course.ID]; !ok {
		return apperror.NotFound("course", course.ID)
	}
	stored := *course
	f.courses[course.ID] = &stored
	f.updates++
	return nil
}

func (f *fakeCourseRepo) DeleteCourse(_ context.Context, id string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, ok := f.courses[id]; !ok {
		return apperror.NotFound("course", id)
	}
	delete(f.courses, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
