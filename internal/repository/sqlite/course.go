package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/model"
	"github.com/sakif/coursehub/internal/repository"
)

var _ repository.CourseRepository = (*DB)(nil)

const courseColumns = `id, title, description, estimated_time, materials_needed, user_id, created_at, updated_at`

// ownerColumns are aliased with an "owner." prefix so sqlx scans them into
// CourseDetail.Owner.
const ownerColumns = `u.id AS "owner.id", u.first_name AS "owner.first_name", u.last_name AS "owner.last_name"`

// CreateCourse validates and inserts a course. Validation failures come back
// as an apperror validation error listing every problem; nothing is written.
func (db *DB) CreateCourse(ctx context.Context, course *model.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}

	now := time.Now()
	course.ID = xid.New().String()
	course.CreatedAt = now
	course.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO courses (`+courseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		course.ID,
		course.Title,
		course.Description,
		course.EstimatedTime,
		course.MaterialsNeeded,
		course.UserID,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting course: %w", err)
	}

	return nil
}

// GetCourse returns the raw record, used for ownership checks.
func (db *DB) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	var c model.Course
	err := db.conn.GetContext(ctx, &c,
		`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("course", id)
		}
		return nil, fmt.Errorf("sqlite: getting course %s: %w", id, err)
	}
	return &c, nil
}

// GetCourseDetail returns the public projection of one course, including
// userId and the owner's name.
func (db *DB) GetCourseDetail(ctx context.Context, id string) (*model.CourseDetail, error) {
	var d model.CourseDetail
	err := db.conn.GetContext(ctx, &d,
		`SELECT c.id, c.title, c.description, c.estimated_time, c.materials_needed, c.user_id,
		        `+ownerColumns+`
		 FROM courses c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.id = ?`,
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("course", id)
		}
		return nil, fmt.Errorf("sqlite: getting course detail %s: %w", id, err)
	}
	return &d, nil
}

// ListCourseDetails returns every course in insertion order. user_id is not
// selected, so it is omitted from the JSON.
func (db *DB) ListCourseDetails(ctx context.Context) ([]model.CourseDetail, error) {
	courses := []model.CourseDetail{}
	err := db.conn.SelectContext(ctx, &courses,
		`SELECT c.id, c.title, c.description, c.estimated_time, c.materials_needed,
		        `+ownerColumns+`
		 FROM courses c
		 JOIN users u ON u.id = c.user_id
		 ORDER BY c.rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse overwrites every mutable column, including the owner.
func (db *DB) UpdateCourse(ctx context.Context, course *model.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}

	course.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE courses
		 SET title = ?, description = ?, estimated_time = ?, materials_needed = ?, user_id = ?, updated_at = ?
		 WHERE id = ?`,
		course.Title,
		course.Description,
		course.EstimatedTime,
		course.MaterialsNeeded,
		course.UserID,
		course.UpdatedAt,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating course %s: %w", course.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("course", course.ID)
	}

	return nil
}

func (db *DB) DeleteCourse(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting course %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("course", id)
	}

	return nil
}
