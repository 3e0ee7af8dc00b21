package records

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-campus-auth"
)

// StudentFinder looks a student up by id
type StudentFinder interface {
	FindByID(ctx context.Context, id string) (*auth.Student, error)
}

// ScheduleReader returns the schedule of a student
type ScheduleReader interface {
	ScheduleByStudent(ctx context.Context, studentID string) ([]ScheduleEntry, error)
}

// DocumentExporter builds the database export document
type DocumentExporter interface {
	Export(ctx context.Context) (*ExportDocument, error)
}

type Controller struct {
	Students StudentFinder
	Schedule ScheduleReader
	Exporter DocumentExporter
	Logger   auth.Logger
}

// RegisterRoutes mounts the records endpoints. protected guards the
// schedule and export routes, the student lookup stays public.
func RegisterRoutes[T any](r router.Router[T], ctrl *Controller, protected router.MiddlewareFunc) {
	if ctrl.Logger == nil {
		ctrl.Logger = auth.ResolveLogger("records.controller", nil, nil)
	}

	r.Get("/student/:id", ctrl.StudentShow).SetName("student.get")
	r.Get("/schedule", ctrl.ScheduleIndex, protected).SetName("schedule.get")
	r.Get("/export", ctrl.ExportShow, protected).SetName("export.get")
}

// StudentShow answers the public profile of a student
func (ctrl *Controller) StudentShow(c router.Context) error {
	student, err := ctrl.Students.FindByID(c.Context(), c.Param("id", ""))
	if err != nil {
		if auth.ErrorIs(err, auth.ErrRecordNotFound) {
			return auth.WriteError(c, auth.WithMessage(auth.ErrRecordNotFound, "student not found"), ctrl.Logger)
		}
		return auth.WriteError(c, err, ctrl.Logger)
	}

	return c.JSON(http.StatusOK, StudentProfile{
		ID:        student.ID.String(),
		Name:      student.Name,
		Email:     student.Email,
		CreatedAt: student.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ScheduleIndex answers the schedule of the authenticated student
func (ctrl *Controller) ScheduleIndex(c router.Context) error {
	studentID, ok := auth.SubjectFromRequest(c)
	if !ok {
		return auth.WriteError(c, auth.ErrUnauthenticated, ctrl.Logger)
	}

	entries, err := ctrl.Schedule.ScheduleByStudent(c.Context(), studentID)
	if err != nil {
		return auth.WriteError(c, err, ctrl.Logger)
	}

	if len(entries) == 0 {
		return auth.WriteError(c, auth.WithMessage(auth.ErrRecordNotFound, "no schedule found"), ctrl.Logger)
	}

	return c.JSON(http.StatusOK, entries)
}

// ExportShow answers the full database export
func (ctrl *Controller) ExportShow(c router.Context) error {
	doc, err := ctrl.Exporter.Export(c.Context())
	if err != nil {
		return auth.WriteError(c, err, ctrl.Logger)
	}
	return c.JSON(http.StatusOK, doc)
}
