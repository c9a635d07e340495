package handler

import "github.com/RS76448/attendencesystem/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Course    *CourseHandler
	Timetable *TimetableHandler
	Week      *WeekHandler
	Request   *RequestHandler
	Export    *ExportHandler
}

// NewHandler builds the handlers and registers the custom binding tags.
func NewHandler(svc *service.Service) *Handler {
	RegisterValidators()
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		User:      NewUserHandler(svc.User),
		Course:    NewCourseHandler(svc.Course),
		Timetable: NewTimetableHandler(svc.Timetable),
		Week:      NewWeekHandler(svc.Week),
		Request:   NewRequestHandler(svc.Attendance),
		Export:    NewExportHandler(svc.Export),
	}
}
