package menu

import (
	"context"
	"fmt"

	"github.com/abhisek/learnlink/internal/store"
)

// Instructor returns the menu of an instructor.
func Instructor(d Deps, user store.User) []Action {
	taught := func(ctx context.Context) (*Table, error) {
		courses, err := d.Catalog.CoursesTaught(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		t := courseTable("Cursos que impartes", courses)
		return &t, nil
	}

	return []Action{
		{
			ID:    "my_courses",
			Label: "Ver cursos que imparto",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				t, err := taught(ctx)
				if err != nil {
					return nil, err
				}
				return tableResult("Cursos que imparto", *t, "No estás impartiendo ningún curso."), nil
			},
		},
		addLessonAction(d, user, taught),
		{
			ID:     "my_course_grades",
			Label:  "Ver calificaciones de mis alumnos por curso",
			Fields: []Field{courseField},
			Hint:   taught,
			Run: func(ctx context.Context, in Input) (*Result, error) {
				rows, err := d.Activity.InstructorCourseGrades(ctx, user, in.Get(keyCourse))
				if err != nil {
					return nil, err
				}
				return tableResult("Calificaciones del curso", portfolioTable(in.Get(keyCourse), rows), "Sin calificaciones para este curso."), nil
			},
		},
		{
			ID:     "my_active_students",
			Label:  "Ver alumnos en un curso",
			Fields: []Field{courseField},
			Hint:   taught,
			Run: func(ctx context.Context, in Input) (*Result, error) {
				rows, err := d.Activity.InstructorActiveStudents(ctx, user, in.Get(keyCourse))
				if err != nil {
					return nil, err
				}
				return tableResult("Alumnos activos", portfolioTable(in.Get(keyCourse), rows), "No hay alumnos activos en este curso."), nil
			},
		},
		{
			ID:     "count_lessons",
			Label:  "Contar lecciones por curso",
			Fields: []Field{courseField},
			Run: func(ctx context.Context, in Input) (*Result, error) {
				n, err := d.Catalog.CountLessons(ctx, in.Get(keyCourse))
				if err != nil {
					return nil, err
				}
				return &Result{
					Title:    "Conteo de lecciones",
					Messages: []string{fmt.Sprintf("%s tiene %d lecciones.", in.Get(keyCourse), n)},
				}, nil
			},
		},
		logoutAction(),
	}
}
