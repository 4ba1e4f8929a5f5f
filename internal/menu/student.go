package menu

import (
	"context"
	"fmt"

	"github.com/abhisek/learnlink/internal/activity"
	"github.com/abhisek/learnlink/internal/store"
)

// Student returns the menu of a student.
func Student(d Deps, user store.User) []Action {
	cardex := func(ctx context.Context) (*Table, error) {
		enrollments, err := d.Catalog.Cardex(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		t := enrollmentTable("Tus cursos inscritos", enrollments)
		return &t, nil
	}

	return []Action{
		{
			ID:    "cardex",
			Label: "Ver cardex (registro histórico)",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				t, err := cardex(ctx)
				if err != nil {
					return nil, err
				}
				return tableResult("Mis cursos", *t, "No estás inscrito en ningún curso."), nil
			},
		},
		{
			ID:    "my_grades",
			Label: "Ver mis calificaciones",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				rows, err := d.Activity.StudentGrades(ctx, user.Email)
				if err != nil {
					return nil, err
				}
				return tableResult("Mis calificaciones", portfolioTable("Cursos completados", rows),
					"No tienes calificaciones registradas."), nil
			},
		},
		{
			ID:    "pending_courses",
			Label: "Ver cursos pendientes",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				rows, err := d.Activity.PendingCourses(ctx, user.Email)
				if err != nil {
					return nil, err
				}
				return tableResult("Cursos activos", portfolioTable("En curso", rows), "No tienes cursos activos actualmente."), nil
			},
		},
		{
			ID:     "my_sessions",
			Label:  "Ver mi historial de sesión",
			Fields: []Field{filterField},
			Run: func(ctx context.Context, in Input) (*Result, error) {
				logs, err := d.Activity.LogsByUser(ctx, user.Email, in.Get(keyFilter))
				if err != nil {
					return nil, err
				}
				title := "Todos"
				if a := activity.ParseAction(in.Get(keyFilter)); a != "" {
					title = string(a)
				}
				return tableResult("Mi historial de sesión", logTable(title, logs), "No hay registros de sesión."), nil
			},
		},
		{
			ID:     "enroll",
			Label:  "Inscribirse en un curso",
			Fields: []Field{courseField},
			Hint:   courseHint(d),
			Run: func(ctx context.Context, in Input) (*Result, error) {
				res, err := d.Enrollment.Enroll(ctx, user, in.Get(keyCourse))
				if err != nil {
					return nil, err
				}
				return &Result{
					Title:    "Inscripción a un curso",
					Messages: []string{fmt.Sprintf("Inscripción exitosa en %q (%s).", res.Enrollment.CourseTitle, res.Enrollment.EnrollDate)},
					Warnings: Warnings(res.WriteOutcome),
				}, nil
			},
		},
		{
			ID:    "write_review",
			Label: "Escribir reseña",
			Fields: []Field{
				courseField,
				{Key: keyComment, Label: "Comentario"},
				{Key: keyRating, Label: "Rating (1-10)", Placeholder: "8.5"},
			},
			Hint: cardex,
			Run: func(ctx context.Context, in Input) (*Result, error) {
				res, err := d.Enrollment.SubmitReview(ctx, user, in.Get(keyCourse), in.Get(keyComment), in.Get(keyRating))
				if err != nil {
					return nil, err
				}
				return &Result{
					Title:    "Registro de reseñas",
					Messages: []string{fmt.Sprintf("Reseña de %q registrada con %s.", res.Review.CourseTitle, formatRating(res.Review.Rating))},
					Warnings: Warnings(res.WriteOutcome),
				}, nil
			},
		},
		{
			ID:    "my_reviews",
			Label: "Ver mis reseñas",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				reviews, err := d.Catalog.MyReviews(ctx, user)
				if err != nil {
					return nil, err
				}
				return tableResult("Mis reseñas", reviewTable("Reseñas", reviews), "No hay reseñas para mostrar."), nil
			},
		},
		recommendAction(d, &user),
		peersAction(d, &user),
		logoutAction(),
	}
}
