package menu

import (
	"context"
	"fmt"

	"github.com/abhisek/learnlink/internal/catalog"
	"github.com/abhisek/learnlink/internal/health"
	"github.com/abhisek/learnlink/internal/store"
)

// Admin returns the administrator menu.
func Admin(d Deps, admin store.User) []Action {
	actions := []Action{
		{
			ID:    "register_user",
			Label: "Registrar nuevo usuario",
			Fields: []Field{
				{Key: keyName, Label: "Nombre"},
				emailField,
				{Key: keyPassword, Label: "Contraseña", Secret: true},
				{Key: keyRole, Label: "Rol", Choices: roles},
			},
			Run: func(ctx context.Context, in Input) (*Result, error) {
				res, err := d.Catalog.RegisterUser(ctx, catalog.NewUser{
					Name:     in.Get(keyName),
					Email:    in.Get(keyEmail),
					Password: in[keyPassword],
					Role:     in.Get(keyRole),
				})
				if err != nil {
					return nil, err
				}
				return &Result{
					Title:    "Registrar usuario",
					Messages: []string{fmt.Sprintf("Usuario %s (%s) creado.", res.User.Name, res.User.Role)},
					Warnings: Warnings(res.WriteOutcome),
				}, nil
			},
		},
		{
			ID:    "create_course",
			Label: "Crear nuevo curso",
			Fields: []Field{
				{Key: keyTitle, Label: "Título"},
				{Key: keyCategory, Label: "Categoría", Placeholder: "Programación"},
				{Key: keyEmail, Label: "Email del instructor"},
			},
			Hint: func(ctx context.Context) (*Table, error) {
				users, err := d.Catalog.Instructors(ctx)
				if err != nil {
					return nil, err
				}
				t := userTable("Instructores disponibles", users)
				return &t, nil
			},
			Run: func(ctx context.Context, in Input) (*Result, error) {
				res, err := d.Catalog.CreateCourse(ctx, catalog.NewCourse{
					Title:           in.Get(keyTitle),
					Category:        in.Get(keyCategory),
					InstructorEmail: in.Get(keyEmail),
				})
				if err != nil {
					return nil, err
				}
				return &Result{
					Title:    "Crear curso",
					Messages: []string{fmt.Sprintf("Curso %q creado.", res.Course.Title)},
					Warnings: Warnings(res.WriteOutcome),
				}, nil
			},
		},
		addLessonAction(d, admin, courseHint(d)),
		{
			ID:     "search_users",
			Label:  "Buscar usuarios por rol",
			Fields: []Field{{Key: keyRole, Label: "Rol", Optional: true, Choices: append([]string{""}, roles...)}},
			Run: func(ctx context.Context, in Input) (*Result, error) {
				users, err := d.Catalog.SearchUsers(ctx, in.Get(keyRole))
				if err != nil {
					return nil, err
				}
				return tableResult("Buscar usuarios", userTable("Usuarios", users), "No se encontraron usuarios."), nil
			},
		},
		{
			ID:     "search_lessons",
			Label:  "Buscar lección",
			Fields: []Field{{Key: keyTerm, Label: "Título o URL"}},
			Run: func(ctx context.Context, in Input) (*Result, error) {
				lessons, err := d.Catalog.SearchLessons(ctx, in.Get(keyTerm))
				if err != nil {
					return nil, err
				}
				return tableResult("Buscar lección", lessonTable("Lecciones", lessons), "No se encontraron lecciones."), nil
			},
		},
		{
			ID:     "course_reviews",
			Label:  "Ver reseñas por curso",
			Fields: []Field{courseField},
			Hint:   courseHint(d),
			Run: func(ctx context.Context, in Input) (*Result, error) {
				reviews, err := d.Catalog.ReviewsByCourse(ctx, in.Get(keyCourse))
				if err != nil {
					return nil, err
				}
				return tableResult("Reseñas por curso", reviewTable(in.Get(keyCourse), reviews), "Sin reseñas."), nil
			},
		},
		{
			ID:     "logs_by_role",
			Label:  "Consultar logs por rol",
			Fields: []Field{{Key: keyRole, Label: "Rol", Choices: roles}},
			Run: func(ctx context.Context, in Input) (*Result, error) {
				logs, err := d.Activity.LogsByRole(ctx, in.Get(keyRole))
				if err != nil {
					return nil, err
				}
				return tableResult("Logs por rol", logTable("Ordenados por email", logs), "Sin logs para este rol."), nil
			},
		},
		{
			ID:    "logs_by_user",
			Label: "Consultar logs de un usuario",
			Fields: []Field{
				emailField,
				filterField,
			},
			Run: func(ctx context.Context, in Input) (*Result, error) {
				logs, err := d.Activity.LogsByUser(ctx, in.Get(keyEmail), in.Get(keyFilter))
				if err != nil {
					return nil, err
				}
				return tableResult("Logs por usuario", logTable(in.Get(keyEmail), logs), "Sin logs para este usuario."), nil
			},
		},
		{
			ID:     "course_grades",
			Label:  "Calificaciones de alumnos por curso",
			Fields: []Field{courseField},
			Hint:   courseHint(d),
			Run: func(ctx context.Context, in Input) (*Result, error) {
				rows, err := d.Activity.CourseGrades(ctx, in.Get(keyCourse))
				if err != nil {
					return nil, err
				}
				return tableResult("Calificaciones históricas", portfolioTable(in.Get(keyCourse), rows), "Sin calificaciones."), nil
			},
		},
		{
			ID:     "failing_students",
			Label:  "Alumnos reprobados por curso",
			Fields: []Field{courseField},
			Hint:   courseHint(d),
			Run: func(ctx context.Context, in Input) (*Result, error) {
				rows, err := d.Activity.FailingStudents(ctx, in.Get(keyCourse))
				if err != nil {
					return nil, err
				}
				title := fmt.Sprintf("%s (calificación < %s)", in.Get(keyCourse), formatRating(d.Activity.FailingBelow()))
				return tableResult("Alumnos reprobados", portfolioTable(title, rows), "No hay reprobados."), nil
			},
		},
		{
			ID:     "count_active",
			Label:  "Contar alumnos activos por curso",
			Fields: []Field{courseField},
			Hint:   courseHint(d),
			Run: func(ctx context.Context, in Input) (*Result, error) {
				n, err := d.Activity.CountActive(ctx, in.Get(keyCourse))
				if err != nil {
					return nil, err
				}
				return &Result{
					Title:    "Alumnos activos",
					Messages: []string{fmt.Sprintf("%s: %d alumnos activos.", in.Get(keyCourse), n)},
				}, nil
			},
		},
		{
			ID:      "graph_reports",
			Label:   "Reportes de grafo",
			Submenu: Reports(d, nil),
		},
		{
			ID:    "ping",
			Label: "Probar conexiones a BD",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				statuses := health.Run(ctx, d.Health...)
				r := &Result{Title: "Prueba de conexiones", Tables: []Table{healthTable(statuses)}}
				if health.Healthy(statuses) {
					r.Messages = append(r.Messages, "Conexiones exitosas.")
				} else {
					r.Warnings = append(r.Warnings, "Al menos una base de datos no responde.")
				}
				return r, nil
			},
		},
	}
	if d.Journal != nil {
		actions = append(actions, journalAction(d.Journal))
	}
	return append(actions, logoutAction())
}

// journalLimit bounds the outcomes listed by the journal action.
const journalLimit = 50

const partialOnly = "parciales"

func journalAction(journal store.OutcomeRepo) Action {
	return Action{
		ID:     "journal",
		Label:  "Bitácora de escrituras",
		Fields: []Field{{Key: keyFilter, Label: "Mostrar", Optional: true, Choices: []string{"", partialOnly}}},
		Run: func(ctx context.Context, in Input) (*Result, error) {
			recs, err := journal.QueryOutcomes(ctx, store.QueryOpts{
				Limit:       journalLimit,
				PartialOnly: in.Get(keyFilter) == partialOnly,
			})
			if err != nil {
				return nil, err
			}
			return tableResult("Bitácora de escrituras", outcomeTable(recs), "La bitácora está vacía."), nil
		},
	}
}

// courseHint lists the whole catalog.
func courseHint(d Deps) func(context.Context) (*Table, error) {
	return func(ctx context.Context) (*Table, error) {
		courses, err := d.Catalog.ListCourses(ctx)
		if err != nil {
			return nil, err
		}
		t := courseTable("Cursos disponibles", courses)
		return &t, nil
	}
}

func addLessonAction(d Deps, actor store.User, hint func(context.Context) (*Table, error)) Action {
	return Action{
		ID:    "add_lesson",
		Label: "Añadir lección a un curso",
		Fields: []Field{
			courseField,
			{Key: keyTitle, Label: "Título de la lección"},
			{Key: keyDesc, Label: "Descripción", Optional: true},
			{Key: keyURL, Label: "URL", Placeholder: "https://"},
		},
		Hint: hint,
		Run: func(ctx context.Context, in Input) (*Result, error) {
			l, err := d.Catalog.AddLesson(ctx, actor, catalog.NewLesson{
				CourseTitle: in.Get(keyCourse),
				Title:       in.Get(keyTitle),
				Description: in.Get(keyDesc),
				URL:         in.Get(keyURL),
			})
			if err != nil {
				return nil, err
			}
			return &Result{
				Title:    "Añadir lección",
				Messages: []string{fmt.Sprintf("Lección %q añadida a %s.", l.Title, l.CourseTitle)},
			}, nil
		},
	}
}
