package menu

import (
	"context"

	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/validate"
)

// studentScoped asks for a student email, unless the menu belongs to that
// student.
type studentScoped struct {
	student *store.User
}

func (s studentScoped) fields() []Field {
	if s.student != nil {
		return nil
	}
	return []Field{{Key: keyEmail, Label: "Email estudiante"}}
}

func (s studentScoped) email(in Input) (string, error) {
	if s.student != nil {
		return s.student.Email, nil
	}
	email := in.Get(keyEmail)
	if email == "" {
		return "", validate.Required(keyEmail)
	}
	return email, nil
}

func recommendAction(d Deps, student *store.User) Action {
	scope := studentScoped{student: student}
	return Action{
		ID:     "recommend",
		Label:  "Recomendaciones de cursos",
		Fields: scope.fields(),
		Run: func(ctx context.Context, in Input) (*Result, error) {
			email, err := scope.email(in)
			if err != nil {
				return nil, err
			}
			recs, err := d.Reports.Recommend(ctx, email)
			if err != nil {
				return nil, err
			}
			return tableResult("Recomendar cursos", recommendationTable(recs), "No hay recomendaciones nuevas."), nil
		},
	}
}

func peersAction(d Deps, student *store.User) Action {
	scope := studentScoped{student: student}
	return Action{
		ID:     "network_peers",
		Label:  "Conexiones indirectas (compañeros de mis instructores)",
		Fields: scope.fields(),
		Run: func(ctx context.Context, in Input) (*Result, error) {
			email, err := scope.email(in)
			if err != nil {
				return nil, err
			}
			peers, err := d.Reports.NetworkPeers(ctx, email)
			if err != nil {
				return nil, err
			}
			return tableResult("Conexiones indirectas", personTable("Compañeros de red", peers), "Sin conexiones indirectas."), nil
		},
	}
}

// Reports returns the graph report menu. With a nil student, per-student
// reports prompt for an email.
func Reports(d Deps, student *store.User) []Action {
	scope := studentScoped{student: student}
	return []Action{
		{
			ID:     "roster",
			Label:  "Instructor y sus alumnos",
			Fields: []Field{{Key: keyEmail, Label: "Email instructor"}},
			Run: func(ctx context.Context, in Input) (*Result, error) {
				email := in.Get(keyEmail)
				if email == "" {
					return nil, validate.Required(keyEmail)
				}
				r, err := d.Reports.InstructorRoster(ctx, email)
				if err != nil {
					return nil, err
				}
				res := &Result{Title: "Instructor: " + r.Name, Tables: rosterTables(r)}
				if len(r.Courses) == 0 {
					res.Messages = append(res.Messages, "El instructor no imparte cursos.")
				}
				return res, nil
			},
		},
		{
			ID:    "popularity",
			Label: "Popularidad de cursos",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				rows, err := d.Reports.Popularity(ctx)
				if err != nil {
					return nil, err
				}
				return tableResult("Popularidad de cursos", popularityTable(rows), "No hay cursos."), nil
			},
		},
		{
			ID:    "collaboration",
			Label: "Colaboración de instructores",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				rows, err := d.Reports.Collaboration(ctx)
				if err != nil {
					return nil, err
				}
				return tableResult("Colaboración de instructores", collaborationTable(rows), "Sin colaboraciones encontradas."), nil
			},
		},
		recommendAction(d, student),
		{
			ID:    "influence",
			Label: "Influencia de instructores",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				rows, err := d.Reports.Influence(ctx)
				if err != nil {
					return nil, err
				}
				return tableResult("Influencia de instructores", influenceTable(rows), "No se recibieron datos."), nil
			},
		},
		{
			ID:    "cross_connections",
			Label: "Análisis de conexiones cruzadas",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				rows, err := d.Reports.CrossConnections(ctx)
				if err != nil {
					return nil, err
				}
				return tableResult("Conexiones cruzadas", crossTable(rows), "Sin conexiones cruzadas."), nil
			},
		},
		{
			ID:     "affinity",
			Label:  "Afinidad de alumno",
			Fields: scope.fields(),
			Run: func(ctx context.Context, in Input) (*Result, error) {
				email, err := scope.email(in)
				if err != nil {
					return nil, err
				}
				rows, err := d.Reports.Affinity(ctx, email)
				if err != nil {
					return nil, err
				}
				return tableResult("Afinidad de "+email, affinityTable(rows), "El alumno no tiene cursos."), nil
			},
		},
		peersAction(d, student),
		{
			ID:    "peer_overlap",
			Label: "Recomendaciones de red",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				rows, err := d.Reports.PeerOverlap(ctx)
				if err != nil {
					return nil, err
				}
				return tableResult("Estudiantes con 2+ cursos en común", overlapTable(rows), "Nadie comparte 2 o más cursos."), nil
			},
		},
		{
			ID:    "review_analysis",
			Label: "Análisis de reseñas",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				a, err := d.Reports.ReviewAnalysis(ctx)
				if err != nil {
					return nil, err
				}
				return &Result{
					Title: "Análisis de reseñas",
					Tables: []Table{
						ratingTable("Desempeño por curso", "Curso", a.Courses),
						ratingTable("Desempeño por instructor", "Instructor", a.Instructors),
					},
				}, nil
			},
		},
		{
			ID:     "history",
			Label:  "Historial alumno-instructor",
			Fields: scope.fields(),
			Run: func(ctx context.Context, in Input) (*Result, error) {
				email, err := scope.email(in)
				if err != nil {
					return nil, err
				}
				rows, err := d.Reports.History(ctx, email)
				if err != nil {
					return nil, err
				}
				return tableResult("Historial de "+email, historyTable(rows), "El alumno no tiene cursos."), nil
			},
		},
		{
			ID:    "category_performance",
			Label: "Desempeño promedio por categoría",
			Run: func(ctx context.Context, _ Input) (*Result, error) {
				rows, err := d.Reports.CategoryPerformance(ctx)
				if err != nil {
					return nil, err
				}
				return tableResult("Desempeño por categoría", categoryTable(rows), "No hay reseñas por categoría."), nil
			},
		},
	}
}
