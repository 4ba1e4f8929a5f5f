package menu

import (
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/learnlink/internal/health"
	"github.com/abhisek/learnlink/internal/reports"
	"github.com/abhisek/learnlink/internal/store"
)

const logTimeLayout = "2006-01-02 15:04:05"

// ungraded marks portfolio rows without a grade.
const ungraded = "-"

func formatGrade(g *float64) string {
	if g == nil {
		return ungraded
	}
	return strconv.FormatFloat(*g, 'f', -1, 64)
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func userTable(title string, users []store.User) Table {
	t := Table{Title: title, Headers: []string{"Nombre", "Email", "Rol"}}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{u.Name, u.Email, string(u.Role)})
	}
	return t
}

func courseTable(title string, courses []store.Course) Table {
	t := Table{Title: title, Headers: []string{"Título", "Categoría", "Instructor"}}
	for _, c := range courses {
		t.Rows = append(t.Rows, []string{c.Title, c.Category, c.InstructorEmail})
	}
	return t
}

func lessonTable(title string, lessons []store.Lesson) Table {
	t := Table{Title: title, Headers: []string{"Curso", "Lección", "Descripción", "URL"}}
	for _, l := range lessons {
		t.Rows = append(t.Rows, []string{l.CourseTitle, l.Title, l.Description, l.URL})
	}
	return t
}

func reviewTable(title string, reviews []store.Review) Table {
	t := Table{Title: title, Headers: []string{"Curso", "Usuario", "Comentario", "Calificación"}}
	for _, r := range reviews {
		t.Rows = append(t.Rows, []string{r.CourseTitle, r.Username, r.Comment, formatRating(r.Rating)})
	}
	return t
}

func enrollmentTable(title string, enrollments []store.Enrollment) Table {
	t := Table{Title: title, Headers: []string{"Curso", "Fecha de inscripción"}}
	for _, e := range enrollments {
		t.Rows = append(t.Rows, []string{e.CourseTitle, e.EnrollDate})
	}
	return t
}

func logTable(title string, logs []store.SessionLog) Table {
	t := Table{Title: title, Headers: []string{"Email", "Nombre", "Rol", "Acción", "Fecha"}}
	for _, l := range logs {
		t.Rows = append(t.Rows, []string{l.Email, l.Name, string(l.Role), string(l.Action), l.ActionDate.Local().Format(logTimeLayout)})
	}
	return t
}

func portfolioTable(title string, rows []store.PortfolioRecord) Table {
	t := Table{Title: title, Headers: []string{"Alumno", "Email", "Curso", "Estado", "Calificación"}}
	for _, p := range rows {
		t.Rows = append(t.Rows, []string{p.Name, p.Email, p.CourseTitle, string(p.Status), formatGrade(p.Grade)})
	}
	return t
}

func healthTable(statuses []health.Status) Table {
	t := Table{Title: "Conexiones", Headers: []string{"Base de datos", "Estado", "Detalle", "Tiempo"}}
	for _, s := range statuses {
		state, detail := "OK", s.Detail
		if !s.OK {
			state = "ERROR"
			if s.Err != nil {
				detail = s.Err.Error()
			}
		}
		t.Rows = append(t.Rows, []string{s.Store, state, detail, s.Elapsed.Round(time.Millisecond).String()})
	}
	return t
}

func personTable(title string, people []store.GraphPerson) Table {
	t := Table{Title: title, Headers: []string{"Nombre", "Email"}}
	for _, p := range people {
		t.Rows = append(t.Rows, []string{p.Name, p.Email})
	}
	return t
}

func rosterTables(r *reports.InstructorRoster) []Table {
	var tables []Table
	for _, c := range r.Courses {
		tables = append(tables, personTable(c.Title, c.Students))
	}
	return tables
}

func popularityTable(rows []reports.PopularityRow) Table {
	t := Table{Title: "Popularidad de Cursos", Headers: []string{"Curso", "Inscritos", "Reseñas"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Title, strconv.Itoa(r.Enrollments), strconv.Itoa(r.Reviews)})
	}
	return t
}

func collaborationTable(rows []reports.CollaborationRow) Table {
	t := Table{Title: "Colaboración de Instructores", Headers: []string{"Instructor A", "Instructor B", "Razón"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.InstructorA, r.InstructorB, r.Reason()})
	}
	return t
}

func recommendationTable(recs []reports.Recommendation) Table {
	t := Table{Title: "Cursos Recomendados", Headers: []string{"Curso", "Categoría", "Razón"}}
	for _, r := range recs {
		t.Rows = append(t.Rows, []string{r.Title, r.Category, string(r.Reason)})
	}
	return t
}

func influenceTable(rows []reports.InfluenceRow) Table {
	t := Table{Title: "Influencia de Instructores", Headers: []string{"Instructor", "Total alumnos"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Name, strconv.Itoa(r.Students)})
	}
	return t
}

func crossTable(rows []reports.CrossConnectionRow) Table {
	t := Table{Title: "Conexiones Cruzadas", Headers: []string{"Alumno", "Tipo", "Valor", "Cursos"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Student, string(r.Kind), r.Value, strconv.Itoa(r.Courses)})
	}
	return t
}

func affinityTable(rows []reports.AffinityRow) Table {
	t := Table{Title: "Afinidad por Categoría", Headers: []string{"Categoría", "Cursos"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Category, strconv.Itoa(r.Courses)})
	}
	return t
}

func overlapTable(rows []reports.PeerOverlapRow) Table {
	t := Table{Title: "Recomendaciones de Red", Headers: []string{"Alumno A", "Alumno B", "Cursos en común"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.StudentA, r.StudentB, strconv.Itoa(r.SharedCourses)})
	}
	return t
}

func ratingTable(title, nameHeader string, rows []reports.RatingSummary) Table {
	t := Table{Title: title, Headers: []string{nameHeader, "Promedio", "Reseñas"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Name, reports.FormatMean(r.Average), strconv.Itoa(r.Count)})
	}
	return t
}

func historyTable(rows []reports.HistoryRow) Table {
	t := Table{Title: "Historial Alumno-Instructor", Headers: []string{"Curso", "Instructores"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Course, strings.Join(r.Instructors, ", ")})
	}
	return t
}

func categoryTable(rows []reports.CategoryRating) Table {
	t := Table{Title: "Desempeño por Categoría", Headers: []string{"Categoría", "Promedio", "Reseñas"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Category, reports.FormatMean(r.Average), strconv.Itoa(r.Reviews)})
	}
	return t
}

func outcomeTable(recs []store.OutcomeRecord) Table {
	t := Table{Headers: []string{"#", "Fecha", "Operación", "Sujeto", "Réplicas"}}
	for _, r := range recs {
		var mirrors []string
		for _, m := range r.Mirrors {
			state := "ok"
			switch {
			case m.Skipped:
				state = "omitido"
			case m.Error != "":
				state = "falló"
			}
			mirrors = append(mirrors, m.Store+"/"+m.Step+" "+state)
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.ID),
			r.Timestamp.Local().Format(logTimeLayout),
			r.Operation,
			r.Subject,
			strings.Join(mirrors, ", "),
		})
	}
	return t
}

// tableResult wraps t, replacing an empty table with the empty message.
func tableResult(title string, t Table, empty string) *Result {
	r := &Result{Title: title}
	if len(t.Rows) == 0 {
		r.Messages = append(r.Messages, empty)
		return r
	}
	r.Tables = append(r.Tables, t)
	return r
}
