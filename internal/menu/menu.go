// Package menu defines the role-gated actions of the console. Each Action
// declares the fields it prompts for and runs one service call, returning
// tables and messages for the result screen.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/learnlink/internal/activity"
	"github.com/abhisek/learnlink/internal/catalog"
	"github.com/abhisek/learnlink/internal/enrollment"
	"github.com/abhisek/learnlink/internal/health"
	"github.com/abhisek/learnlink/internal/identity"
	"github.com/abhisek/learnlink/internal/reports"
	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/validate"
)

// Field is one prompt of an action form.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Secret      bool
	Optional    bool

	// Choices restricts the value to a fixed set. An empty choice stands
	// for "all".
	Choices []string
}

// Input holds the submitted field values by key.
type Input map[string]string

// Get returns the trimmed value of key.
func (in Input) Get(key string) string {
	return strings.TrimSpace(in[key])
}

// Table is a titled grid of rows.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Result is what an action shows once it ran.
type Result struct {
	Title    string
	Tables   []Table
	Messages []string
	// Warnings lists best-effort writes that did not reach their store.
	Warnings []string
}

// Action is a menu entry. Exactly one of Run, Submenu or Logout applies.
type Action struct {
	ID     string
	Label  string
	Fields []Field

	// Hint, when set, is shown above the form, e.g. the courses to pick
	// from.
	Hint func(ctx context.Context) (*Table, error)

	Run     func(ctx context.Context, in Input) (*Result, error)
	Submenu []Action
	Logout  bool
}

// Deps are the services the actions call.
type Deps struct {
	Catalog    *catalog.Service
	Activity   *activity.Service
	Enrollment *enrollment.Service
	Reports    *reports.Engine
	Health     []health.Check

	// Journal is optional; without it the journal action is not offered.
	Journal store.OutcomeRepo
}

// For returns the menu of user's role.
func For(user store.User, d Deps) []Action {
	switch user.Role {
	case store.RoleAdmin:
		return Admin(d, user)
	case store.RoleInstructor:
		return Instructor(d, user)
	case store.RoleStudent:
		return Student(d, user)
	}
	return []Action{logoutAction()}
}

func logoutAction() Action {
	return Action{ID: "logout", Label: "Salir", Logout: true}
}

// Common field keys.
const (
	keyCourse   = "course_title"
	keyEmail    = "email"
	keyRole     = "role"
	keyName     = "name"
	keyPassword = "password"
	keyTitle    = "title"
	keyCategory = "category"
	keyDesc     = "description"
	keyURL      = "url"
	keyTerm     = "term"
	keyFilter   = "filter"
	keyComment  = "comment"
	keyRating   = "rating"
)

var (
	courseField = Field{Key: keyCourse, Label: "Nombre del curso", Placeholder: "CS101"}
	emailField  = Field{Key: keyEmail, Label: "Email", Placeholder: "alumno@learnlink.io"}
	filterField = Field{Key: keyFilter, Label: "Filtro", Optional: true, Choices: []string{"", "log_in", "log_out"}}
)

var roles = []string{string(store.RoleStudent), string(store.RoleInstructor), string(store.RoleAdmin)}

// EmailInput is the input of the per-user reports.
func EmailInput(email string) Input {
	return Input{keyEmail: email}
}

// Warnings renders the mirrors of out that were not written.
func Warnings(out store.WriteOutcome) []string {
	var w []string
	for _, m := range out.Failed() {
		verb := "falló"
		if m.Skipped {
			verb = "omitido"
		}
		w = append(w, fmt.Sprintf("Advertencia: %s/%s %s: %v", m.Store, m.Step, verb, m.Err))
	}
	return w
}

// Message turns an error into the text shown to the user.
func Message(err error) string {
	var ve *validate.Error
	var ue *store.UnavailableError
	switch {
	case errors.As(err, &ve):
		return "Dato inválido: " + ve.Error()
	case errors.As(err, &ue):
		return fmt.Sprintf("No se pudo conectar con %s. Intenta más tarde.", ue.Store)
	case errors.Is(err, identity.ErrInvalidCredentials):
		return "Email o contraseña incorrectos"
	case errors.Is(err, enrollment.ErrAlreadyEnrolled):
		return "Ya estás inscrito en este curso."
	case errors.Is(err, enrollment.ErrCourseNotFound), errors.Is(err, catalog.ErrCourseNotFound):
		return "Error: No se encontró ese curso."
	case errors.Is(err, enrollment.ErrNotEnrolled):
		return "Debes estar inscrito en el curso para reseñarlo."
	case errors.Is(err, enrollment.ErrInvalidRating):
		return "Rating inválido. Debe ser un número entre 1 y 10."
	case errors.Is(err, enrollment.ErrMissingIdentity):
		return "Error: Tu cuenta de usuario no tiene un UUID."
	case errors.Is(err, catalog.ErrEmailTaken):
		return "Ya existe un usuario con ese email."
	case errors.Is(err, catalog.ErrTitleTaken):
		return "Ya existe un curso con ese título."
	case errors.Is(err, catalog.ErrInstructorNotFound):
		return "Instructor no encontrado."
	case errors.Is(err, catalog.ErrNotCourseInstructor), errors.Is(err, activity.ErrNotCourseInstructor):
		return "Error: Curso no válido. No impartes ese curso."
	case errors.Is(err, catalog.ErrForbidden):
		return "Acción no permitida para tu rol."
	case errors.Is(err, reports.ErrStudentNotFound):
		return "Usuario no encontrado."
	case errors.Is(err, reports.ErrInstructorNotFound):
		return "Instructor no encontrado."
	case errors.Is(err, reports.ErrNoEnrollments):
		return "El usuario no ha tomado cursos suficientes para recomendar."
	}
	return "Error: " + err.Error()
}
