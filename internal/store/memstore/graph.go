package memstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/abhisek/learnlink/internal/store"
)

type graphNode struct {
	uid   string
	typ   string
	attrs map[string]string
	edges map[string][]string
}

// Graph is an in-memory store.GraphStore. Reads return nodes in insertion
// order, which stands in for the graph store's return order.
type Graph struct {
	Faults

	mu    sync.Mutex
	nodes map[string]*graphNode
	order []string
	next  int
}

var _ store.GraphStore = (*Graph)(nil)

// NewGraph returns an empty graph store.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*graphNode)}
}

func (g *Graph) newNode(typ string, attrs map[string]string) *graphNode {
	g.next++
	n := &graphNode{
		uid:   fmt.Sprintf("0x%x", g.next),
		typ:   typ,
		attrs: attrs,
		edges: make(map[string][]string),
	}
	g.nodes[n.uid] = n
	g.order = append(g.order, n.uid)
	return n
}

func (g *Graph) link(from, pred, to string) error {
	n, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("link %s: unknown node %s", pred, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("link %s: unknown node %s", pred, to)
	}
	n.edges[pred] = append(n.edges[pred], to)
	return nil
}

func (g *Graph) findBy(attr, value string) string {
	for _, uid := range g.order {
		if g.nodes[uid].attrs[attr] == value {
			return uid
		}
	}
	return ""
}

// reverse returns the nodes with a pred edge pointing at uid.
func (g *Graph) reverse(pred, uid string) []*graphNode {
	var out []*graphNode
	for _, id := range g.order {
		n := g.nodes[id]
		for _, to := range n.edges[pred] {
			if to == uid {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

func (g *Graph) UIDByEmail(_ context.Context, email string) (string, error) {
	if err := g.hit("UIDByEmail"); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.findBy("email", email), nil
}

func (g *Graph) UIDByTitle(_ context.Context, title string) (string, error) {
	if err := g.hit("UIDByTitle"); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.findBy("title", title), nil
}

func (g *Graph) InsertPerson(_ context.Context, u store.User) (string, error) {
	if err := g.hit("InsertPerson"); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	typ := "Instructor"
	if u.Role == store.RoleStudent {
		typ = "User"
	}
	n := g.newNode(typ, map[string]string{"name": u.Name, "email": u.Email, "role": string(u.Role)})
	return n.uid, nil
}

func (g *Graph) InsertCourse(_ context.Context, c store.Course, instructorUID string) (string, error) {
	if err := g.hit("InsertCourse"); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.newNode("Course", map[string]string{"title": c.Title, "category": c.Category})
	if instructorUID != "" {
		if err := g.link(instructorUID, "teaches", n.uid); err != nil {
			return "", err
		}
	}
	return n.uid, nil
}

func (g *Graph) InsertEnrollment(_ context.Context, userUID, courseUID, enrollDate string) (string, error) {
	if err := g.hit("InsertEnrollment"); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[userUID]; !ok {
		return "", fmt.Errorf("insert enrollment: unknown user %s", userUID)
	}
	n := g.newNode("Enrollment", map[string]string{"status": string(store.StatusActive), "enroll_date": enrollDate})
	if err := g.link(n.uid, "of_course", courseUID); err != nil {
		return "", err
	}
	if err := g.link(userUID, "enrolled_in", n.uid); err != nil {
		return "", err
	}
	return n.uid, nil
}

func (g *Graph) InsertReview(_ context.Context, in store.GraphReviewInput) (string, error) {
	if err := g.hit("InsertReview"); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.newNode("Review", map[string]string{
		"comment": in.Comment,
		"rating":  strconv.FormatFloat(in.Rating, 'f', -1, 64),
	})
	if err := g.link(n.uid, "review_of", in.CourseUID); err != nil {
		return "", err
	}
	if err := g.link(n.uid, "reviewed_by", in.UserUID); err != nil {
		return "", err
	}
	return n.uid, nil
}

func (g *Graph) Instructors(_ context.Context) ([]store.GraphInstructor, error) {
	if err := g.hit("Instructors"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []store.GraphInstructor
	for _, uid := range g.order {
		if n := g.nodes[uid]; n.typ == "Instructor" {
			out = append(out, g.instructor(n))
		}
	}
	return out, nil
}

func (g *Graph) Instructor(_ context.Context, email string) (*store.GraphInstructor, error) {
	if err := g.hit("Instructor"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, uid := range g.order {
		if n := g.nodes[uid]; n.typ == "Instructor" && n.attrs["email"] == email {
			inst := g.instructor(n)
			return &inst, nil
		}
	}
	return nil, nil
}

func (g *Graph) Courses(_ context.Context) ([]store.GraphCourse, error) {
	if err := g.hit("Courses"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []store.GraphCourse
	for _, uid := range g.order {
		n := g.nodes[uid]
		if n.typ != "Course" {
			continue
		}
		c := g.course(n)
		c.EnrollmentCount = len(g.reverse("of_course", n.uid))
		reviews := g.reverse("review_of", n.uid)
		c.ReviewCount = len(reviews)
		c.Reviews = g.reviews(reviews)
		c.Teachers = g.teachers(n.uid)
		out = append(out, c)
	}
	return out, nil
}

func (g *Graph) Students(_ context.Context) ([]store.GraphStudent, error) {
	if err := g.hit("Students"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []store.GraphStudent
	for _, uid := range g.order {
		if n := g.nodes[uid]; n.typ == "User" {
			out = append(out, g.student(n, false))
		}
	}
	return out, nil
}

func (g *Graph) Student(_ context.Context, email string) (*store.GraphStudent, error) {
	if err := g.hit("Student"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if n := g.userByEmail(email); n != nil {
		s := g.student(n, false)
		return &s, nil
	}
	return nil, nil
}

func (g *Graph) StudentNetwork(_ context.Context, email string) (*store.GraphStudent, error) {
	if err := g.hit("StudentNetwork"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if n := g.userByEmail(email); n != nil {
		s := g.student(n, true)
		return &s, nil
	}
	return nil, nil
}

func (g *Graph) Ping(_ context.Context) (string, error) {
	if err := g.hit("Ping"); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("memory (%d nodes)", len(g.nodes)), nil
}

// NodeCount returns the number of nodes of the given type.
func (g *Graph) NodeCount(typ string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, node := range g.nodes {
		if node.typ == typ {
			n++
		}
	}
	return n
}

func (g *Graph) userByEmail(email string) *graphNode {
	for _, uid := range g.order {
		if n := g.nodes[uid]; n.typ == "User" && n.attrs["email"] == email {
			return n
		}
	}
	return nil
}

func (g *Graph) person(n *graphNode) store.GraphPerson {
	return store.GraphPerson{UID: n.uid, Name: n.attrs["name"], Email: n.attrs["email"]}
}

func (g *Graph) course(n *graphNode) store.GraphCourse {
	return store.GraphCourse{UID: n.uid, Title: n.attrs["title"], Category: n.attrs["category"]}
}

func (g *Graph) reviews(nodes []*graphNode) []store.GraphReview {
	var out []store.GraphReview
	for _, r := range nodes {
		rating, _ := strconv.ParseFloat(r.attrs["rating"], 64)
		out = append(out, store.GraphReview{UID: r.uid, Comment: r.attrs["comment"], Rating: store.GraphRating(rating)})
	}
	return out
}

func (g *Graph) teachers(courseUID string) []store.GraphInstructor {
	var out []store.GraphInstructor
	for _, t := range g.reverse("teaches", courseUID) {
		out = append(out, store.GraphInstructor{UID: t.uid, Name: t.attrs["name"], Email: t.attrs["email"]})
	}
	return out
}

// enrolledCourse expands a course with its enrollments and their students.
func (g *Graph) enrolledCourse(n *graphNode) store.GraphCourse {
	c := g.course(n)
	enrollments := g.reverse("of_course", n.uid)
	c.EnrollmentCount = len(enrollments)
	for _, e := range enrollments {
		ge := store.GraphEnrollment{UID: e.uid, EnrollDate: e.attrs["enroll_date"], Status: e.attrs["status"]}
		for _, s := range g.reverse("enrolled_in", e.uid) {
			ge.Students = append(ge.Students, g.person(s))
		}
		c.Enrollments = append(c.Enrollments, ge)
	}
	return c
}

func (g *Graph) instructor(n *graphNode) store.GraphInstructor {
	inst := store.GraphInstructor{UID: n.uid, Name: n.attrs["name"], Email: n.attrs["email"]}
	for _, cuid := range n.edges["teaches"] {
		c := g.enrolledCourse(g.nodes[cuid])
		c.Reviews = g.reviews(g.reverse("review_of", cuid))
		inst.Teaches = append(inst.Teaches, c)
	}
	return inst
}

func (g *Graph) student(n *graphNode, network bool) store.GraphStudent {
	s := store.GraphStudent{UID: n.uid, Name: n.attrs["name"], Email: n.attrs["email"]}
	for _, euid := range n.edges["enrolled_in"] {
		e := g.nodes[euid]
		ge := store.GraphEnrollment{UID: e.uid, EnrollDate: e.attrs["enroll_date"], Status: e.attrs["status"]}
		if cuids := e.edges["of_course"]; len(cuids) > 0 {
			c := g.course(g.nodes[cuids[0]])
			if network {
				for _, t := range g.reverse("teaches", c.UID) {
					inst := store.GraphInstructor{UID: t.uid, Name: t.attrs["name"], Email: t.attrs["email"]}
					for _, tc := range t.edges["teaches"] {
						inst.Teaches = append(inst.Teaches, g.enrolledCourse(g.nodes[tc]))
					}
					c.Teachers = append(c.Teachers, inst)
				}
			} else {
				c.Teachers = g.teachers(c.UID)
			}
			ge.Course = &c
		}
		s.Enrollments = append(s.Enrollments, ge)
	}
	return s
}
