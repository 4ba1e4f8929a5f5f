package enrollment

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/validate"
)

const (
	MinRating = 1.0
	MaxRating = 10.0
)

// ReviewResult is the outcome of a successful review submission.
type ReviewResult struct {
	Review store.Review
	store.WriteOutcome
}

type reviewInput struct {
	CourseTitle string  `json:"course_title" validate:"notblank"`
	Comment     string  `json:"comment" validate:"notblank,max=2000"`
	Rating      float64 `json:"rating" validate:"gte=1,lte=10"`
}

// ParseRating parses a rating typed by the user. It accepts decimal
// numbers within [MinRating, MaxRating].
func ParseRating(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, raw)
	}
	if f < MinRating || f > MaxRating {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRating, f)
	}
	return f, nil
}

// SubmitReview records user's review of the course titled courseTitle.
//
// The rating and comment are validated before any store is contacted. The
// user must already be enrolled. The document store insert is authoritative;
// the graph Review node is written best-effort.
func (s *Service) SubmitReview(ctx context.Context, user store.User, courseTitle, comment, rating string) (*ReviewResult, error) {
	value, err := ParseRating(rating)
	if err != nil {
		return nil, err
	}
	in := reviewInput{
		CourseTitle: strings.TrimSpace(courseTitle),
		Comment:     strings.TrimSpace(comment),
		Rating:      value,
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	enr, err := s.docs.FindEnrollment(ctx, user.Email, in.CourseTitle)
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	if enr == nil {
		return nil, ErrNotEnrolled
	}

	rev := store.Review{
		CourseTitle: in.CourseTitle,
		Username:    user.Name,
		Comment:     in.Comment,
		Rating:      in.Rating,
	}
	if err := s.docs.InsertReview(ctx, rev); err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	out := store.WriteOutcome{
		Operation: "review",
		Subject:   user.Email + " -> " + in.CourseTitle,
		Primary:   store.StepResult{Store: store.StoreDocuments, Step: "reviews"},
	}
	s.mirrorGraphReview(ctx, &out, user.Email, rev)
	s.finish(ctx, out)

	return &ReviewResult{Review: rev, WriteOutcome: out}, nil
}

func (s *Service) mirrorGraphReview(ctx context.Context, out *store.WriteOutcome, email string, rev store.Review) {
	userUID, courseUID, err := s.resolveGraphPair(ctx, email, rev.CourseTitle)
	if err != nil {
		out.Mirror(store.StoreGraph, "review", fmt.Errorf("resolve nodes: %w", err))
		return
	}
	if userUID == "" {
		out.Skip(store.StoreGraph, "review", errGraphNodeMissing)
		return
	}
	_, err = s.graph.InsertReview(ctx, store.GraphReviewInput{
		UserUID:   userUID,
		CourseUID: courseUID,
		Comment:   rev.Comment,
		Rating:    rev.Rating,
	})
	out.Mirror(store.StoreGraph, "review", err)
}
