package docstore

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/abhisek/learnlink/internal/store"
)

// roleFilter matches users with role, or every user when role is empty.
func roleFilter(role store.Role) bson.M {
	if role == "" {
		return bson.M{}
	}
	return bson.M{"role": string(role)}
}

// lessonSearchFilter matches term literally and case-insensitively inside
// the lesson title or URL.
func lessonSearchFilter(term string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": re},
		bson.M{"url": re},
	}}
}

// countLessonsPipeline counts the lessons of a course.
func countLessonsPipeline(courseTitle string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "course_title", Value: courseTitle}}}},
		{{Key: "$count", Value: "total"}},
	}
}

func enrollmentFilter(email, courseTitle string) bson.M {
	return bson.M{"user_email": email, "course_title": courseTitle}
}
