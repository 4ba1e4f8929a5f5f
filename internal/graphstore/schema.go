package graphstore

// Schema declares the predicates, reverse edges and node types. Reverse
// edges back every "who points to me" traversal in the reports.
const Schema = `
name: string @index(exact, term) .
email: string @index(exact) @upsert .
role: string @index(exact) .
title: string @index(exact, term) .
category: string @index(exact) .
enroll_date: string .
status: string @index(exact) .
comment: string .
rating: float .
teaches: [uid] @reverse .
enrolled_in: [uid] @reverse .
of_course: uid @reverse .
review_of: uid @reverse .
reviewed_by: uid @reverse .

type User {
	name
	email
	role
	enrolled_in
}

type Instructor {
	name
	email
	role
	teaches
}

type Course {
	title
	category
}

type Enrollment {
	enroll_date
	status
	of_course
}

type Review {
	comment
	rating
	review_of
	reviewed_by
}
`
