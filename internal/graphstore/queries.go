package graphstore

// Queries alias reverse edges to the field names of the store.Graph* types.
const (
	queryUIDByEmail = `query q($email: string) {
  q(func: eq(email, $email), first: 1) { uid }
}`

	queryUIDByTitle = `query q($title: string) {
  q(func: eq(title, $title), first: 1) { uid }
}`

	instructorBody = `{
    uid
    name
    email
    teaches {
      uid
      title
      category
      enrollment_count: count(~of_course)
      enrollments: ~of_course {
        uid
        enroll_date
        status
        students: ~enrolled_in { uid name email }
      }
      reviews: ~review_of { uid comment rating }
    }
  }`

	queryInstructors = `{
  q(func: type(Instructor)) ` + instructorBody + `
}`

	queryInstructor = `query q($email: string) {
  q(func: eq(email, $email)) @filter(type(Instructor)) ` + instructorBody + `
}`

	queryCourses = `{
  q(func: type(Course)) {
    uid
    title
    category
    enrollment_count: count(~of_course)
    review_count: count(~review_of)
    reviews: ~review_of { uid comment rating }
    teachers: ~teaches { uid name email }
  }
}`

	studentBody = `{
    uid
    name
    email
    enrollments: enrolled_in {
      uid
      enroll_date
      status
      course: of_course {
        uid
        title
        category
        teachers: ~teaches { uid name email }
      }
    }
  }`

	queryStudents = `{
  q(func: type(User)) ` + studentBody + `
}`

	queryStudent = `query q($email: string) {
  q(func: eq(email, $email)) @filter(type(User)) ` + studentBody + `
}`

	queryStudentNetwork = `query q($email: string) {
  q(func: eq(email, $email)) @filter(type(User)) {
    uid
    name
    email
    enrollments: enrolled_in {
      uid
      course: of_course {
        uid
        title
        teachers: ~teaches {
          uid
          name
          email
          teaches {
            uid
            title
            enrollments: ~of_course {
              uid
              students: ~enrolled_in { uid name email }
            }
          }
        }
      }
    }
  }
}`
)
