package models

// All lists every table the service owns, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Course{},
		&Section{},
		&Lecture{},
		&UserCourse{},
		&LectureProgress{},
		&FavoriteCourse{},
		&SectionQuiz{},
		&QuizQuestion{},
		&QuizOption{},
		&SectionQuizResult{},
		&ForumTopic{},
		&ForumReply{},
		&Comment{},
		&ReviewForm{},
		&CourseReview{},
		&Payment{},
		&CoursePricing{},
	}
}
