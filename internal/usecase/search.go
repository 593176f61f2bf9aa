package usecase

import (
	"slices"
	"strings"

	"lms-dashboard/internal/domain"
)

// Relevance tiers of the course search. The first tier that matches wins.
const (
	ScoreExactTypeOrCategory = 100
	ScoreTypeOrCategory      = 80
	ScoreTitle               = 40
	ScoreInstructor          = 30
	ScoreDescription         = 20
	ScoreLevel               = 10
)

// ScoreCourse rates how well course matches query. Matching ignores case;
// zero means no match.
func ScoreCourse(query string, course domain.Course) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	courseType := strings.ToLower(course.Type)
	categories := make([]string, len(course.Categories))
	for i, c := range course.Categories {
		categories[i] = strings.ToLower(c)
	}

	if courseType == q || slices.Contains(categories, q) {
		return ScoreExactTypeOrCategory
	}
	if strings.Contains(courseType, q) || slices.ContainsFunc(categories, func(c string) bool { return strings.Contains(c, q) }) {
		return ScoreTypeOrCategory
	}
	if containsFold(course.Title, q) {
		return ScoreTitle
	}
	if containsFold(course.Instructor, q) || slices.ContainsFunc(course.Instructors, func(i string) bool { return containsFold(i, q) }) {
		return ScoreInstructor
	}
	if containsFold(course.Description, q) {
		return ScoreDescription
	}
	if containsFold(course.Level, q) {
		return ScoreLevel
	}
	return 0
}

// RankCourses drops courses that do not match query and orders the rest by
// score, highest first. Equal scores keep their input order. A blank query
// keeps every course in input order with a zero score.
func RankCourses(query string, courses []domain.Course) []domain.ScoredCourse {
	ranked := make([]domain.ScoredCourse, 0, len(courses))
	if strings.TrimSpace(query) == "" {
		for _, c := range courses {
			ranked = append(ranked, domain.ScoredCourse{Course: c})
		}
		return ranked
	}

	for _, c := range courses {
		if score := ScoreCourse(query, c); score > 0 {
			ranked = append(ranked, domain.ScoredCourse{Course: c, Score: score})
		}
	}
	slices.SortStableFunc(ranked, func(a, b domain.ScoredCourse) int {
		return b.Score - a.Score
	})
	return ranked
}

// FilterByCategory keeps courses tagged with category. "" and "all" keep
// everything.
func FilterByCategory(courses []domain.Course, category string) []domain.Course {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return courses
	}
	out := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if slices.ContainsFunc(c.Categories, func(cat string) bool { return strings.EqualFold(cat, category) }) {
			out = append(out, c)
		}
	}
	return out
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
