package usecase

import (
	"math"
	"time"

	"lms-dashboard/internal/domain"
)

// Pace thresholds: a student is behind once they have been enrolled longer
// than the course's estimated duration without enough progress.
const (
	highRiskOverrun    = 1.5
	highRiskProgress   = 50.0
	mediumRiskProgress = 75.0
)

// DaysEnrolled is the number of whole days between enrolledAt and now.
func DaysEnrolled(enrolledAt, now time.Time) int {
	return int(math.Floor(now.Sub(enrolledAt).Hours() / 24))
}

// ClassifyRisk estimates whether a student is falling behind the expected
// pace of a course that should take estimatedDuration days. A course with no
// estimate cannot be behind.
func ClassifyRisk(completed bool, progress float64, enrolledAt time.Time, estimatedDuration int, now time.Time) domain.RiskLevel {
	if completed || estimatedDuration <= 0 {
		return domain.RiskLow
	}
	days := float64(DaysEnrolled(enrolledAt, now))
	expected := float64(estimatedDuration)

	switch {
	case days > highRiskOverrun*expected && progress < highRiskProgress:
		return domain.RiskHigh
	case days > expected && progress < mediumRiskProgress:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// AssessEnrollments attaches days enrolled and risk level to each enrollment.
// durations maps course id to estimated duration and is used when the
// enrollment does not embed its course.
func AssessEnrollments(enrollments []domain.Enrollment, durations map[string]int, now time.Time) []domain.EnrollmentWithRisk {
	out := make([]domain.EnrollmentWithRisk, len(enrollments))
	for i, e := range enrollments {
		duration := durations[e.CourseID]
		if e.Course != nil && e.Course.EstimatedDuration > 0 {
			duration = e.Course.EstimatedDuration
		}
		out[i] = domain.EnrollmentWithRisk{
			Enrollment:   e,
			DaysEnrolled: DaysEnrolled(e.EnrolledAt, now),
			Risk:         ClassifyRisk(e.Completed, e.Progress, e.EnrolledAt, duration, now),
		}
	}
	return out
}

func Summarize(enrollments []domain.EnrollmentWithRisk) (domain.ProgressSummary, domain.RiskHistogram) {
	var (
		sum  domain.ProgressSummary
		hist domain.RiskHistogram
		acc  float64
	)
	for _, e := range enrollments {
		sum.Total++
		acc += e.Progress
		if e.Completed {
			sum.Completed++
		} else {
			sum.InProgress++
		}
		switch e.Risk {
		case domain.RiskHigh:
			hist.High++
			sum.AtRisk++
		case domain.RiskMedium:
			hist.Medium++
			sum.AtRisk++
		default:
			hist.Low++
		}
	}
	if sum.Total > 0 {
		sum.AverageProgress = math.Round(acc/float64(sum.Total)*10) / 10
	}
	return sum, hist
}

func riskRank(r domain.RiskLevel) int {
	switch r {
	case domain.RiskHigh:
		return 2
	case domain.RiskMedium:
		return 1
	}
	return 0
}
