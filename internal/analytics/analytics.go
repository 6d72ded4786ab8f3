// Package analytics derives statistics from record collections. Every function is
// pure: callers hand in already-loaded slices and nothing is cached or mutated.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/noah-isme/sma-records/internal/models"
)

var gradePoints = map[models.LetterGrade]float64{
	models.LetterA: 4.0,
	models.LetterB: 3.0,
	models.LetterC: 2.0,
	models.LetterD: 1.0,
	models.LetterF: 0.0,
}

// LetterGrade maps a score onto its letter band. Lower bounds are inclusive.
func LetterGrade(score float64) models.LetterGrade {
	switch {
	case score >= 90:
		return models.LetterA
	case score >= 80:
		return models.LetterB
	case score >= 70:
		return models.LetterC
	case score >= 60:
		return models.LetterD
	default:
		return models.LetterF
	}
}

// GPA averages the grade points of the stored letter grades, rounded to two decimals.
// Unknown letters count as zero points.
func GPA(grades []models.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var total float64
	for _, g := range grades {
		total += gradePoints[g.LetterGrade]
	}
	return Round(total/float64(len(grades)), 2)
}

// AttendanceRate returns the share of present marks as a whole percentage.
func AttendanceRate(records []models.AttendanceRecord) int {
	if len(records) == 0 {
		return 0
	}
	present := 0
	for _, r := range records {
		if r.Status == models.AttendancePresent {
			present++
		}
	}
	return percent(present, len(records))
}

// AverageScore is the arithmetic mean of the scores, 0 for no grades.
func AverageScore(grades []models.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var total float64
	for _, g := range grades {
		total += g.Score
	}
	return total / float64(len(grades))
}

// StudentRanking pairs a student with their mean score.
type StudentRanking struct {
	Student    models.Student `json:"student"`
	Average    float64        `json:"average"`
	GradeCount int            `json:"gradeCount"`
}

// TopStudents ranks students by mean score, highest first, and returns at most n.
// Students without grades rank with a mean of zero; ties keep the input order.
func TopStudents(students []models.Student, grades []models.Grade, n int) []StudentRanking {
	if n <= 0 || len(students) == 0 {
		return []StudentRanking{}
	}
	type acc struct {
		total float64
		count int
	}
	byStudent := make(map[string]acc, len(students))
	for _, g := range grades {
		current := byStudent[g.StudentID]
		current.total += g.Score
		current.count++
		byStudent[g.StudentID] = current
	}

	ranked := make([]StudentRanking, 0, len(students))
	for _, s := range students {
		entry := StudentRanking{Student: s}
		if data := byStudent[s.ID]; data.count > 0 {
			entry.Average = data.total / float64(data.count)
			entry.GradeCount = data.count
		}
		ranked = append(ranked, entry)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Average > ranked[j].Average
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// GradeDistribution counts grades per letter band. Every letter is present in the result.
func GradeDistribution(grades []models.Grade) map[models.LetterGrade]int {
	dist := make(map[models.LetterGrade]int, len(models.Letters))
	for _, letter := range models.Letters {
		dist[letter] = 0
	}
	for _, g := range grades {
		dist[LetterGrade(g.Score)]++
	}
	return dist
}

// ClassGroup holds the students of one class.
type ClassGroup struct {
	ClassName string           `json:"className"`
	Students  []models.Student `json:"students"`
	Active    int              `json:"active"`
	Inactive  int              `json:"inactive"`
}

// GroupByClass buckets students by class name. Every student whose status is not
// active counts as inactive.
func GroupByClass(students []models.Student) map[string]ClassGroup {
	groups := make(map[string]ClassGroup)
	for _, s := range students {
		group := groups[s.ClassName]
		group.ClassName = s.ClassName
		group.Students = append(group.Students, s)
		if s.Status == models.StudentActive {
			group.Active++
		}
		groups[s.ClassName] = group
	}
	for name, group := range groups {
		group.Inactive = len(group.Students) - group.Active
		groups[name] = group
	}
	return groups
}

// DailyAttendance counts the marks recorded for one day.
type DailyAttendance struct {
	Present int `json:"present"`
	Total   int `json:"total"`
}

// Rate is the present share of the day as a whole percentage.
func (d DailyAttendance) Rate() int {
	return percent(d.Present, d.Total)
}

// GroupByDate tallies attendance marks per day.
func GroupByDate(records []models.AttendanceRecord) map[string]DailyAttendance {
	days := make(map[string]DailyAttendance)
	for _, r := range records {
		day := days[r.Date]
		day.Total++
		if r.Status == models.AttendancePresent {
			day.Present++
		}
		days[r.Date] = day
	}
	return days
}

// UpcomingEvents returns the events dated within [from, from+horizonDays], earliest
// first. Only the calendar day of from is considered. Events whose date cannot be
// parsed are skipped.
func UpcomingEvents(events []models.Event, from time.Time, horizonDays int) []models.Event {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, horizonDays)

	type dated struct {
		event models.Event
		day   time.Time
	}
	matches := make([]dated, 0)
	for _, e := range events {
		day, err := time.Parse(models.DateLayout, e.Date)
		if err != nil {
			continue
		}
		if day.Before(start) || day.After(end) {
			continue
		}
		matches = append(matches, dated{event: e, day: day})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].day.Before(matches[j].day)
	})

	result := make([]models.Event, len(matches))
	for i, m := range matches {
		result[i] = m.event
	}
	return result
}

// Round rounds value half away from zero to the given number of decimals.
func Round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
