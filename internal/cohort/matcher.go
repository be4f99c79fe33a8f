// Package cohort decides which scoped content applies to which student.
// Every call site that used to re-implement the course/courseType/center/
// gender wildcard rules goes through Matches instead.
package cohort

import (
	"strings"

	"github.com/edutrack/student-portal-api/internal/models"
)

// Matches reports whether the scope applies to the student. It is pure and
// total: no I/O, no side effects, identical inputs always yield identical
// output.
//
// Each of the four fields matches independently when the scope side is empty,
// carries the field's wildcard token, or equals the student side after
// trimming and case folding. The scope matches only when all four fields do.
func Matches(scope models.Scope, student models.StudentProfile) bool {
	return fieldMatches(scope.Course, student.Course, models.ScopeAll) &&
		fieldMatches(scope.CourseType, student.CourseType, models.ScopeAll) &&
		fieldMatches(scope.Center, student.Center, models.ScopeAll) &&
		fieldMatches(scope.Gender, student.Gender, models.ScopeBoth)
}

func fieldMatches(scoped, actual, wildcard string) bool {
	scoped = strings.ToLower(strings.TrimSpace(scoped))
	if scoped == "" || scoped == strings.ToLower(wildcard) {
		return true
	}
	return scoped == strings.ToLower(strings.TrimSpace(actual))
}
