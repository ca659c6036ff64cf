package service

import (
	"testing"

	"elearning_backend/internal/model"
	"elearning_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndUpdateCourse(t *testing.T) {
	env := newTestEnv(t)

	course, err := env.course.CreateCourse(1, CourseReq{Name: "Go 101", Description: "intro"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), course.InstructorID)

	updated, err := env.course.UpdateCourse(course.ID, 1, CourseReq{Name: "Go 102", Description: "intermediate"})
	require.NoError(t, err)
	assert.Equal(t, "Go 102", updated.Name)
}

func TestUpdateCourseRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)

	_, err := env.course.UpdateCourse(course.ID, 2, CourseReq{Name: "Hijack", Description: "nope"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestGetOutlineOrdersModulesAndItems(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	m1 := env.seedModule(t, course.ID)
	m2 := env.seedModule(t, course.ID)
	env.seedText(t, m1.ID, "A")
	env.seedText(t, m1.ID, "B")
	env.seedText(t, m2.ID, "C")

	outline, err := env.course.GetOutline(course.ID, 0)
	require.NoError(t, err)

	require.Len(t, outline.Modules, 2)
	assert.Equal(t, m1.ID, outline.Modules[0].ID)
	assert.Equal(t, m2.ID, outline.Modules[1].ID)
	assert.Equal(t, 3, outline.TotalItems)
	require.Len(t, outline.Modules[0].Items, 2)
	assert.Equal(t, "A", outline.Modules[0].Items[0].Title)
}

func TestGetOutlineOverlaysCompletion(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	done := env.seedText(t, module.ID, "Done")
	env.seedText(t, module.ID, "Pending")
	env.enroll(t, 10, course.ID)

	_, err := env.contentSvc.MarkCompleted(10, done.ID)
	require.NoError(t, err)

	outline, err := env.course.GetOutline(course.ID, 10)
	require.NoError(t, err)

	items := outline.Modules[0].Items
	require.Len(t, items, 2)
	assert.True(t, items[0].Completed)
	assert.False(t, items[1].Completed)
}

func TestGetOutlineUnknownCourse(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.course.GetOutline(999, 0)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "a", "b")
	env.enroll(t, 10, course.ID)
	env.enroll(t, 11, course.ID)

	// student 10 passes, student 11 fails once
	_, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a", "b"))
	require.NoError(t, err)
	_, err = env.quiz.SubmitQuiz(11, quiz.ID, env.quizAnswers(t, quiz.ID, "a", "wrong"))
	require.NoError(t, err)

	stats, err := env.course.GetStats(course.ID, 1)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.Enrollments)
	assert.EqualValues(t, 2, stats.Completed) // the quiz is the only content
	assert.Equal(t, 100.0, stats.AverageProgress)
	assert.Equal(t, 7.5, stats.AverageScore) // (10 + 5) / 2
}

func TestGetStatsRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)

	_, err := env.course.GetStats(course.ID, 2)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestModuleOrderIsSequential(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)

	first, err := env.module.CreateModule(course.ID, ModuleReq{Title: "Week 1"})
	require.NoError(t, err)
	second, err := env.module.CreateModule(course.ID, ModuleReq{Title: "Week 2"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)

	other := &model.Course{Name: "Other", InstructorID: 1}
	require.NoError(t, env.courses.Create(other))
	independent, err := env.module.CreateModule(other.ID, ModuleReq{Title: "Week 1"})
	require.NoError(t, err)
	assert.Equal(t, 1, independent.Order)
}
