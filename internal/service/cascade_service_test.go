package service

import (
	"testing"

	"elearning_backend/internal/model"
	"elearning_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) count(t *testing.T, entity interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(entity).Count(&n).Error)
	return n
}

func TestDeleteCoursePurgesEverything(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	text := env.seedText(t, module.ID, "Reading")
	quiz := env.seedQuiz(t, module.ID, "a", "b")
	env.enroll(t, 10, course.ID)
	env.enroll(t, 11, course.ID)

	_, err := env.contentSvc.MarkCompleted(10, text.ID)
	require.NoError(t, err)
	_, err = env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a", "b"))
	require.NoError(t, err)

	require.NoError(t, env.cascade.DeleteCourse(course.ID))

	assert.Zero(t, env.count(t, &model.Course{}))
	assert.Zero(t, env.count(t, &model.CourseModule{}))
	assert.Zero(t, env.count(t, &model.ContentItem{}))
	assert.Zero(t, env.count(t, &model.QuizQuestion{}))
	assert.Zero(t, env.count(t, &model.StudentResponse{}))
	assert.Zero(t, env.count(t, &model.CourseEnrollment{}))
}

func TestDeleteCourseUnknown(t *testing.T) {
	env := newTestEnv(t)
	assert.ErrorIs(t, env.cascade.DeleteCourse(999), util.ErrCourseNotFound)
}

func TestDeleteModuleShrinksDenominator(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	keep := env.seedModule(t, course.ID)
	doomed := env.seedModule(t, course.ID)

	a := env.seedText(t, keep.ID, "A")
	env.seedText(t, keep.ID, "B")
	env.seedText(t, keep.ID, "C")
	b := env.seedText(t, doomed.ID, "D")
	env.seedText(t, doomed.ID, "E")

	env.enroll(t, 10, course.ID)
	_, err := env.contentSvc.MarkCompleted(10, a.ID)
	require.NoError(t, err)
	_, err = env.contentSvc.MarkCompleted(10, b.ID)
	require.NoError(t, err)

	enrollment, err := env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	require.Equal(t, 40.0, enrollment.Progress) // 2 of 5

	require.NoError(t, env.cascade.DeleteModule(doomed.ID))

	enrollment, err = env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.33, enrollment.Progress) // 1 of 3

	// the deleted module's responses are gone with it
	var orphaned int64
	require.NoError(t, env.db.Model(&model.StudentResponse{}).
		Where("content_item_id = ?", b.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}

func TestDeleteModuleCanCompleteCourse(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	keep := env.seedModule(t, course.ID)
	doomed := env.seedModule(t, course.ID)

	done := env.seedText(t, keep.ID, "Done")
	env.seedText(t, doomed.ID, "Never started")

	env.enroll(t, 10, course.ID)
	_, err := env.contentSvc.MarkCompleted(10, done.ID)
	require.NoError(t, err)

	// removing the untouched half pushes the student to 100
	require.NoError(t, env.cascade.DeleteModule(doomed.ID))

	enrollment, err := env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, enrollment.Progress)
	assert.True(t, enrollment.Completed)
	assert.NotNil(t, enrollment.CompletionDate)
}

func TestDeleteContentItemRecomputes(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	done := env.seedText(t, module.ID, "Done")
	extra := env.seedText(t, module.ID, "Extra")

	env.enroll(t, 10, course.ID)
	_, err := env.contentSvc.MarkCompleted(10, done.ID)
	require.NoError(t, err)

	require.NoError(t, env.cascade.DeleteContentItem(extra.ID))

	enrollment, err := env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, enrollment.Progress)
	assert.True(t, enrollment.Completed)
}

func TestDeleteQuizRemovesQuestionsAndResponses(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "a", "b")
	env.enroll(t, 10, course.ID)

	_, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a", "wrong"))
	require.NoError(t, err)

	require.NoError(t, env.cascade.DeleteContentItem(quiz.ID))

	assert.Zero(t, env.count(t, &model.QuizQuestion{}))
	assert.Zero(t, env.count(t, &model.StudentResponse{}))
	assert.Zero(t, env.count(t, &model.ContentItem{}))
}
