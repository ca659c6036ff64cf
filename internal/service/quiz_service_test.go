package service

import (
	"testing"

	"elearning_backend/internal/model"
	"elearning_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitQuizScoresOnTenPointScale(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "a", "b", "c", "d")
	env.enroll(t, 10, course.ID)

	result, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a", "b", "c", "wrong"))
	require.NoError(t, err)

	assert.Equal(t, 7.5, result.Score)
	assert.Equal(t, 3, result.Correct)
	assert.Equal(t, 4, result.Total)
	assert.True(t, result.Passed)
	assert.False(t, result.Blocked)
}

func TestSubmitQuizNormalizesAnswers(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "Paris")
	env.enroll(t, 10, course.ID)

	result, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "  pArIs  "))
	require.NoError(t, err)

	assert.Equal(t, 10.0, result.Score)
	assert.True(t, result.Passed)
}

func TestSubmitQuizUnansweredQuestionsAreWrong(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "a", "b", "c")
	env.enroll(t, 10, course.ID)

	// only the first question answered
	result, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Correct)
	assert.InDelta(t, 10.0/3.0, result.Score, 0.0001)
	assert.False(t, result.Passed)
}

func TestSubmitQuizBlocksAfterPass(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "a", "b")
	env.enroll(t, 10, course.ID)

	first, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a", "b"))
	require.NoError(t, err)
	require.True(t, first.Passed)

	second, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a", "b"))
	require.NoError(t, err)
	assert.True(t, second.Blocked)
	assert.Zero(t, second.Score)

	// the blocked attempt must not add a response row
	var count int64
	require.NoError(t, env.db.Model(&model.StudentResponse{}).
		Where("student_id = ? AND content_item_id = ?", 10, quiz.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitQuizFailedAttemptsAppend(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "a", "b")
	env.enroll(t, 10, course.ID)

	for i := 0; i < 3; i++ {
		result, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a", "wrong"))
		require.NoError(t, err)
		assert.False(t, result.Passed)
		assert.False(t, result.Blocked)
	}

	var count int64
	require.NoError(t, env.db.Model(&model.StudentResponse{}).
		Where("student_id = ? AND content_item_id = ?", 10, quiz.ID).
		Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestSubmitQuizRejectsNonQuizContent(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	text := env.seedText(t, module.ID, "Reading")

	_, err := env.quiz.SubmitQuiz(10, text.ID, map[uint]string{})
	assert.ErrorIs(t, err, util.ErrNotAQuiz)
}

func TestSubmitQuizRejectsEmptyQuiz(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)

	quiz := &model.ContentItem{Title: "Draft", Type: model.ContentQuiz, ModuleID: module.ID}
	require.NoError(t, env.content.Create(quiz))

	_, err := env.quiz.SubmitQuiz(10, quiz.ID, map[uint]string{})
	assert.ErrorIs(t, err, util.ErrEmptyQuiz)
}

func TestSubmitQuizMissingContent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.quiz.SubmitQuiz(10, 999, map[uint]string{})
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}

func TestSubmitQuizWithoutEnrollmentStillGrades(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "a")

	result, err := env.quiz.SubmitQuiz(42, quiz.ID, env.quizAnswers(t, quiz.ID, "a"))
	require.NoError(t, err)
	assert.True(t, result.Passed)

	// no enrollment row materializes as a side effect
	var count int64
	require.NoError(t, env.db.Model(&model.CourseEnrollment{}).
		Where("student_id = ?", 42).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitQuizUpdatesProgress(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	env.seedText(t, module.ID, "Reading")
	quiz := env.seedQuiz(t, module.ID, "a")
	env.enroll(t, 10, course.ID)

	_, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a"))
	require.NoError(t, err)

	enrollment, err := env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, enrollment.Progress)
	assert.False(t, enrollment.Completed)
}
