package service

import (
	"testing"

	"elearning_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressZeroContentCourse(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	env.seedModule(t, course.ID)
	env.enroll(t, 10, course.ID)

	enrollment, err := env.progress.RecomputeProgress(10, course.ID)
	require.NoError(t, err)

	assert.Equal(t, 0.0, enrollment.Progress)
	assert.False(t, enrollment.Completed)
	assert.Nil(t, enrollment.CompletionDate)
}

func TestProgressPartialCompletion(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	first := env.seedText(t, module.ID, "One")
	env.seedText(t, module.ID, "Two")
	env.seedText(t, module.ID, "Three")
	env.enroll(t, 10, course.ID)

	_, err := env.contentSvc.MarkCompleted(10, first.ID)
	require.NoError(t, err)

	enrollment, err := env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.33, enrollment.Progress)
	assert.False(t, enrollment.Completed)
}

func TestProgressSpansModules(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	m1 := env.seedModule(t, course.ID)
	m2 := env.seedModule(t, course.ID)
	a := env.seedText(t, m1.ID, "A")
	env.seedText(t, m1.ID, "B")
	env.seedText(t, m2.ID, "C")
	env.seedText(t, m2.ID, "D")
	env.enroll(t, 10, course.ID)

	_, err := env.contentSvc.MarkCompleted(10, a.ID)
	require.NoError(t, err)

	enrollment, err := env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, enrollment.Progress)
}

func TestProgressFullCompletionStampsDate(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	text := env.seedText(t, module.ID, "Reading")
	quiz := env.seedQuiz(t, module.ID, "a")
	env.enroll(t, 10, course.ID)

	_, err := env.contentSvc.MarkCompleted(10, text.ID)
	require.NoError(t, err)
	_, err = env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a"))
	require.NoError(t, err)

	enrollment, err := env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, enrollment.Progress)
	assert.True(t, enrollment.Completed)
	require.NotNil(t, enrollment.CompletionDate)
}

func TestProgressRecomputeIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	text := env.seedText(t, module.ID, "Reading")
	env.enroll(t, 10, course.ID)

	_, err := env.contentSvc.MarkCompleted(10, text.ID)
	require.NoError(t, err)

	first, err := env.progress.RecomputeProgress(10, course.ID)
	require.NoError(t, err)
	firstDate := first.CompletionDate
	require.NotNil(t, firstDate)

	second, err := env.progress.RecomputeProgress(10, course.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, first.Completed, second.Completed)
	// an already-stamped completion keeps its original date
	require.NotNil(t, second.CompletionDate)
	assert.True(t, firstDate.Equal(*second.CompletionDate))
}

func TestProgressCompletionRevertsWhenContentAdded(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	text := env.seedText(t, module.ID, "Reading")
	env.enroll(t, 10, course.ID)

	_, err := env.contentSvc.MarkCompleted(10, text.ID)
	require.NoError(t, err)

	enrollment, err := env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	require.True(t, enrollment.Completed)

	// new content dilutes progress below 100
	env.seedText(t, module.ID, "Addendum")

	enrollment, err = env.progress.RecomputeProgress(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, enrollment.Progress)
	assert.False(t, enrollment.Completed)
	assert.Nil(t, enrollment.CompletionDate)
}

func TestProgressRepeatMarksCountOnce(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	text := env.seedText(t, module.ID, "Reading")
	env.seedText(t, module.ID, "Other")
	env.enroll(t, 10, course.ID)

	for i := 0; i < 3; i++ {
		_, err := env.contentSvc.MarkCompleted(10, text.ID)
		require.NoError(t, err)
	}

	enrollment, err := env.enrollments.FindByStudentAndCourse(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, enrollment.Progress)
}

func TestProgressUnknownEnrollment(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)

	_, err := env.progress.RecomputeProgress(10, course.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}
