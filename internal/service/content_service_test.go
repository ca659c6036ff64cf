package service

import (
	"encoding/json"
	"testing"

	"elearning_backend/internal/model"
	"elearning_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContentAssignsOrder(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)

	first, err := env.contentSvc.CreateContent(module.ID, ContentReq{
		Title: "Lecture 1", Type: model.ContentText, Content: "notes",
	})
	require.NoError(t, err)
	second, err := env.contentSvc.CreateContent(module.ID, ContentReq{
		Title: "Lecture 2", Type: model.ContentText, Content: "more notes",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)
}

func TestCreateContentUnknownModule(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.contentSvc.CreateContent(999, ContentReq{
		Title: "Lecture", Type: model.ContentText, Content: "notes",
	})
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

func TestCreateQuizWithQuestions(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)

	quiz, err := env.contentSvc.CreateQuiz(module.ID, QuizReq{
		Title: "Checkpoint",
		Questions: []QuizQuestionReq{
			{QuestionText: "2+2?", CorrectAnswer: "4", Options: []string{"3", "4"}},
			{QuestionText: "Capital of France?", QuestionType: "short_answer", CorrectAnswer: "Paris"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ContentQuiz, quiz.Type)

	questions, err := env.content.ListQuestions(quiz.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "multiple_choice", questions[0].QuestionType)
	assert.Equal(t, "short_answer", questions[1].QuestionType)
}

func TestCreateQuizRequiresQuestions(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)

	_, err := env.contentSvc.CreateQuiz(module.ID, QuizReq{Title: "Empty"})
	assert.Error(t, err)
}

func TestContentViewHidesCorrectAnswers(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "secret")

	view, err := env.contentSvc.GetContentView(quiz.ID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 1)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctAnswer")
	assert.Contains(t, view.Questions[0].Options, "secret")
	assert.Contains(t, view.Questions[0].Options, "wrong")
}

func TestContentViewEmbedsYouTube(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)

	video, err := env.contentSvc.CreateContent(module.ID, ContentReq{
		Title: "Intro video", Type: model.ContentVideo,
		Content: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	view, err := env.contentSvc.GetContentView(video.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", view.VideoURL)
}

func TestContentViewMalformedOptions(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)

	quiz := &model.ContentItem{Title: "Broken", Type: model.ContentQuiz, ModuleID: module.ID}
	require.NoError(t, env.content.Create(quiz))
	require.NoError(t, env.content.CreateQuestion(&model.QuizQuestion{
		ContentItemID: quiz.ID,
		QuestionText:  "q",
		CorrectAnswer: "a",
		Options:       json.RawMessage(`{not json`),
	}))

	_, err := env.contentSvc.GetContentView(quiz.ID)
	assert.ErrorIs(t, err, util.ErrMalformedOptions)
}

func TestMalformedOptionsDoNotBreakGrading(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)

	quiz := &model.ContentItem{Title: "Broken options", Type: model.ContentQuiz, ModuleID: module.ID}
	require.NoError(t, env.content.Create(quiz))
	require.NoError(t, env.content.CreateQuestion(&model.QuizQuestion{
		ContentItemID: quiz.ID,
		QuestionText:  "q",
		CorrectAnswer: "a",
		Options:       json.RawMessage(`{not json`),
	}))
	env.enroll(t, 10, course.ID)

	// grading compares answer text only, stored options are never parsed
	result, err := env.quiz.SubmitQuiz(10, quiz.ID, env.quizAnswers(t, quiz.ID, "a"))
	require.NoError(t, err)
	assert.True(t, result.Passed)
}

func TestMarkCompletedRejectsQuiz(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, 1)
	module := env.seedModule(t, course.ID)
	quiz := env.seedQuiz(t, module.ID, "a")
	env.enroll(t, 10, course.ID)

	_, err := env.contentSvc.MarkCompleted(10, quiz.ID)
	assert.ErrorIs(t, err, util.ErrQuizNotMarkable)
}

func TestMarkCompletedUnknownContent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.contentSvc.MarkCompleted(10, 999)
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}
