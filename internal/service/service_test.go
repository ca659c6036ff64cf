package service

import (
	"encoding/json"
	"testing"

	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the full service graph against an in-memory database. Redis
// is nil, so the outline cache degrades to direct reads.
type testEnv struct {
	db *gorm.DB

	courses     *repository.CourseRepository
	modules     *repository.ModuleRepository
	content     *repository.ContentRepository
	enrollments *repository.EnrollmentRepository
	responses   *repository.ResponseRepository

	progress   *ProgressService
	quiz       *QuizService
	enrollment *EnrollmentService
	cascade    *CascadeService
	course     *CourseService
	module     *ModuleService
	contentSvc *ContentService
	sweep      *SweepService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// the in-memory database disappears with its last connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Course{},
		&model.CourseModule{},
		&model.ContentItem{},
		&model.QuizQuestion{},
		&model.CourseEnrollment{},
		&model.StudentResponse{},
	))

	env := &testEnv{
		db:          db,
		courses:     repository.NewCourseRepository(db),
		modules:     repository.NewModuleRepository(db),
		content:     repository.NewContentRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		responses:   repository.NewResponseRepository(db),
	}

	env.course = NewCourseService(env.courses, env.enrollments, env.responses, nil)
	env.progress = NewProgressService(env.enrollments, env.courses, env.responses, db)
	env.module = NewModuleService(env.modules, env.course)
	env.contentSvc = NewContentService(env.content, env.modules, env.responses, env.progress, nil, env.course, db)
	env.quiz = NewQuizService(env.content, env.responses, env.enrollments, env.progress, db)
	env.enrollment = NewEnrollmentService(env.enrollments, env.courses)
	env.cascade = NewCascadeService(env.courses, env.modules, env.content, env.enrollments, env.progress, env.course, db)
	env.sweep = NewSweepService(env.enrollments, env.responses, env.progress, db)

	return env
}

func (e *testEnv) seedCourse(t *testing.T, instructorID uint) *model.Course {
	t.Helper()
	course := &model.Course{Name: "Intro to Databases", Description: "fundamentals", InstructorID: instructorID}
	require.NoError(t, e.courses.Create(course))
	return course
}

func (e *testEnv) seedModule(t *testing.T, courseID uint) *model.CourseModule {
	t.Helper()
	order, err := e.modules.NextOrder(courseID)
	require.NoError(t, err)
	module := &model.CourseModule{Title: "Week 1", CourseID: courseID, Order: order}
	require.NoError(t, e.modules.Create(module))
	return module
}

func (e *testEnv) seedText(t *testing.T, moduleID uint, title string) *model.ContentItem {
	t.Helper()
	item := &model.ContentItem{Title: title, Type: model.ContentText, Content: "lecture notes", ModuleID: moduleID}
	require.NoError(t, e.content.Create(item))
	return item
}

// seedQuiz creates a quiz where every question's correct answer is the
// matching entry of answers.
func (e *testEnv) seedQuiz(t *testing.T, moduleID uint, answers ...string) *model.ContentItem {
	t.Helper()
	item := &model.ContentItem{Title: "Checkpoint Quiz", Type: model.ContentQuiz, ModuleID: moduleID}
	require.NoError(t, e.content.Create(item))

	for _, answer := range answers {
		opts, err := json.Marshal([]string{answer, "wrong"})
		require.NoError(t, err)
		q := &model.QuizQuestion{
			ContentItemID: item.ID,
			QuestionText:  "question",
			QuestionType:  "multiple_choice",
			CorrectAnswer: answer,
			Options:       opts,
		}
		require.NoError(t, e.content.CreateQuestion(q))
	}
	return item
}

func (e *testEnv) enroll(t *testing.T, studentID, courseID uint) *model.CourseEnrollment {
	t.Helper()
	result, err := e.enrollment.Enroll(studentID, courseID)
	require.NoError(t, err)
	require.True(t, result.Created)
	return result.Enrollment
}

// quizAnswers maps the quiz's questions, in creation order, to the given
// answer strings.
func (e *testEnv) quizAnswers(t *testing.T, quizID uint, given ...string) map[uint]string {
	t.Helper()
	questions, err := e.content.ListQuestions(quizID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(questions), len(given))

	answers := make(map[uint]string, len(given))
	for i, answer := range given {
		answers[questions[i].ID] = answer
	}
	return answers
}
