package service

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// QuizService grades quiz submissions and records them in the response
// ledger. Grading, persisting the response, recomputing progress and the
// completion transition commit as one transaction.
type QuizService struct {
	ContentRepo    *repository.ContentRepository
	ResponseRepo   *repository.ResponseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Progress       *ProgressService
	DB             *gorm.DB
}

func NewQuizService(
	contentRepo *repository.ContentRepository,
	responseRepo *repository.ResponseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progress *ProgressService,
	db *gorm.DB,
) *QuizService {
	return &QuizService{
		ContentRepo:    contentRepo,
		ResponseRepo:   responseRepo,
		EnrollmentRepo: enrollmentRepo,
		Progress:       progress,
		DB:             db,
	}
}

type SubmitQuizResult struct {
	Score   float64 `json:"score"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Passed  bool    `json:"passed"`
	Blocked bool    `json:"blocked"`
}

// SubmitQuiz grades the answers against the quiz's question set. A student
// who already passed gets Blocked=true and no side effects. Failing attempts
// may be retried without limit; every graded attempt appends a new response
// row.
func (s *QuizService) SubmitQuiz(studentID, contentItemID uint, answers map[uint]string) (*SubmitQuizResult, error) {
	item, err := s.ContentRepo.FindByIDWithQuestions(contentItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}
	if item.Type != model.ContentQuiz {
		return nil, util.ErrNotAQuiz
	}
	if len(item.Questions) == 0 {
		return nil, util.ErrEmptyQuiz
	}

	passed, err := s.ResponseRepo.HasPassingResponse(studentID, contentItemID)
	if err != nil {
		return nil, err
	}
	if passed {
		monitoring.QuizSubmissionCounter.WithLabelValues("blocked").Inc()
		return &SubmitQuizResult{Blocked: true}, nil
	}

	score, correct := gradeQuiz(item.Questions, answers)

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	response := &model.StudentResponse{
		StudentID:      studentID,
		ContentItemID:  contentItemID,
		Response:       string(raw),
		Score:          &score,
		Completed:      true,
		CompletionDate: &now,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ResponseRepo.Create(tx, response); err != nil {
			return err
		}

		courseID, err := s.ContentRepo.CourseID(tx, contentItemID)
		if err != nil {
			return err
		}

		// Submissions from students who are not enrolled still grade, they
		// just have no enrollment to update.
		if _, err := s.Progress.Recalculate(tx, studentID, courseID); err != nil {
			if errors.Is(err, util.ErrEnrollmentNotFound) {
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &SubmitQuizResult{
		Score:   score,
		Correct: correct,
		Total:   len(item.Questions),
		Passed:  score >= util.QuizPassingScore,
	}

	outcome := "failed"
	if result.Passed {
		outcome = "passed"
	}
	monitoring.QuizSubmissionCounter.WithLabelValues(outcome).Inc()

	return result, nil
}

// gradeQuiz scores one submission: each question is one point, awarded when
// the normalized answer matches, and the total is scaled to 0-10. No partial
// credit, no weighting.
func gradeQuiz(questions []model.QuizQuestion, answers map[uint]string) (float64, int) {
	correct := 0
	for _, q := range questions {
		answer := answers[q.ID]
		if strings.TrimSpace(answer) == "" {
			continue
		}
		if normalizeAnswer(answer) == normalizeAnswer(q.CorrectAnswer) {
			correct++
		}
	}

	score := float64(correct) / float64(len(questions)) * util.QuizScoreScale
	return score, correct
}

// normalizeAnswer trims surrounding whitespace and case-folds; answers are
// otherwise compared verbatim.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
