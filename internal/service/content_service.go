package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService manages content items and the student-facing views over
// them. Each content type renders to its own variant: text carries the body,
// video an embeddable URL, file a download URL, quiz the question list.
type ContentService struct {
	ContentRepo  *repository.ContentRepository
	ModuleRepo   *repository.ModuleRepository
	ResponseRepo *repository.ResponseRepository
	Progress     *ProgressService
	Storage      *StorageService
	Courses      *CourseService
	DB           *gorm.DB
}

func NewContentService(
	contentRepo *repository.ContentRepository,
	moduleRepo *repository.ModuleRepository,
	responseRepo *repository.ResponseRepository,
	progress *ProgressService,
	storage *StorageService,
	courses *CourseService,
	db *gorm.DB,
) *ContentService {
	return &ContentService{
		ContentRepo:  contentRepo,
		ModuleRepo:   moduleRepo,
		ResponseRepo: responseRepo,
		Progress:     progress,
		Storage:      storage,
		Courses:      courses,
		DB:           db,
	}
}

type ContentReq struct {
	Title   string            `json:"title" binding:"required"`
	Type    model.ContentType `json:"type" binding:"required"`
	Content string            `json:"content"`
}

// CreateContent creates a text or video content item. Files are created via
// UploadFileContent, quizzes via CreateQuiz.
func (s *ContentService) CreateContent(moduleID uint, req ContentReq) (*model.ContentItem, error) {
	module, err := s.moduleOf(moduleID)
	if err != nil {
		return nil, err
	}
	if req.Type != model.ContentText && req.Type != model.ContentVideo {
		return nil, fmt.Errorf("unsupported content type %q", req.Type)
	}

	order, err := s.ContentRepo.NextOrder(moduleID)
	if err != nil {
		return nil, err
	}

	item := &model.ContentItem{
		Title:    req.Title,
		Type:     req.Type,
		Content:  req.Content,
		Order:    order,
		ModuleID: moduleID,
	}
	if err := s.ContentRepo.Create(item); err != nil {
		return nil, err
	}

	s.Courses.InvalidateOutline(module.CourseID)
	return item, nil
}

// UploadFileContent stores the uploaded file and creates a file (or video)
// content item referencing it. Uploaded videos are probed for duration when
// stored locally.
func (s *ContentService) UploadFileContent(moduleID uint, title string, header *multipart.FileHeader) (*model.ContentItem, error) {
	module, err := s.moduleOf(moduleID)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Sniff the real type, the client-sent header is not trusted.
	contentType, err := util.ValidateMimeType(file, []string{
		util.MimeVideo, util.MimeImage, util.MimePDF, "text/plain",
	})
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ext := filepath.Ext(header.Filename)
	stored := fmt.Sprintf("content/%s%s", uuid.New().String(), ext)

	url, err := s.Storage.Upload(context.Background(), stored, file, header.Size, contentType)
	if err != nil {
		return nil, err
	}

	order, err := s.ContentRepo.NextOrder(moduleID)
	if err != nil {
		return nil, err
	}

	item := &model.ContentItem{
		Title:    title,
		Type:     model.ContentFile,
		FilePath: stored,
		Content:  url,
		Order:    order,
		ModuleID: moduleID,
	}

	if util.IsVideo(contentType) {
		item.Type = model.ContentVideo
		if localPath, ok := s.Storage.LocalPath(stored); ok {
			if info, err := util.GetVideoInfo(localPath); err != nil {
				logger.Log.Warn("probing uploaded video failed",
					zap.String("file", stored), zap.Error(err))
			} else {
				item.Duration = info.Duration
			}
		}
	}

	if err := s.ContentRepo.Create(item); err != nil {
		return nil, err
	}

	s.Courses.InvalidateOutline(module.CourseID)
	return item, nil
}

type QuizQuestionReq struct {
	QuestionText  string   `json:"questionText" binding:"required"`
	QuestionType  string   `json:"questionType"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
	Options       []string `json:"options"`
}

type QuizReq struct {
	Title     string            `json:"title" binding:"required"`
	Questions []QuizQuestionReq `json:"questions" binding:"required"`
}

// CreateQuiz creates a quiz content item with its question set in one
// transaction. A quiz needs a title and at least one question; multiple
// choice questions must carry options.
func (s *ContentService) CreateQuiz(moduleID uint, req QuizReq) (*model.ContentItem, error) {
	module, err := s.moduleOf(moduleID)
	if err != nil {
		return nil, err
	}
	if len(req.Questions) == 0 {
		return nil, util.ErrEmptyQuiz
	}

	order, err := s.ContentRepo.NextOrder(moduleID)
	if err != nil {
		return nil, err
	}

	quiz := &model.ContentItem{
		Title:    req.Title,
		Type:     model.ContentQuiz,
		Order:    order,
		ModuleID: moduleID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}

		for i, qReq := range req.Questions {
			questionType := qReq.QuestionType
			if questionType == "" {
				questionType = "multiple_choice"
			}
			if questionType == "multiple_choice" && len(qReq.Options) == 0 {
				return fmt.Errorf("question %d requires options", i+1)
			}

			question := &model.QuizQuestion{
				ContentItemID: quiz.ID,
				QuestionText:  qReq.QuestionText,
				QuestionType:  questionType,
				CorrectAnswer: qReq.CorrectAnswer,
			}
			if len(qReq.Options) > 0 {
				opts, err := json.Marshal(qReq.Options)
				if err != nil {
					return err
				}
				question.Options = opts
			}
			if err := tx.Create(question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Courses.InvalidateOutline(module.CourseID)
	return quiz, nil
}

// ContentView is the tagged per-type rendering of a content item.
type ContentView struct {
	ID        uint               `json:"id"`
	Title     string             `json:"title"`
	Type      model.ContentType  `json:"type"`
	Text      string             `json:"text,omitempty"`
	VideoURL  string             `json:"videoUrl,omitempty"`
	Duration  float64            `json:"duration,omitempty"`
	FileURL   string             `json:"fileUrl,omitempty"`
	Questions []QuizQuestionView `json:"questions,omitempty"`
}

// QuizQuestionView is a question as shown to the student: no correct answer.
type QuizQuestionView struct {
	ID           uint     `json:"id"`
	QuestionText string   `json:"questionText"`
	QuestionType string   `json:"questionType"`
	Options      []string `json:"options,omitempty"`
}

// GetContentView renders one content item for a student.
func (s *ContentService) GetContentView(contentItemID uint) (*ContentView, error) {
	item, err := s.ContentRepo.FindByIDWithQuestions(contentItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}

	view := &ContentView{
		ID:    item.ID,
		Title: item.Title,
		Type:  item.Type,
	}

	switch item.Type {
	case model.ContentText:
		view.Text = item.Content
	case model.ContentVideo:
		view.VideoURL = util.YouTubeEmbedURL(item.Content)
		view.Duration = item.Duration
	case model.ContentFile:
		view.FileURL = s.Storage.URL(item.FilePath)
	case model.ContentQuiz:
		view.Questions = make([]QuizQuestionView, 0, len(item.Questions))
		for _, q := range item.Questions {
			options, err := q.OptionList()
			if err != nil {
				// Corrupted stored options fail only this question's quiz.
				return nil, fmt.Errorf("%w: question %d", util.ErrMalformedOptions, q.ID)
			}
			view.Questions = append(view.Questions, QuizQuestionView{
				ID:           q.ID,
				QuestionText: q.QuestionText,
				QuestionType: q.QuestionType,
				Options:      options,
			})
		}
	}

	return view, nil
}

// MarkCompleted records a view-completion for non-quiz content and recomputes
// the student's course progress in the same transaction. Quizzes complete
// through grading only. Marking an already-completed item is a no-op.
func (s *ContentService) MarkCompleted(studentID, contentItemID uint) (*model.CourseEnrollment, error) {
	item, err := s.ContentRepo.FindByID(contentItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}
	if item.Type == model.ContentQuiz {
		return nil, util.ErrQuizNotMarkable
	}

	var enrollment *model.CourseEnrollment
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := s.ResponseRepo.FindByStudentAndContent(studentID, contentItemID)
		now := time.Now()
		switch {
		case err == nil && existing.Completed:
			// already marked, recompute anyway for idempotence
		case err == nil:
			existing.Completed = true
			existing.CompletionDate = &now
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			response := &model.StudentResponse{
				StudentID:      studentID,
				ContentItemID:  contentItemID,
				Completed:      true,
				CompletionDate: &now,
			}
			if err := s.ResponseRepo.Create(tx, response); err != nil {
				return err
			}
		default:
			return err
		}

		courseID, err := s.ContentRepo.CourseID(tx, contentItemID)
		if err != nil {
			return err
		}

		enrollment, err = s.Progress.Recalculate(tx, studentID, courseID)
		if err != nil {
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
	return enrollment, nil
}

// CourseIDOf resolves the course a content item belongs to.
func (s *ContentService) CourseIDOf(contentItemID uint) (uint, error) {
	courseID, err := s.ContentRepo.CourseID(s.DB, contentItemID)
	if err != nil {
		return 0, err
	}
	if courseID == 0 {
		return 0, util.ErrContentNotFound
	}
	return courseID, nil
}

func (s *ContentService) moduleOf(moduleID uint) (*model.CourseModule, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return module, nil
}
