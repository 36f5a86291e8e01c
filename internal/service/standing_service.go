package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-standing-api/internal/dto"
	"github.com/noah-isme/sma-standing-api/internal/models"
	appErrors "github.com/noah-isme/sma-standing-api/pkg/errors"
	"github.com/noah-isme/sma-standing-api/pkg/grading"
)

type gradeEntryStore interface {
	ListByStudentTerm(ctx context.Context, studentID, termID string) ([]models.AssignmentGradeEntry, error)
	ListByCourse(ctx context.Context, studentID, termID, courseID string) ([]models.AssignmentGradeEntry, error)
	Insert(ctx context.Context, entry *models.AssignmentGradeEntry) error
}

type categoryWeightStore interface {
	FindByCourse(ctx context.Context, courseID string) (models.CategoryWeightConfig, error)
	FindByCourses(ctx context.Context, courseIDs []string) (map[string]models.CategoryWeightConfig, error)
	Replace(ctx context.Context, cfg models.CategoryWeightConfig) error
}

type courseReader interface {
	ListForStudent(ctx context.Context, studentID, termID string) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type attendanceCounter interface {
	CountsByStudent(ctx context.Context, studentID, termID string) (models.AttendanceCounts, error)
}

type refreshScheduler interface {
	Schedule(studentID, termID string)
}

// StandingServiceConfig tunes caching and fan-out.
type StandingServiceConfig struct {
	CacheTTL    time.Duration
	Concurrency int
}

// StandingServiceParams groups constructor dependencies.
type StandingServiceParams struct {
	Entries    gradeEntryStore
	Weights    categoryWeightStore
	Courses    courseReader
	Attendance attendanceCounter
	Engine     *grading.Engine
	Cache      *CacheService
	Metrics    *MetricsService
	Validator  *validator.Validate
	Logger     *zap.Logger
	Config     StandingServiceConfig
}

// StandingService loads grade book data and turns it into standings.
type StandingService struct {
	entries    gradeEntryStore
	weights    categoryWeightStore
	courses    courseReader
	attendance attendanceCounter
	engine     *grading.Engine
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	refresher  refreshScheduler
	now        func() time.Time
	cfg        StandingServiceConfig
}

// NewStandingService constructs a StandingService with sane defaults.
func NewStandingService(params StandingServiceParams) *StandingService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	engine := params.Engine
	if engine == nil {
		engine = grading.DefaultEngine()
	}
	v := params.Validator
	if v == nil {
		v = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &StandingService{
		entries:    params.Entries,
		weights:    params.Weights,
		courses:    params.Courses,
		attendance: params.Attendance,
		engine:     engine,
		cache:      params.Cache,
		metrics:    params.Metrics,
		validator:  v,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
	svc.validator.RegisterValidation("grade_category", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseCategory(fl.Field().String())
		return ok
	})
	return svc
}

// UseRefresher wires the background refresher notified after writes.
func (s *StandingService) UseRefresher(r refreshScheduler) {
	s.refresher = r
}

// Summary returns every course standing, the GPA and the attendance rate of a
// student in a term. The bool reports whether the payload came from cache.
func (s *StandingService) Summary(ctx context.Context, studentID, termID string) (*dto.StandingResponse, bool, error) {
	if err := requireIDs(studentID, termID); err != nil {
		return nil, false, err
	}
	key := StandingSummaryKey(studentID, termID)
	var cached dto.StandingResponse
	if hit, err := s.tryCache(ctx, key, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	gen := s.cache.Generation()
	summary, err := s.Compute(ctx, studentID, termID)
	if err != nil {
		return nil, false, err
	}
	s.persistCache(ctx, key, summary, gen)
	return summary, false, nil
}

// Compute builds the summary from the database, bypassing the cache.
func (s *StandingService) Compute(ctx context.Context, studentID, termID string) (*dto.StandingResponse, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveComputation("summary", time.Since(start)) }()

	var (
		courses []models.Course
		entries []models.AssignmentGradeEntry
		counts  models.AttendanceCounts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer s.timeQuery("courses")()
		var err error
		courses, err = s.courses.ListForStudent(gctx, studentID, termID)
		return err
	})
	g.Go(func() error {
		defer s.timeQuery("grade_entries")()
		var err error
		entries, err = s.entries.ListByStudentTerm(gctx, studentID, termID)
		return err
	})
	g.Go(func() error {
		defer s.timeQuery("attendance")()
		var err error
		counts, err = s.attendance.CountsByStudent(gctx, studentID, termID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load standing data")
	}

	courseIDs := make([]string, len(courses))
	for i, c := range courses {
		courseIDs[i] = c.ID
	}
	done := s.timeQuery("category_weights")
	configs, err := s.weights.FindByCourses(ctx, courseIDs)
	done()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category weights")
	}

	byCourse := make(map[string][]models.AssignmentGradeEntry, len(courses))
	for _, e := range entries {
		byCourse[e.CourseID] = append(byCourse[e.CourseID], e)
	}

	results := make([]models.CourseGradeResult, len(courses))
	cg, _ := errgroup.WithContext(ctx)
	cg.SetLimit(s.cfg.Concurrency)
	for i := range courses {
		i := i
		cg.Go(func() error {
			result, err := s.composeCourse(courses[i], byCourse[courses[i].ID], configs[courses[i].ID])
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := cg.Wait(); err != nil {
		return nil, err
	}

	if orphans := len(entries) - countEntries(byCourse, courseIDs); orphans > 0 {
		s.logger.Debug("grade entries outside enrolled courses ignored",
			zap.String("student_id", studentID), zap.String("term_id", termID), zap.Int("entries", orphans))
	}

	return &dto.StandingResponse{
		StudentID:   studentID,
		TermID:      termID,
		Courses:     results,
		GPA:         s.engine.ComposeGPA(results),
		Attendance:  grading.SummarizeAttendance(counts),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// Course returns the standing of a single course.
func (s *StandingService) Course(ctx context.Context, studentID, termID, courseID string) (*models.CourseGradeResult, bool, error) {
	if err := requireIDs(studentID, termID); err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(courseID) == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "courseId is required")
	}
	key := StandingCourseKey(studentID, termID, courseID)
	var cached models.CourseGradeResult
	if hit, err := s.tryCache(ctx, key, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	gen := s.cache.Generation()
	start := time.Now()
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	entries, err := s.entries.ListByCourse(ctx, studentID, termID, courseID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade entries")
	}
	cfg, err := s.weights.FindByCourse(ctx, courseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category weights")
	}

	result, err := s.composeCourse(*course, entries, cfg)
	if err != nil {
		return nil, false, err
	}
	s.metrics.ObserveComputation("course", time.Since(start))
	s.persistCache(ctx, key, result, gen)
	return &result, false, nil
}

// RecordEntry validates and stores a new graded item, then invalidates the
// student's cached standing for the term.
func (s *StandingService) RecordEntry(ctx context.Context, req dto.RecordEntryRequest) (*models.AssignmentGradeEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade entry payload")
	}
	category, _ := models.ParseCategory(req.Category)
	entry := &models.AssignmentGradeEntry{
		StudentID:      req.StudentID,
		CourseID:       req.CourseID,
		TermID:         req.TermID,
		Category:       category,
		Title:          strings.TrimSpace(req.Title),
		EarnedPoints:   *req.EarnedPoints,
		PossiblePoints: req.PossiblePoints,
	}
	if req.RecordedAt != nil {
		entry.RecordedAt = req.RecordedAt.UTC()
	} else {
		entry.RecordedAt = s.now().UTC()
	}
	if reason := grading.CheckEntry(*entry); reason != "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidEntry, reason)
	}

	if _, err := s.courses.FindByID(ctx, entry.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.entries.Insert(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade entry")
	}

	s.invalidate(ctx, StandingPattern(entry.StudentID, entry.TermID))
	if s.refresher != nil {
		s.refresher.Schedule(entry.StudentID, entry.TermID)
	}
	s.logger.Info("grade entry recorded",
		zap.String("entry_id", entry.ID),
		zap.String("student_id", entry.StudentID),
		zap.String("course_id", entry.CourseID),
		zap.String("category", string(entry.Category)))
	return entry, nil
}

// UpdateWeights replaces a course's category weights. Every cached standing is
// dropped because any student enrolled in the course may be affected.
func (s *StandingService) UpdateWeights(ctx context.Context, courseID string, req dto.UpdateWeightsRequest) (*models.CategoryWeightConfig, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, "invalid category weights")
	}

	cfg := models.CategoryWeightConfig{CourseID: courseID, Weights: make(map[models.Category]float64, len(req.Weights))}
	total := 0.0
	for raw, weight := range req.Weights {
		category, _ := models.ParseCategory(raw)
		if _, dup := cfg.Weights[category]; dup {
			return nil, appErrors.Clone(appErrors.ErrInvalidWeights, fmt.Sprintf("category %s is listed more than once", category))
		}
		cfg.Weights[category] = weight
		total += weight
	}
	if err := grading.ValidateWeights(cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, err.Error())
	}
	if total <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidWeights, "at least one category weight must be positive")
	}

	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.weights.Replace(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save category weights")
	}

	s.invalidate(ctx, StandingPattern("", ""))
	s.logger.Info("category weights updated", zap.String("course_id", courseID), zap.Any("weights", cfg.Weights))
	return &cfg, nil
}

func (s *StandingService) composeCourse(course models.Course, entries []models.AssignmentGradeEntry, cfg models.CategoryWeightConfig) (models.CourseGradeResult, error) {
	result, err := s.engine.ComposeCourse(course.ID, entries, cfg)
	var invalid *grading.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &invalid):
		s.metrics.AddRejectedEntries(len(invalid.Rejected))
		s.logger.Warn("grade entries rejected",
			zap.String("course_id", course.ID),
			zap.Int("rejected", len(invalid.Rejected)),
			zap.Error(err))
	case errors.Is(err, grading.ErrInvalidWeights):
		return result, appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status,
			fmt.Sprintf("course %s has invalid category weights", course.ID))
	default:
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute course standing")
	}
	result.CourseName = course.Name
	result.CreditHours = course.CreditHours
	return result, nil
}

func (s *StandingService) tryCache(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		// cache errors degrade to a miss
		return false, nil
	}
	return hit, nil
}

func (s *StandingService) persistCache(ctx context.Context, key string, value interface{}, gen uint64) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.SetIfCurrent(ctx, key, value, s.cfg.CacheTTL, gen); err != nil {
		s.logger.Warn("standing cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *StandingService) invalidate(ctx context.Context, pattern string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("standing cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (s *StandingService) timeQuery(label string) func() {
	start := time.Now()
	return func() { s.metrics.ObserveDBQuery(label, time.Since(start)) }
}

func requireIDs(studentID, termID string) error {
	if strings.TrimSpace(studentID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	if strings.TrimSpace(termID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "termId is required")
	}
	return nil
}

func countEntries(byCourse map[string][]models.AssignmentGradeEntry, courseIDs []string) int {
	n := 0
	for _, id := range courseIDs {
		n += len(byCourse[id])
	}
	return n
}
