package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/noah-isme/sma-standing-api/internal/models"
	appErrors "github.com/noah-isme/sma-standing-api/pkg/errors"
)

var day0 = time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)

func gradeEntry(course string, category models.Category, earned, possible float64, day int) models.AssignmentGradeEntry {
	return models.AssignmentGradeEntry{
		ID:             course + "-" + string(category) + "-" + day0.AddDate(0, 0, day).Format("0102"),
		StudentID:      "s1",
		CourseID:       course,
		TermID:         "t1",
		Category:       category,
		EarnedPoints:   earned,
		PossiblePoints: possible,
		RecordedAt:     day0.AddDate(0, 0, day),
	}
}

type fakeEntryStore struct {
	entries  []models.AssignmentGradeEntry
	inserted []models.AssignmentGradeEntry
	err      error
}

func (f *fakeEntryStore) ListByStudentTerm(ctx context.Context, studentID, termID string) ([]models.AssignmentGradeEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.AssignmentGradeEntry
	for _, e := range f.entries {
		if e.StudentID == studentID && e.TermID == termID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryStore) ListByCourse(ctx context.Context, studentID, termID, courseID string) ([]models.AssignmentGradeEntry, error) {
	all, err := f.ListByStudentTerm(ctx, studentID, termID)
	if err != nil {
		return nil, err
	}
	var out []models.AssignmentGradeEntry
	for _, e := range all {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryStore) Insert(ctx context.Context, entry *models.AssignmentGradeEntry) error {
	if f.err != nil {
		return f.err
	}
	entry.ID = "new-entry"
	f.inserted = append(f.inserted, *entry)
	return nil
}

type fakeWeightStore struct {
	configs  map[string]models.CategoryWeightConfig
	replaced []models.CategoryWeightConfig
}

func (f *fakeWeightStore) FindByCourse(ctx context.Context, courseID string) (models.CategoryWeightConfig, error) {
	cfg, ok := f.configs[courseID]
	if !ok {
		return models.CategoryWeightConfig{}, sql.ErrNoRows
	}
	return cfg, nil
}

func (f *fakeWeightStore) FindByCourses(ctx context.Context, courseIDs []string) (map[string]models.CategoryWeightConfig, error) {
	out := make(map[string]models.CategoryWeightConfig)
	for _, id := range courseIDs {
		if cfg, ok := f.configs[id]; ok {
			out[id] = cfg
		}
	}
	return out, nil
}

func (f *fakeWeightStore) Replace(ctx context.Context, cfg models.CategoryWeightConfig) error {
	f.replaced = append(f.replaced, cfg)
	return nil
}

type fakeCourseReader struct {
	courses []models.Course
}

func (f *fakeCourseReader) ListForStudent(ctx context.Context, studentID, termID string) ([]models.Course, error) {
	return f.courses, nil
}

func (f *fakeCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			course := c
			return &course, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeAttendance struct {
	counts models.AttendanceCounts
}

func (f *fakeAttendance) CountsByStudent(ctx context.Context, studentID, termID string) (models.AttendanceCounts, error) {
	return f.counts, nil
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []string
}

func (f *fakeScheduler) Schedule(studentID, termID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, studentID+":"+termID)
}

// memoryCache is an in-process CacheRepository storing JSON like Redis does.
type memoryCache struct {
	mu          sync.Mutex
	items       map[string][]byte
	invalidated []string
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, pattern)
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
		}
	}
	return nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}
