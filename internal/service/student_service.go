package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records/internal/models"
	appErrors "github.com/noah-isme/student-records/pkg/errors"
)

// DefaultStorageKey is the blob key the collection is saved under.
const DefaultStorageKey = "student_data_manager_students"

type blobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

// StudentServiceOptions tunes persistence for a StudentService.
type StudentServiceOptions struct {
	Key     string
	Timeout time.Duration
}

// StudentService owns the in-memory student collection and keeps the blob
// store in step with it. It is not safe for concurrent use: callers drive it
// one operation at a time.
//
// Storage failures are logged and counted, never returned; the in-memory
// collection stays authoritative and the next successful mutation saves again.
type StudentService struct {
	store     blobStore
	key       string
	timeout   time.Duration
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time

	students []models.Student
}

// NewStudentService constructs the student service. A nil store keeps the
// collection in memory only.
func NewStudentService(store blobStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, opts StudentServiceOptions) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterTagNameFunc(jsonFieldName)
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Key == "" {
		opts.Key = DefaultStorageKey
	}
	return &StudentService{
		store:     store,
		key:       opts.Key,
		timeout:   opts.Timeout,
		validator: validate,
		metrics:   metrics,
		logger:    logger.With(zap.String("session_id", uuid.NewString())),
		now:       time.Now,
		students:  []models.Student{},
	}
}

// Init seeds the session. A non-empty collection in the store wins; otherwise
// initial is used and written back. It reports whether the store was used.
func (s *StudentService) Init(ctx context.Context, initial []models.Student) bool {
	if stored, ok := s.load(ctx); ok && len(stored) > 0 {
		s.students = stored
		s.metrics.SetCollectionSize(len(s.students))
		s.logger.Info("students loaded from storage", zap.Int("count", len(stored)))
		return true
	}

	s.students = append([]models.Student{}, initial...)
	s.metrics.SetCollectionSize(len(s.students))
	if len(s.students) > 0 {
		s.persist(ctx)
	}
	s.logger.Info("students seeded from initial set", zap.Int("count", len(s.students)))
	return false
}

// Students returns a copy of the collection in insertion order.
func (s *StudentService) Students() []models.Student {
	return append([]models.Student{}, s.students...)
}

// Count returns the collection size.
func (s *StudentService) Count() int {
	return len(s.students)
}

// Get returns the student with the given ID.
func (s *StudentService) Get(id int) (*models.Student, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	student := s.students[idx]
	return &student, nil
}

// Add validates input and appends a new student with the next free ID.
func (s *StudentService) Add(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	input = sanitizeInput(input)
	if err := s.validateFields(input); err != nil {
		s.metrics.RecordMutation("add", outcomeInvalid)
		return nil, err
	}
	if err := s.checkRollNumber(input.RollNumber, 0); err != nil {
		s.metrics.RecordMutation("add", outcomeInvalid)
		return nil, err
	}

	student := models.Student{
		ID:         s.nextID(),
		RollNumber: input.RollNumber,
		Name:       input.Name,
		Department: input.Department,
		Year:       input.Year,
		CGPA:       input.CGPA,
		CreatedAt:  s.now().UTC(),
	}
	s.students = append(s.students, student)
	s.afterMutation(ctx, "add", "student added", student)
	return &student, nil
}

// Edit replaces the editable fields of the student with the given ID. ID and
// creation time are preserved; keeping the current roll number is allowed.
func (s *StudentService) Edit(ctx context.Context, id int, input models.StudentInput) (*models.Student, error) {
	input = sanitizeInput(input)
	if err := s.validateFields(input); err != nil {
		s.metrics.RecordMutation("edit", outcomeInvalid)
		return nil, err
	}
	idx := s.indexOf(id)
	if idx < 0 {
		s.metrics.RecordMutation("edit", outcomeNotFound)
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if err := s.checkRollNumber(input.RollNumber, id); err != nil {
		s.metrics.RecordMutation("edit", outcomeInvalid)
		return nil, err
	}

	student := s.students[idx]
	student.RollNumber = input.RollNumber
	student.Name = input.Name
	student.Department = input.Department
	student.Year = input.Year
	student.CGPA = input.CGPA
	s.students[idx] = student

	s.afterMutation(ctx, "edit", "student updated", student)
	return &student, nil
}

// Delete removes the student with the given ID.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	idx := s.indexOf(id)
	if idx < 0 {
		s.metrics.RecordMutation("delete", outcomeNotFound)
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	removed := s.students[idx]
	s.students = slices.Delete(s.students, idx, idx+1)
	s.afterMutation(ctx, "delete", "student deleted", removed)
	return nil
}

// View derives the requested page of the collection.
func (s *StudentService) View(params models.ViewParams) models.ViewResult {
	params = params.Normalized()
	start := time.Now()
	visible, total := DeriveView(s.students, params)
	s.metrics.ObserveView(time.Since(start))

	return models.ViewResult{
		Students: visible,
		Pagination: models.Pagination{
			Page:       params.Page,
			PageSize:   params.PageSize,
			TotalCount: total,
			TotalPages: TotalPages(total, params.PageSize),
		},
		CollectionCount: len(s.students),
		Params:          params,
	}
}

// ClearStorage removes the saved collection from the store. The in-memory
// collection is left as is.
func (s *StudentService) ClearStorage(ctx context.Context) {
	if s.store == nil {
		return
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.Delete(ctx, s.key); err != nil {
		s.metrics.RecordStorage("clear", outcomeError)
		s.logger.Warn("failed to clear stored students", zap.String("key", s.key), zap.Error(err))
		return
	}
	s.metrics.RecordStorage("clear", outcomeSuccess)
}

func (s *StudentService) afterMutation(ctx context.Context, op, msg string, student models.Student) {
	s.metrics.RecordMutation(op, outcomeSuccess)
	s.metrics.SetCollectionSize(len(s.students))
	s.logger.Info(msg,
		zap.Int("id", student.ID),
		zap.String("roll_number", student.RollNumber),
		zap.Int("count", len(s.students)),
	)
	s.persist(ctx)
}

func (s *StudentService) load(ctx context.Context) ([]models.Student, bool) {
	if s.store == nil {
		return nil, false
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	payload, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, appErrors.ErrStoreMiss) {
			s.metrics.RecordStorage("load", outcomeMiss)
			return nil, false
		}
		s.metrics.RecordStorage("load", outcomeError)
		s.logger.Warn("failed to load students", zap.String("key", s.key), zap.Error(err))
		return nil, false
	}
	students, err := DecodeStudents(payload)
	if err != nil {
		s.metrics.RecordStorage("load", outcomeError)
		s.logger.Warn("discarding unreadable stored students", zap.String("key", s.key), zap.Error(err))
		return nil, false
	}
	if err := s.checkStored(students); err != nil {
		s.metrics.RecordStorage("load", outcomeInvalid)
		s.logger.Warn("discarding inconsistent stored students", zap.String("key", s.key), zap.Error(err))
		return nil, false
	}
	s.metrics.RecordStorage("load", outcomeSuccess)
	return students, true
}

func (s *StudentService) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	payload, err := EncodeStudents(s.students)
	if err != nil {
		s.metrics.RecordStorage("save", outcomeError)
		s.logger.Error("failed to serialize students", zap.Error(err))
		return
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.Put(ctx, s.key, payload); err != nil {
		s.metrics.RecordStorage("save", outcomeError)
		s.logger.Warn("failed to save students", zap.String("key", s.key), zap.Error(err))
		return
	}
	s.metrics.RecordStorage("save", outcomeSuccess)
}

// checkStored rejects a loaded collection that breaks the record invariants:
// positive unique IDs, unique roll numbers and valid fields.
func (s *StudentService) checkStored(students []models.Student) error {
	ids := make(map[int]struct{}, len(students))
	rolls := make(map[string]struct{}, len(students))
	for _, st := range students {
		if st.ID <= 0 {
			return fmt.Errorf("student id %d is not positive", st.ID)
		}
		if _, dup := ids[st.ID]; dup {
			return fmt.Errorf("duplicate student id %d", st.ID)
		}
		ids[st.ID] = struct{}{}
		if _, dup := rolls[st.RollNumber]; dup {
			return fmt.Errorf("duplicate roll number %q", st.RollNumber)
		}
		rolls[st.RollNumber] = struct{}{}

		if err := s.validateFields(studentInput(st)); err != nil {
			return fmt.Errorf("student %d: %w", st.ID, err)
		}
	}
	return nil
}

func (s *StudentService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *StudentService) validateFields(input models.StudentInput) error {
	if err := s.validator.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "invalid student payload"), fieldMessages(verrs))
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid student payload")
	}
	return nil
}

func (s *StudentService) checkRollNumber(rollNumber string, editingID int) error {
	if s.rollNumberTaken(rollNumber, editingID) {
		return appErrors.WithFields(appErrors.Clone(appErrors.ErrConflict, "roll number already used"),
			map[string]string{"rollNumber": "rollNumber must be unique"})
	}
	return nil
}

// rollNumberTaken ignores the record with excludeID so an edit may keep its
// own roll number. IDs start at 1, so 0 excludes nothing.
func (s *StudentService) rollNumberTaken(rollNumber string, excludeID int) bool {
	for _, st := range s.students {
		if st.RollNumber == rollNumber && st.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *StudentService) nextID() int {
	maxID := 0
	for _, st := range s.students {
		maxID = max(maxID, st.ID)
	}
	return maxID + 1
}

func (s *StudentService) indexOf(id int) int {
	return slices.IndexFunc(s.students, func(st models.Student) bool { return st.ID == id })
}

func studentInput(st models.Student) models.StudentInput {
	return models.StudentInput{
		RollNumber: st.RollNumber,
		Name:       st.Name,
		Department: st.Department,
		Year:       st.Year,
		CGPA:       st.CGPA,
	}
}

func sanitizeInput(input models.StudentInput) models.StudentInput {
	input.RollNumber = strings.TrimSpace(input.RollNumber)
	input.Name = strings.TrimSpace(input.Name)
	input.Department = models.Department(strings.ToUpper(strings.TrimSpace(string(input.Department))))
	return input
}

func fieldMessages(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		switch fe.Tag() {
		case "required":
			fields[name] = fmt.Sprintf("%s is required", name)
		case "oneof":
			fields[name] = fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
		case "min", "gte":
			fields[name] = fmt.Sprintf("%s must be at least %s", name, fe.Param())
		case "max", "lte":
			fields[name] = fmt.Sprintf("%s must be at most %s", name, fe.Param())
		default:
			fields[name] = fmt.Sprintf("%s is invalid", name)
		}
	}
	return fields
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
