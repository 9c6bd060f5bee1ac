package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the store's observable behavior
// (error sentinels, ordering, link-once semantics) closely enough that the
// services cannot tell the difference.

// --- Users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.users[id] = &stored
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// --- Athletes ---

type fakeAthleteRepo struct {
	mu       sync.Mutex
	athletes map[primitive.ObjectID]*domain.Athlete

	// lookupErr, when set, is returned by GetByStudentUserID to simulate a
	// store failure during role resolution.
	lookupErr error
}

func newFakeAthleteRepo() *fakeAthleteRepo {
	return &fakeAthleteRepo{athletes: make(map[primitive.ObjectID]*domain.Athlete)}
}

func (r *fakeAthleteRepo) Create(_ context.Context, athlete *domain.Athlete) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *athlete
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.athletes[id] = &stored
	return id, nil
}

func (r *fakeAthleteRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.athletes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAthleteRepo) List(_ context.Context) ([]domain.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Athlete, 0, len(r.athletes))
	for _, a := range r.athletes {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAthleteRepo) GetByStudentUserID(_ context.Context, userID primitive.ObjectID) (*domain.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, a := range r.athletes {
		if a.StudentUserID != nil && *a.StudentUserID == userID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAthleteRepo) LinkStudentUser(_ context.Context, athleteID, userID primitive.ObjectID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.athletes[athleteID]
	if !ok {
		return repository.ErrNotFound
	}
	if a.StudentUserID != nil {
		return repository.ErrAlreadyLinked
	}
	a.StudentUserID = &userID
	a.Email = email
	a.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAthleteRepo) UpdatePlanAndStatus(_ context.Context, athleteID primitive.ObjectID, plan string, status domain.AthleteStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.athletes[athleteID]
	if !ok {
		return repository.ErrNotFound
	}
	a.Plan = plan
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAthleteRepo) AppendRoutineNote(_ context.Context, athleteID primitive.ObjectID, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.athletes[athleteID]
	if !ok {
		return repository.ErrNotFound
	}
	a.Routine = append(a.Routine, note)
	a.UpdatedAt = time.Now()
	return nil
}

// --- Exercises ---

type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *exercise
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.exercises[id] = &stored
	return id, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *exercise
	stored.UpdatedAt = time.Now()
	r.exercises[exercise.ID] = &stored
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

// --- Sessions ---

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session // keyed athleteID.Hex()+"/"+date
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func sessionKey(athleteID primitive.ObjectID, date string) string {
	return athleteID.Hex() + "/" + date
}

func (r *fakeSessionRepo) Get(_ context.Context, athleteID primitive.ObjectID, date string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionKey(athleteID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	copied.Exercises = append([]domain.PlannedExercise(nil), s.Exercises...)
	return &copied, nil
}

func (r *fakeSessionRepo) AppendExercise(_ context.Context, athleteID primitive.ObjectID, date string, entry domain.PlannedExercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sessionKey(athleteID, date)
	s, ok := r.sessions[key]
	if !ok {
		s = &domain.Session{ID: primitive.NewObjectID(), AthleteID: athleteID, Date: date}
		r.sessions[key] = s
	}
	s.Exercises = append(s.Exercises, entry)
	return nil
}

func (r *fakeSessionRepo) RemoveExercise(_ context.Context, athleteID primitive.ObjectID, date string, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sessionKey(athleteID, date)
	s, ok := r.sessions[key]
	if !ok {
		return repository.ErrNotFound
	}
	kept := s.Exercises[:0]
	found := false
	for _, e := range s.Exercises {
		if e.EntryID == entryID {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return repository.ErrNotFound
	}
	s.Exercises = kept
	if len(s.Exercises) == 0 {
		delete(r.sessions, key)
	}
	return nil
}

func (r *fakeSessionRepo) UpdateActualSet(_ context.Context, athleteID primitive.ObjectID, date string, entryID string, setIndex int, update domain.SetUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionKey(athleteID, date)]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range s.Exercises {
		e := &s.Exercises[i]
		if e.EntryID != entryID {
			continue
		}
		for len(e.ActualSets) <= setIndex {
			e.ActualSets = append(e.ActualSets, nil)
		}
		if e.ActualSets[setIndex] == nil {
			e.ActualSets[setIndex] = &domain.ActualSet{}
		}
		slot := e.ActualSets[setIndex]
		if update.Reps != nil {
			slot.Reps = *update.Reps
		}
		if update.Weight != nil {
			slot.Weight = *update.Weight
		}
		if update.Completed != nil {
			slot.Completed = *update.Completed
		}
		return nil
	}
	return repository.ErrNotFound
}

func (r *fakeSessionRepo) ListDates(_ context.Context, athleteID primitive.ObjectID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var dates []string
	for _, s := range r.sessions {
		if s.AthleteID == athleteID {
			dates = append(dates, s.Date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// --- Messages ---

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
	clock    time.Time
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{clock: time.Now()}
}

func (r *fakeMessageRepo) Append(_ context.Context, message *domain.Message) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *message
	stored.ID = id
	// Strictly increasing timestamps so ordering assertions are deterministic.
	r.clock = r.clock.Add(time.Millisecond)
	stored.CreatedAt = r.clock
	r.messages = append(r.messages, stored)
	return id, nil
}

func (r *fakeMessageRepo) ListByAthlete(_ context.Context, athleteID primitive.ObjectID, limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.Message
	for _, m := range r.messages {
		if m.AthleteID == athleteID {
			all = append(all, m)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

// --- Appointments ---

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[primitive.ObjectID]*domain.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[primitive.ObjectID]*domain.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appointment *domain.Appointment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *appointment
	stored.ID = id
	stored.CreatedAt = time.Now()
	r.appointments[id] = &stored
	return id, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

// --- File storage ---

type fakeFileStorage struct {
	mu      sync.Mutex
	deleted []string
	uploads []string
}

func (s *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey string, _ string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, objectKey)
	return "https://storage.example.com/upload/" + objectKey, nil
}

func (s *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.example.com/download/" + objectKey, nil
}

func (s *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, objectKey)
	return nil
}
