package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They return gorm.ErrRecordNotFound on misses so
// the services' error mapping behaves exactly as against the real store.

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

type fakeCourseRepo struct {
	courses map[uuid.UUID]*model.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[uuid.UUID]*model.Course)}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Course, error) {
	if c, ok := r.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCourseRepo) FindAll(_ context.Context, q repository.CourseQuery) ([]*model.Course, error) {
	var out []*model.Course
	for _, c := range r.courses {
		if q.Published != nil && c.IsPublished != *q.Published {
			continue
		}
		if q.TeacherID != nil && c.TeacherID != *q.TeacherID {
			continue
		}
		if q.VisibleToTeacher != nil && !c.IsPublished && c.TeacherID != *q.VisibleToTeacher {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(q.Search)) {
			continue
		}
		if len(q.IDs) > 0 {
			found := false
			for _, id := range q.IDs {
				if id == c.ID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *model.Course) error {
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.courses, id)
	return nil
}

type fakeModuleRepo struct {
	modules map[uuid.UUID]*model.Module
}

func newFakeModuleRepo() *fakeModuleRepo {
	return &fakeModuleRepo{modules: make(map[uuid.UUID]*model.Module)}
}

func (r *fakeModuleRepo) Create(_ context.Context, module *model.Module) error {
	if module.ID == uuid.Nil {
		module.ID = uuid.New()
	}
	cp := *module
	r.modules[module.ID] = &cp
	return nil
}

func (r *fakeModuleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Module, error) {
	if m, ok := r.modules[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeModuleRepo) FindByCourse(_ context.Context, courseID uuid.UUID, publishedOnly bool) ([]*model.Module, error) {
	var out []*model.Module
	for _, m := range r.modules {
		if m.CourseID != courseID {
			continue
		}
		if publishedOnly && !m.IsPublished {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeModuleRepo) CountPublished(_ context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range r.modules {
		if m.CourseID == courseID && m.IsPublished {
			count++
		}
	}
	return count, nil
}

func (r *fakeModuleRepo) Update(_ context.Context, module *model.Module) error {
	cp := *module
	r.modules[module.ID] = &cp
	return nil
}

func (r *fakeModuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.modules, id)
	return nil
}

type fakeEnrollmentRepo struct {
	enrollments map[uuid.UUID]*model.Enrollment
	// quiz receives attempt rows recorded by RecordScore, mirroring the real
	// store where both repositories share one set of tables.
	quiz *fakeQuizRepo
}

func newFakeEnrollmentRepo(quiz *fakeQuizRepo) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		enrollments: make(map[uuid.UUID]*model.Enrollment),
		quiz:        quiz,
	}
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, enrollment *model.Enrollment) error {
	for _, e := range r.enrollments {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	enrollment.EnrolledAt = time.Now()
	cp := *enrollment
	r.enrollments[enrollment.ID] = &cp
	return nil
}

func (r *fakeEnrollmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Enrollment, error) {
	if e, ok := r.enrollments[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEnrollmentRepo) FindByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (*model.Enrollment, error) {
	for _, e := range r.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEnrollmentRepo) FindByUser(_ context.Context, userID uuid.UUID, completed *bool) ([]*model.Enrollment, error) {
	var out []*model.Enrollment
	for _, e := range r.enrollments {
		if e.UserID != userID {
			continue
		}
		if completed != nil && e.Completed != *completed {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) FindByCourse(_ context.Context, courseID uuid.UUID) ([]*model.Enrollment, error) {
	var out []*model.Enrollment
	for _, e := range r.enrollments {
		if e.CourseID == courseID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.enrollments, id)
	return nil
}

func (r *fakeEnrollmentRepo) RecordScore(_ context.Context, enrollmentID uuid.UUID, attempts []model.QuizAttempt, score int, passed bool) (*model.Enrollment, error) {
	e, ok := r.enrollments[enrollmentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	if r.quiz != nil {
		for i := range attempts {
			cp := attempts[i]
			cp.AttemptedAt = time.Now()
			r.quiz.attempts = append(r.quiz.attempts, &cp)
		}
	}

	if score > e.Progress {
		e.Progress = score
	}
	if passed && !e.Completed {
		now := time.Now()
		e.Completed = true
		e.CompletedAt = &now
	}

	cp := *e
	return &cp, nil
}

func (r *fakeEnrollmentRepo) AdvanceProgress(_ context.Context, enrollmentID uuid.UUID, delta int) (*model.Enrollment, error) {
	e, ok := r.enrollments[enrollmentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	if e.Progress < 100 {
		e.Progress += delta
		if e.Progress > 100 {
			e.Progress = 100
		}
		if e.Progress >= 100 && !e.Completed {
			now := time.Now()
			e.Completed = true
			e.CompletedAt = &now
		}
	}

	cp := *e
	return &cp, nil
}

type fakeQuizRepo struct {
	questions map[uuid.UUID]*model.QuizQuestion
	attempts  []*model.QuizAttempt
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{questions: make(map[uuid.UUID]*model.QuizQuestion)}
}

func (r *fakeQuizRepo) CreateQuestion(_ context.Context, question *model.QuizQuestion) error {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	for i := range question.Options {
		if question.Options[i].ID == uuid.Nil {
			question.Options[i].ID = uuid.New()
		}
		question.Options[i].QuestionID = question.ID
	}
	cp := *question
	r.questions[question.ID] = &cp
	return nil
}

func (r *fakeQuizRepo) FindQuestionsByModule(_ context.Context, moduleID uuid.UUID) ([]*model.QuizQuestion, error) {
	var out []*model.QuizQuestion
	for _, q := range r.questions {
		if q.ModuleID == moduleID {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeQuizRepo) FindOption(_ context.Context, optionID, questionID uuid.UUID) (*model.QuizOption, error) {
	q, ok := r.questions[questionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			cp := q.Options[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuizRepo) FindAttempts(_ context.Context, userID uuid.UUID, questionIDs []uuid.UUID) ([]*model.QuizAttempt, error) {
	ids := make(map[uuid.UUID]struct{}, len(questionIDs))
	for _, id := range questionIDs {
		ids[id] = struct{}{}
	}
	var out []*model.QuizAttempt
	for _, a := range r.attempts {
		if a.UserID != userID {
			continue
		}
		if _, ok := ids[a.QuestionID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}
