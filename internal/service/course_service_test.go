package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/service"
	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/google/uuid"
)

func newCourseService(courses *fakeCourseRepo) service.CourseService {
	return service.NewCourseService(courses, service.NewSearchService(nil), nil)
}

func TestCourseListVisibility(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)

	teacher := &model.User{ID: uuid.New(), Role: model.RoleTeacher}
	other := &model.User{ID: uuid.New(), Role: model.RoleTeacher}
	student := &model.User{ID: uuid.New(), Role: model.RoleStudent}
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	if err := courses.Create(ctx, &model.Course{Title: "Live", TeacherID: teacher.ID, IsPublished: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := courses.Create(ctx, &model.Course{Title: "Draft", TeacherID: teacher.ID, IsPublished: false}); err != nil {
		t.Fatalf("create: %v", err)
	}

	cases := []struct {
		name   string
		caller *model.User
		want   int
	}{
		{"anonymous", nil, 1},
		{"student", student, 1},
		{"owner", teacher, 2},
		{"other teacher", other, 1},
		{"admin", admin, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, tc.caller, dto.CourseFilter{})
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("expected %d courses, got %d", tc.want, len(got))
			}
		})
	}
}

func TestCourseListTeacherPublishedFilter(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)

	teacher := &model.User{ID: uuid.New(), Role: model.RoleTeacher}
	other := &model.User{ID: uuid.New(), Role: model.RoleTeacher}

	seed := []*model.Course{
		{Title: "Mine Live", TeacherID: teacher.ID, IsPublished: true},
		{Title: "Mine Draft", TeacherID: teacher.ID, IsPublished: false},
		{Title: "Theirs Live", TeacherID: other.ID, IsPublished: true},
		{Title: "Theirs Draft", TeacherID: other.ID, IsPublished: false},
	}
	for _, c := range seed {
		if err := courses.Create(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// No filter: the published catalog plus the caller's own drafts.
	got, err := svc.List(ctx, teacher, dto.CourseFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 courses, got %d", len(got))
	}

	// published=true: every published course, ownership aside.
	published := true
	got, err = svc.List(ctx, teacher, dto.CourseFilter{Published: &published})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 published courses, got %d", len(got))
	}

	// published=false: only the caller's own drafts.
	unpublished := false
	got, err = svc.List(ctx, teacher, dto.CourseFilter{Published: &unpublished})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Mine Draft" {
		t.Fatalf("expected only the caller's draft, got %+v", got)
	}
}

func TestCourseListSearchFallback(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)

	if err := courses.Create(ctx, &model.Course{Title: "Go Basics", TeacherID: uuid.New(), IsPublished: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := courses.Create(ctx, &model.Course{Title: "Rust Basics", TeacherID: uuid.New(), IsPublished: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.List(ctx, nil, dto.CourseFilter{Search: "go"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Go Basics" {
		t.Fatalf("unexpected search result: %+v", got)
	}
}

func TestCourseGetHidesDraft(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)

	teacher := &model.User{ID: uuid.New(), Role: model.RoleTeacher}
	draft := &model.Course{Title: "Draft", TeacherID: teacher.ID, IsPublished: false}
	if err := courses.Create(ctx, draft); err != nil {
		t.Fatalf("create: %v", err)
	}

	student := &model.User{ID: uuid.New(), Role: model.RoleStudent}
	if _, err := svc.Get(ctx, student, draft.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("draft must look absent, got %v", err)
	}
	if _, err := svc.Get(ctx, nil, draft.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("draft must look absent to anonymous callers, got %v", err)
	}
	if _, err := svc.Get(ctx, teacher, draft.ID); err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
}

func TestCourseCreateTeacherAssignment(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)

	teacher := &model.User{ID: uuid.New(), Role: model.RoleTeacher}
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	target := uuid.New()

	// Teachers always own what they create.
	c, err := svc.Create(ctx, teacher, dto.CreateCourseInput{Title: "Mine"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if c.TeacherID != teacher.ID {
		t.Fatalf("expected owner %s, got %s", teacher.ID, c.TeacherID)
	}

	_, err = svc.Create(ctx, teacher, dto.CreateCourseInput{Title: "Hijack", TeacherID: target.String()})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	c, err = svc.Create(ctx, admin, dto.CreateCourseInput{Title: "Assigned", TeacherID: target.String()})
	if err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
	if c.TeacherID != target {
		t.Fatalf("expected assigned teacher %s, got %s", target, c.TeacherID)
	}
}

func TestCourseUpdateOwnership(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)

	teacher := &model.User{ID: uuid.New(), Role: model.RoleTeacher}
	course := &model.Course{Title: "Old", TeacherID: teacher.ID, IsPublished: true}
	if err := courses.Create(ctx, course); err != nil {
		t.Fatalf("create: %v", err)
	}

	intruder := &model.User{ID: uuid.New(), Role: model.RoleTeacher}
	title := "New"
	if _, err := svc.Update(ctx, intruder, course.ID, dto.UpdateCourseInput{Title: &title}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(ctx, teacher, course.ID, dto.UpdateCourseInput{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "New" {
		t.Fatalf("unexpected title %q", updated.Title)
	}
}

func TestCourseDelete(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)

	teacher := &model.User{ID: uuid.New(), Role: model.RoleTeacher}
	course := &model.Course{Title: "Doomed", TeacherID: teacher.ID}
	if err := courses.Create(ctx, course); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, teacher, course.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(ctx, teacher, course.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseUploadThumbnailUnconfigured(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)

	teacher := &model.User{ID: uuid.New(), Role: model.RoleTeacher}
	course := &model.Course{Title: "Plain", TeacherID: teacher.ID}
	if err := courses.Create(ctx, course); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.UploadThumbnail(ctx, teacher, course.ID, dto.ThumbnailFile{})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest without image storage, got %v", err)
	}
}
