package service

import (
	"context"
	"errors"
	"log"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/repository"
	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/edupress/lms-backend/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseService interface {
	List(ctx context.Context, caller *model.User, filter dto.CourseFilter) ([]*model.Course, error)
	Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Course, error)
	Create(ctx context.Context, caller *model.User, input dto.CreateCourseInput) (*model.Course, error)
	Update(ctx context.Context, caller *model.User, id uuid.UUID, input dto.UpdateCourseInput) (*model.Course, error)
	Delete(ctx context.Context, caller *model.User, id uuid.UUID) error
	UploadThumbnail(ctx context.Context, caller *model.User, id uuid.UUID, file dto.ThumbnailFile) (*model.Course, error)
}

type courseService struct {
	repo         repository.CourseRepository
	search       SearchService
	imageStorage storage.ImageStorage
}

func NewCourseService(repo repository.CourseRepository, search SearchService, imageStorage storage.ImageStorage) CourseService {
	return &courseService{
		repo:         repo,
		search:       search,
		imageStorage: imageStorage,
	}
}

// canManage reports whether the caller may mutate the course.
func canManage(caller *model.User, course *model.Course) bool {
	return caller.Role == model.RoleAdmin || course.TeacherID == caller.ID
}

func (s *courseService) List(ctx context.Context, caller *model.User, filter dto.CourseFilter) ([]*model.Course, error) {
	q := repository.CourseQuery{}

	published := true
	switch {
	case caller == nil || caller.Role == model.RoleStudent:
		// Students and anonymous callers only ever see published courses.
		q.Published = &published
	case caller.Role == model.RoleTeacher:
		switch {
		case filter.Published == nil:
			// Default teacher view: the published catalog plus their own
			// drafts.
			q.VisibleToTeacher = &caller.ID
		case *filter.Published:
			q.Published = filter.Published
		default:
			// Unpublished listings are restricted to the teacher's own
			// courses.
			q.Published = filter.Published
			q.TeacherID = &caller.ID
		}
	default:
		q.Published = filter.Published
	}

	if filter.Search != "" {
		if s.search.Enabled() {
			ids, err := s.search.SearchCourses(filter.Search)
			if err != nil {
				log.Printf("meilisearch query failed, falling back to SQL: %v", err)
				q.Search = filter.Search
			} else if len(ids) == 0 {
				return []*model.Course{}, nil
			} else {
				q.IDs = ids
			}
		} else {
			q.Search = filter.Search
		}
	}

	return s.repo.FindAll(ctx, q)
}

func (s *courseService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "course not found")
		}
		return nil, err
	}

	if !course.IsPublished {
		if caller == nil || !canManage(caller, course) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "course not found")
		}
	}

	return course, nil
}

func (s *courseService) Create(ctx context.Context, caller *model.User, input dto.CreateCourseInput) (*model.Course, error) {
	teacherID := caller.ID
	if input.TeacherID != "" {
		if caller.Role != model.RoleAdmin {
			return nil, apperror.Wrap(apperror.ErrForbidden, "only admins can assign a teacher")
		}
		parsed, err := uuid.Parse(input.TeacherID)
		if err != nil {
			return nil, apperror.Wrap(apperror.ErrInvalidInput, "invalid teacher id")
		}
		teacherID = parsed
	}

	course := &model.Course{
		Title:       input.Title,
		Description: input.Description,
		IsPublished: input.IsPublished,
		TeacherID:   teacherID,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.syncIndex(course)
	return course, nil
}

func (s *courseService) Update(ctx context.Context, caller *model.User, id uuid.UUID, input dto.UpdateCourseInput) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "course not found")
		}
		return nil, err
	}

	if !canManage(caller, course) {
		return nil, apperror.Wrap(apperror.ErrForbidden, "not the course owner")
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.IsPublished != nil {
		course.IsPublished = *input.IsPublished
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.syncIndex(course)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrNotFound, "course not found")
		}
		return err
	}

	if !canManage(caller, course) {
		return apperror.Wrap(apperror.ErrForbidden, "not the course owner")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.search.DeleteCourse(id); err != nil {
		log.Printf("failed to remove course %s from search index: %v", id, err)
	}

	return nil
}

func (s *courseService) UploadThumbnail(ctx context.Context, caller *model.User, id uuid.UUID, file dto.ThumbnailFile) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "course not found")
		}
		return nil, err
	}

	if !canManage(caller, course) {
		return nil, apperror.Wrap(apperror.ErrForbidden, "not the course owner")
	}

	if s.imageStorage == nil {
		return nil, apperror.Wrap(apperror.ErrBadRequest, "image storage is not configured")
	}

	url, err := s.imageStorage.UploadImage(ctx, file.Reader, "thumbnails", file.FileName)
	if err != nil {
		return nil, err
	}

	old := course.ThumbnailURL
	course.ThumbnailURL = &url
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	if old != nil {
		if err := s.imageStorage.DeleteImage(ctx, *old); err != nil {
			log.Printf("failed to delete old thumbnail for course %s: %v", id, err)
		}
	}

	return course, nil
}

// syncIndex keeps the search index consistent with the published catalog.
func (s *courseService) syncIndex(course *model.Course) {
	var err error
	if course.IsPublished {
		err = s.search.IndexCourse(course)
	} else {
		err = s.search.DeleteCourse(course.ID)
	}
	if err != nil {
		log.Printf("failed to sync course %s to search index: %v", course.ID, err)
	}
}
