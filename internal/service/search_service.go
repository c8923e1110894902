package service

import (
	"log"

	"github.com/edupress/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

const courseIndex = "courses"

// SearchService maintains the course catalog index. All methods are no-ops
// when search is not configured; catalog listing then falls back to SQL.
type SearchService interface {
	IndexCourse(course *model.Course) error
	DeleteCourse(id uuid.UUID) error
	SearchCourses(query string) ([]uuid.UUID, error)
	Enabled() bool
}

type courseDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Teacher     string `json:"teacher"`
}

type searchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	if client != nil {
		s.initIndex()
	}
	return s
}

func (s *searchService) initIndex() {
	if _, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        courseIndex,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("failed to create meilisearch index %q: %v", courseIndex, err)
		return
	}

	if _, err := s.client.Index(courseIndex).UpdateSearchableAttributes(&[]string{
		"title", "description", "teacher",
	}); err != nil {
		log.Printf("failed to configure meilisearch index %q: %v", courseIndex, err)
	}
}

func (s *searchService) Enabled() bool {
	return s.client != nil
}

func (s *searchService) IndexCourse(course *model.Course) error {
	if s.client == nil {
		return nil
	}

	doc := courseDocument{
		ID:          course.ID.String(),
		Title:       course.Title,
		Description: course.Description,
	}
	if course.Teacher != nil {
		doc.Teacher = course.Teacher.FullName()
	}

	_, err := s.client.Index(courseIndex).AddDocuments([]courseDocument{doc}, nil)
	return err
}

func (s *searchService) DeleteCourse(id uuid.UUID) error {
	if s.client == nil {
		return nil
	}

	_, err := s.client.Index(courseIndex).DeleteDocument(id.String())
	return err
}

func (s *searchService) SearchCourses(query string) ([]uuid.UUID, error) {
	if s.client == nil {
		return nil, nil
	}

	res, err := s.client.Index(courseIndex).Search(query, &meilisearch.SearchRequest{
		Limit: 100,
	})
	if err != nil {
		return nil, err
	}

	return decodeHitIDs(res.Hits), nil
}

// decodeHitIDs extracts course ids from raw search hits, skipping anything
// that does not decode to a document with a valid uuid.
func decodeHitIDs(hits meilisearch.Hits) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(hits))
	for _, hit := range hits {
		var doc courseDocument
		if err := hit.Decode(&doc); err != nil {
			continue
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}
