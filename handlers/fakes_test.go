package handlers

import (
	"context"
	"mime/multipart"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio/database"
	"portfolio/models"
)

// fakeStore is an in-memory Store. failWith, when set, is returned by every write.
type fakeStore struct {
	mu          sync.Mutex
	projects    map[string]models.Project
	posts       map[string]models.BlogPost
	messages    map[uuid.UUID]models.Message
	subscribers map[string]models.Subscriber
	pingErr     error
	failWith    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:    map[string]models.Project{},
		posts:       map[string]models.BlogPost{},
		messages:    map[uuid.UUID]models.Message{},
		subscribers: map[string]models.Subscriber{},
	}
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.pingErr }

func (s *fakeStore) ListProjects(ctx context.Context, params models.ListParams) ([]models.Project, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Project
	for _, p := range s.projects {
		if params.Status != "" && p.Status != params.Status {
			continue
		}
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s *fakeStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (s *fakeStore) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	if _, ok := s.projects[p.ID]; ok {
		return nil, database.ErrConflict
	}
	created := *p
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.projects[p.ID] = created
	return &created, nil
}

func (s *fakeStore) UpdateProject(ctx context.Context, id string, p *models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	existing, ok := s.projects[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	updated := *p
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	s.projects[id] = updated
	return &updated, nil
}

func (s *fakeStore) DeleteProject(ctx context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	delete(s.projects, id)
	return &p, nil
}

func (s *fakeStore) ListPosts(ctx context.Context, params models.ListParams, search string) ([]models.BlogPost, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if search != "" {
		if _, err := database.NewSearchQueryParser().Parse(search); err != nil {
			return nil, 0, database.ErrInvalidQuery
		}
	}

	var out []models.BlogPost
	for _, p := range s.posts {
		if params.Status != "" && p.Status != params.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s *fakeStore) GetPost(ctx context.Context, id string) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (s *fakeStore) CreatePost(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	if _, ok := s.posts[p.ID]; ok {
		return nil, database.ErrConflict
	}
	created := *p
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.posts[p.ID] = created
	return &created, nil
}

func (s *fakeStore) UpdatePost(ctx context.Context, id string, p *models.BlogPost) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	existing, ok := s.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	updated := *p
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	s.posts[id] = updated
	return &updated, nil
}

func (s *fakeStore) DeletePost(ctx context.Context, id string) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	delete(s.posts, id)
	return &p, nil
}

func (s *fakeStore) ListMessages(ctx context.Context, params models.ListParams) ([]models.Message, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Message
	for _, m := range s.messages {
		if params.Unread && m.Read {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &m, nil
}

func (s *fakeStore) CreateMessage(ctx context.Context, m *models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	created := *m
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	s.messages[created.ID] = created
	return &created, nil
}

func (s *fakeStore) MarkMessageRead(ctx context.Context, id uuid.UUID, read bool) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	m.Read = read
	s.messages[id] = m
	return &m, nil
}

func (s *fakeStore) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.messages, id)
	return nil
}

func (s *fakeStore) Subscribe(ctx context.Context, email string) (*models.Subscriber, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, false, s.failWith
	}
	if sub, ok := s.subscribers[email]; ok && sub.Status == models.SubscriberActive {
		return &sub, false, nil
	}
	sub := models.Subscriber{Email: email, Status: models.SubscriberActive, SubscribedAt: time.Now()}
	s.subscribers[email] = sub
	return &sub, true, nil
}

func (s *fakeStore) Unsubscribe(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscribers[email]
	if !ok {
		return database.ErrNotFound
	}
	sub.Status = models.SubscriberUnsubscribed
	s.subscribers[email] = sub
	return nil
}

func (s *fakeStore) ListSubscribers(ctx context.Context, params models.ListParams) ([]models.Subscriber, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Subscriber
	for _, sub := range s.subscribers {
		out = append(out, sub)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) DeleteSubscriber(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscribers[email]; !ok {
		return database.ErrNotFound
	}
	delete(s.subscribers, email)
	return nil
}

func (s *fakeStore) Stats(ctx context.Context) (*models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &models.Stats{Projects: int64(len(s.projects))}
	for _, p := range s.posts {
		if p.Status == models.StatusPublished {
			stats.PublishedPosts++
		} else {
			stats.DraftPosts++
		}
	}
	for _, m := range s.messages {
		if !m.Read {
			stats.UnreadMessages++
		}
	}
	for _, sub := range s.subscribers {
		if sub.Status == models.SubscriberActive {
			stats.ActiveSubscribers++
		}
	}
	return stats, nil
}

type fakeUploader struct {
	mu      sync.Mutex
	err     error
	uploads []string
	removed []string
}

func (u *fakeUploader) UploadFile(ctx context.Context, fh *multipart.FileHeader, folder, id string) (models.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.err != nil {
		return models.UploadResult{}, u.err
	}
	objectPath := path.Join(folder, id+"-1"+path.Ext(fh.Filename))
	u.uploads = append(u.uploads, objectPath)
	return models.UploadResult{Path: objectPath, URL: "http://files.test/" + objectPath}, nil
}

func (u *fakeUploader) Remove(ctx context.Context, objectPath string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.removed = append(u.removed, objectPath)
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	contacts []*models.Message
	welcomes []*models.Subscriber
}

func (n *recordingNotifier) ContactReceived(msg *models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts = append(n.contacts, msg)
}

func (n *recordingNotifier) Subscribed(sub *models.Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomes = append(n.welcomes, sub)
}
