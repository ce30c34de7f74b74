package twitter

import (
	"context"
	"errors"
	"fmt"

	"github.com/scryptex/backend/internal/ids"
	"github.com/scryptex/backend/internal/models"
)

// Credit costs per operation.
const (
	PostCost   = 1.0
	ThreadCost = 2.0
)

var ErrProjectNotFound = errors.New("research project not found")

// Store is the persistence interface the twitter service needs.
type Store interface {
	CreatePost(ctx context.Context, p *models.TwitterPost) error
	CreateThread(ctx context.Context, t *models.TwitterThread, posts []*models.TwitterPost) error
	ListPosts(ctx context.Context, userID string) ([]models.TwitterPost, error)
	ListThreads(ctx context.Context, userID string) ([]ThreadSummary, error)
	UpsertAccount(ctx context.Context, userID, handle string) (*models.TwitterAccount, error)
}

// CreditService debits the caller before paid operations.
type CreditService interface {
	Spend(ctx context.Context, userID string, amount float64, description string, relatedEntity *string) (float64, error)
}

// ProjectFinder resolves a research project's display name. Content is
// only generated for projects that exist.
type ProjectFinder interface {
	ProjectName(ctx context.Context, projectID string) (string, bool, error)
}

type Service interface {
	CreatePost(ctx context.Context, userID, projectID, topic, tone string) (*models.TwitterPost, error)
	CreateThread(ctx context.Context, userID, projectID string, topics []string) (*models.TwitterThread, int, error)
	Posts(ctx context.Context, userID string) ([]models.TwitterPost, error)
	Threads(ctx context.Context, userID string) ([]ThreadSummary, error)
	Connect(ctx context.Context, userID, handle string) (*models.TwitterAccount, error)
}

type service struct {
	store    Store
	credits  CreditService
	projects ProjectFinder
	gen      Generator
}

func NewService(store Store, credits CreditService, projects ProjectFinder, gen Generator) Service {
	return &service{store: store, credits: credits, projects: projects, gen: gen}
}

var _ Service = (*service)(nil)

func (s *service) CreatePost(ctx context.Context, userID, projectID, topic, tone string) (*models.TwitterPost, error) {
	name, found, err := s.projects.ProjectName(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrProjectNotFound
	}

	desc := fmt.Sprintf("Twitter post about %s (%s)", name, topic)
	if _, err := s.credits.Spend(ctx, userID, PostCost, desc, &projectID); err != nil {
		return nil, err
	}

	generated := s.gen.Post(name, topic, tone)
	post := &models.TwitterPost{
		ID:        ids.New("tweet_"),
		UserID:    userID,
		ProjectID: projectID,
		Content:   generated.Content,
		Hashtags:  generated.Hashtags,
		Mentions:  generated.Mentions,
		Status:    models.TwitterStatusDraft,
	}
	if post.Mentions == nil {
		post.Mentions = []string{}
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) CreateThread(ctx context.Context, userID, projectID string, topics []string) (*models.TwitterThread, int, error) {
	if len(topics) == 0 {
		return nil, 0, fmt.Errorf("thread requires at least one topic")
	}
	name, found, err := s.projects.ProjectName(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}
	if !found {
		return nil, 0, ErrProjectNotFound
	}

	desc := fmt.Sprintf("Twitter thread about %s", name)
	if _, err := s.credits.Spend(ctx, userID, ThreadCost, desc, &projectID); err != nil {
		return nil, 0, err
	}

	generated := s.gen.Thread(name, topics)
	posts := make([]*models.TwitterPost, 0, len(generated))
	postIDs := make([]string, 0, len(generated))
	for _, g := range generated {
		mentions := g.Mentions
		if mentions == nil {
			mentions = []string{}
		}
		post := &models.TwitterPost{
			ID:        ids.New("tweet_"),
			UserID:    userID,
			ProjectID: projectID,
			Content:   g.Content,
			Hashtags:  g.Hashtags,
			Mentions:  mentions,
			Status:    models.TwitterStatusDraft,
		}
		posts = append(posts, post)
		postIDs = append(postIDs, post.ID)
	}

	thread := &models.TwitterThread{
		ID:        ids.New("thread_"),
		UserID:    userID,
		ProjectID: projectID,
		PostIDs:   postIDs,
		Status:    models.TwitterStatusDraft,
	}
	if err := s.store.CreateThread(ctx, thread, posts); err != nil {
		return nil, 0, err
	}
	return thread, len(posts), nil
}

func (s *service) Posts(ctx context.Context, userID string) ([]models.TwitterPost, error) {
	return s.store.ListPosts(ctx, userID)
}

func (s *service) Threads(ctx context.Context, userID string) ([]ThreadSummary, error) {
	return s.store.ListThreads(ctx, userID)
}

func (s *service) Connect(ctx context.Context, userID, handle string) (*models.TwitterAccount, error) {
	return s.store.UpsertAccount(ctx, userID, handle)
}
