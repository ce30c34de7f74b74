package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/scryptex/backend/internal/ids"
	"github.com/scryptex/backend/internal/metrics"
	"github.com/scryptex/backend/internal/models"
)

// FetcherCost is the credit price of running one fetcher on demand.
const FetcherCost = 1.0

var (
	ErrProjectNotFound = errors.New("research project not found")
	ErrUnknownFetcher  = errors.New("fetcher not available")
	ErrNoHistory       = errors.New("no analysis history found")
)

// Store is the persistence interface the research service needs.
type Store interface {
	CreateProject(ctx context.Context, p *models.ResearchProject) error
	GetProject(ctx context.Context, id string) (*models.ResearchProject, error)
	FindByUserAndName(ctx context.Context, userID, name string) (*models.ResearchProject, error)
	AppendFetcherResult(ctx context.Context, projectID, fetcherName, result string) error
	Complete(ctx context.Context, projectID string, summary *models.ResearchSummary) error
	Delete(ctx context.Context, projectID, userID string) (int64, error)
}

// CreditService debits the caller before paid operations.
type CreditService interface {
	Spend(ctx context.Context, userID string, amount float64, description string, relatedEntity *string) (float64, error)
}

// EnqueueAnalysisFunc schedules the background analysis run. Provided
// by main as a closure over river.Client.Insert.
type EnqueueAnalysisFunc func(ctx context.Context, args AnalyzeProjectArgs) error

// FetcherResult is the outcome of one on-demand fetcher run.
type FetcherResult struct {
	Data   string `json:"data"`
	Cached bool   `json:"cached"`
}

type Service interface {
	Analyze(ctx context.Context, userID *string, projectName string, website *string) (*models.ResearchProject, error)
	RunFetcher(ctx context.Context, userID, projectID, fetcherType string) (*FetcherResult, error)
	History(ctx context.Context, userID, projectName string) (*models.ResearchProject, error)
	Delete(ctx context.Context, userID, projectID string) (int64, error)
	RunAnalysis(ctx context.Context, projectID string) error
}

type service struct {
	store   Store
	credits CreditService
	llm     LLM
	enqueue EnqueueAnalysisFunc
	log     *slog.Logger

	// cache keeps hot fetcher results out of the database on repeat
	// requests. Keyed by project id + fetcher name.
	cache *expirable.LRU[string, string]

	// sleep is a seam for deterministic tests.
	sleep func(ctx context.Context, d time.Duration)
}

func NewService(store Store, credits CreditService, llm LLM, enqueue EnqueueAnalysisFunc, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{
		store:   store,
		credits: credits,
		llm:     llm,
		enqueue: enqueue,
		log:     log,
		cache:   expirable.NewLRU[string, string](256, nil, 10*time.Minute),
		sleep:   sleepCtx,
	}
}

var _ Service = (*service)(nil)

func (s *service) Analyze(ctx context.Context, userID *string, projectName string, website *string) (*models.ResearchProject, error) {
	project := &models.ResearchProject{
		ID:                ids.New("prj_"),
		UserID:            userID,
		Name:              projectName,
		Website:           website,
		Status:            models.ResearchStatusInProgress,
		FetchersAvailable: fetcherNames(),
		FetchersCompleted: []string{},
		FetcherResults:    map[string]string{},
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	if err := s.enqueue(ctx, AnalyzeProjectArgs{ProjectID: project.ID}); err != nil {
		return nil, err
	}
	return project, nil
}

// RunAnalysis is the background job body: it runs the initial fetchers
// in order and finishes with a coarse summary. LLM failures become
// inline error strings in the stored results, never job failures.
func (s *service) RunAnalysis(ctx context.Context, projectID string) error {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}

	results := map[string]string{}
	for _, name := range initialFetchers {
		result := s.runOne(ctx, project, name)
		results[name] = result
		if err := s.store.AppendFetcherResult(ctx, projectID, name, result); err != nil {
			return err
		}
		s.sleep(ctx, time.Second)
	}

	description := results["about"]
	if description == "" {
		description = "No description available"
	}
	summary := &models.ResearchSummary{
		Name:           project.Name,
		Description:    description,
		TeamScore:      7.5,
		SocialScore:    8.2,
		OverallRisk:    "Medium",
		Recommendation: "This project shows promise but requires further verification.",
		CompletedAt:    time.Now().UTC(),
	}
	return s.store.Complete(ctx, projectID, summary)
}

func (s *service) RunFetcher(ctx context.Context, userID, projectID, fetcherType string) (*FetcherResult, error) {
	if _, ok := fetcherByName(fetcherType); !ok {
		return nil, ErrUnknownFetcher
	}
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	key := projectID + "/" + fetcherType
	if cached, ok := s.cache.Get(key); ok {
		return &FetcherResult{Data: cached, Cached: true}, nil
	}
	if stored, ok := project.FetcherResults[fetcherType]; ok {
		s.cache.Add(key, stored)
		return &FetcherResult{Data: stored, Cached: true}, nil
	}

	desc := fmt.Sprintf("Fetcher '%s' for %s", fetcherType, project.Name)
	if _, err := s.credits.Spend(ctx, userID, FetcherCost, desc, &project.ID); err != nil {
		return nil, err
	}

	result := s.runOne(ctx, project, fetcherType)
	if err := s.store.AppendFetcherResult(ctx, projectID, fetcherType, result); err != nil {
		return nil, err
	}
	s.cache.Add(key, result)
	return &FetcherResult{Data: result, Cached: false}, nil
}

func (s *service) History(ctx context.Context, userID, projectName string) (*models.ResearchProject, error) {
	project, err := s.store.FindByUserAndName(ctx, userID, projectName)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNoHistory
	}
	return project, nil
}

func (s *service) Delete(ctx context.Context, userID, projectID string) (int64, error) {
	return s.store.Delete(ctx, projectID, userID)
}

func (s *service) runOne(ctx context.Context, project *models.ResearchProject, name string) string {
	f, ok := fetcherByName(name)
	if !ok {
		return fmt.Sprintf("Error: fetcher '%s' not found", name)
	}
	website := ""
	if project.Website != nil {
		website = *project.Website
	}
	metrics.FetchersRun.WithLabelValues(name).Inc()
	text, err := s.llm.Generate(ctx, f.Prompt(project.Name, website))
	if err != nil {
		s.log.Warn("fetcher failed", "fetcher", name, "project_id", project.ID, "error", err)
		return fmt.Sprintf("Error: %v", err)
	}
	return text
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
