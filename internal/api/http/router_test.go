package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/spec-kit/job-board-service/internal/api/http/handlers"
	"github.com/spec-kit/job-board-service/internal/auth"
	"github.com/spec-kit/job-board-service/internal/config"
	"github.com/spec-kit/job-board-service/internal/domain"
	"github.com/spec-kit/job-board-service/internal/events"
	"github.com/spec-kit/job-board-service/internal/observability"
	"github.com/spec-kit/job-board-service/internal/persistence"
	"github.com/spec-kit/job-board-service/internal/repository"
	"github.com/spec-kit/job-board-service/internal/service"
)

type memoryStore struct {
	mu           sync.Mutex
	users        []domain.User
	jobs         []domain.Job
	applications []domain.Application
	base         time.Time
	seq          int
}

func (s *memoryStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memoryStore) Create(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job.ID = s.nextID("job")
	job.PostedAt = s.base.Add(time.Duration(s.seq) * time.Second)
	s.jobs = append(s.jobs, *job)
	return nil
}

func (s *memoryStore) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			job := s.jobs[i]
			return &job, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *memoryStore) ListWithFilter(ctx context.Context, filter repository.JobFilter) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Job
	for _, job := range s.jobs {
		if filter.Search != nil {
			q := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(job.Title), q) &&
				!strings.Contains(strings.ToLower(job.Description), q) &&
				!strings.Contains(strings.ToLower(job.Company), q) {
				continue
			}
		}
		if filter.Type != nil && job.Type != *filter.Type {
			continue
		}
		if filter.Location != nil && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(*filter.Location)) {
			continue
		}
		result = append(result, job)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PostedAt.After(result[j].PostedAt)
	})
	return result, nil
}

func (s *memoryStore) ListByPosterWithCounts(ctx context.Context, posterID string) ([]repository.JobWithApplicationCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []repository.JobWithApplicationCount
	for _, job := range s.jobs {
		if job.PostedByID != posterID {
			continue
		}
		count := 0
		for _, app := range s.applications {
			if app.JobID == job.ID {
				count++
			}
		}
		result = append(result, repository.JobWithApplicationCount{Job: job, ApplicationCount: count})
	}
	return result, nil
}

type memoryApplicationRepo struct {
	store *memoryStore
}

func (r memoryApplicationRepo) Create(ctx context.Context, application *domain.Application) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.applications {
		if existing.JobID == application.JobID && existing.ApplicantID == application.ApplicantID {
			return repository.ErrDuplicateApplication
		}
	}
	application.ID = s.nextID("application")
	application.AppliedAt = s.base.Add(time.Duration(s.seq) * time.Second)
	s.applications = append(s.applications, *application)
	return nil
}

func (r memoryApplicationRepo) GetByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*domain.Application, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.applications {
		if s.applications[i].JobID == jobID && s.applications[i].ApplicantID == applicantID {
			application := s.applications[i]
			return &application, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memoryApplicationRepo) ListByApplicantWithJobs(ctx context.Context, applicantID string) ([]repository.ApplicationWithJob, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []repository.ApplicationWithJob
	for _, app := range s.applications {
		if app.ApplicantID != applicantID {
			continue
		}
		for _, job := range s.jobs {
			if job.ID == app.JobID {
				result = append(result, repository.ApplicationWithJob{Application: app, Job: job})
				break
			}
		}
	}
	return result, nil
}

type memoryUserRepo struct {
	store *memoryStore
}

func (r memoryUserRepo) Create(ctx context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID("user")
	s.users = append(s.users, *user)
	return nil
}

func (r memoryUserRepo) Update(ctx context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = *user
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r memoryUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memoryUserRepo) GetByProvider(ctx context.Context, provider, providerID string) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Provider == provider && s.users[i].ProviderID == providerID {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type staticProvider struct{}

func (staticProvider) AuthCodeURL(state string) string { return "https://provider.example/" + state }
func (staticProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "token"}, nil
}
func (staticProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*auth.OAuthProfile, error) {
	return &auth.OAuthProfile{ProviderID: "1", Name: "Someone"}, nil
}

type staticStateStore struct{}

func (staticStateStore) Issue(ctx context.Context) (string, error) { return "state", nil }
func (staticStateStore) Validate(ctx context.Context, state string) error {
	if state != "state" {
		return auth.ErrInvalidState
	}
	return nil
}

type testEnv struct {
	app   *fiber.App
	store *memoryStore
	auth  *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := &memoryStore{base: time.Now()}
	userRepo := memoryUserRepo{store: store}

	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", SessionTTLMinutes: 60}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Provider:   staticProvider{},
		StateStore: staticStateStore{},
	})
	jobService := service.NewJobService(service.JobDependencies{
		JobRepo:         store,
		ApplicationRepo: memoryApplicationRepo{store: store},
		Dispatcher:      events.NewInMemoryDispatcher(),
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Jobs:           handlers.NewJobsHandler(jobService),
		Dashboard:      handlers.NewDashboardHandler(jobService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})

	return &testEnv{app: app, store: store, auth: authService}
}

func (e *testEnv) seedUser(t *testing.T, name string) (*domain.User, string) {
	t.Helper()
	user := &domain.User{Name: name, Provider: "github", ProviderID: name}
	require.NoError(t, memoryUserRepo{store: e.store}.Create(context.Background(), user))
	token, _, err := e.auth.TokenManager().GenerateToken(user.ID, user.Name)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *nethttp.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *nethttp.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func validJobPayload() map[string]any {
	return map[string]any{
		"title":       "Backend Engineer",
		"company":     "Acme",
		"location":    "Remote",
		"type":        "FULL_TIME",
		"description": "Build APIs",
	}
}

func TestListJobsEmpty(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/jobs", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Empty(t, payload["data"])
}

func TestCreateJobRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/jobs", "", validJobPayload())
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	payload := decodeBody(t, resp)
	errBody := payload["error"].(map[string]any)
	assert.Equal(t, "UNAUTHORIZED", errBody["code"])
}

func TestCreateJobRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "ada")

	body := validJobPayload()
	delete(body, "title")

	resp := env.request(t, "POST", "/jobs", token, body)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	payload := decodeBody(t, resp)
	errBody := payload["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
}

func TestCreateAndListJobs(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "ada")

	resp := env.request(t, "POST", "/jobs", token, validJobPayload())
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	created := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "Backend Engineer", created["title"])
	assert.Equal(t, user.ID, created["posted_by_id"])

	resp = env.request(t, "GET", "/jobs", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	listed := decodeBody(t, resp)["data"].([]any)
	require.Len(t, listed, 1)
}

func TestListJobsFilterQuery(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "ada")

	first := validJobPayload()
	resp := env.request(t, "POST", "/jobs", token, first)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	second := validJobPayload()
	second["title"] = "Gardener"
	second["company"] = "Green Co"
	second["description"] = "Tend plants"
	resp = env.request(t, "POST", "/jobs", token, second)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, "GET", "/jobs?q=acme", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	listed := decodeBody(t, resp)["data"].([]any)
	require.Len(t, listed, 1)
	assert.Equal(t, "Backend Engineer", listed[0].(map[string]any)["title"])

	resp = env.request(t, "GET", "/jobs?type=FULL_TIME&location=remote", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	listed = decodeBody(t, resp)["data"].([]any)
	assert.Len(t, listed, 2)
}

func TestGetJobNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/jobs/missing", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestApplyFlow(t *testing.T) {
	env := newTestEnv(t)
	_, posterToken := env.seedUser(t, "ada")
	applicant, applicantToken := env.seedUser(t, "bob")

	resp := env.request(t, "POST", "/jobs", posterToken, validJobPayload())
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	jobID := decodeBody(t, resp)["data"].(map[string]any)["id"].(string)

	resp = env.request(t, "POST", "/jobs/"+jobID+"/apply", applicantToken, nil)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "PENDING", created["status"])
	assert.Equal(t, applicant.ID, created["applicant_id"])
	assert.Equal(t, jobID, created["job_id"])

	resp = env.request(t, "POST", "/jobs/"+jobID+"/apply", applicantToken, nil)
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	errBody := decodeBody(t, resp)["error"].(map[string]any)
	assert.Equal(t, "Application already exists", errBody["message"])

	require.Len(t, env.store.applications, 1)
}

func TestApplyToMissingJob(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "bob")

	resp := env.request(t, "POST", "/jobs/missing/apply", token, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestApplyRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/jobs/job-1/apply", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	_, posterToken := env.seedUser(t, "ada")
	_, applicantToken := env.seedUser(t, "bob")

	resp := env.request(t, "POST", "/jobs", posterToken, validJobPayload())
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	jobID := decodeBody(t, resp)["data"].(map[string]any)["id"].(string)

	resp = env.request(t, "POST", "/jobs/"+jobID+"/apply", applicantToken, nil)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, "GET", "/dashboard", posterToken, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	posterView := decodeBody(t, resp)["data"].(map[string]any)
	postedJobs := posterView["posted_jobs"].([]any)
	require.Len(t, postedJobs, 1)
	assert.Equal(t, float64(1), postedJobs[0].(map[string]any)["application_count"])
	assert.Empty(t, posterView["applications"])

	resp = env.request(t, "GET", "/dashboard", applicantToken, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	applicantView := decodeBody(t, resp)["data"].(map[string]any)
	applications := applicantView["applications"].([]any)
	require.Len(t, applications, 1)
	entry := applications[0].(map[string]any)
	assert.Equal(t, "PENDING", entry["status"])
	assert.Equal(t, "Backend Engineer", entry["job"].(map[string]any)["title"])
	assert.Empty(t, applicantView["posted_jobs"])
}

func TestDashboardEmptyUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "nobody")

	resp := env.request(t, "GET", "/dashboard", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	view := decodeBody(t, resp)["data"].(map[string]any)
	assert.Empty(t, view["posted_jobs"])
	assert.Empty(t, view["applications"])
}

func TestAuthMe(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "ada")

	resp := env.request(t, "GET", "/auth/me", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	me := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, user.ID, me["id"])
	assert.Equal(t, "ada", me["name"])
}

func TestAuthMeRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/auth/me", "garbage", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
