package helper_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/campuscrush/app/internal"
	"github.com/campuscrush/app/internal/config"
	"github.com/campuscrush/app/internal/datastore/seed"
	"github.com/campuscrush/app/internal/entity"
	"github.com/campuscrush/app/pkg/http_util"
	"github.com/campuscrush/app/pkg/path"
	"github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestServerResources holds everything a suite needs to reach the
// server and its backing stores.
type TestServerResources struct {
	Cancel        context.CancelFunc
	Config        *config.Config
	Pool          *dockertest.Pool
	DBResource    *dockertest.Resource
	RedisResource *dockertest.Resource
	BaseURL       string
	ORM           *gorm.DB
	Redis         *redis.Client
}

// SetupTestServer boots postgres and redis in Docker, migrates, and
// starts the HTTP server. Suites gate on INTEGRATION_TEST before
// calling this so plain `go test ./...` stays Docker-free.
func SetupTestServer(ctx context.Context) (*TestServerResources, error) {
	ctx, cancel := context.WithCancel(ctx)
	var gormDB *gorm.DB
	var redisClient *redis.Client

	cfg, err := config.NewConfig("TEST")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}

	pool, dbResource, redisResource, err := setupDockerResources(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not set up Docker resources: %w", err)
	}

	var dsn string
	pool.MaxWait = 10 * time.Second
	if err := pool.Retry(func() error {
		gormDB, dsn, err = connectToPostgres(dbResource, cfg)
		return err
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("could not connect to postgres: %s", err)
	}

	if err := pool.Retry(func() error {
		redisClient, err = connectToRedis(ctx, redisResource)
		return err
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("could not connect to redis: %s", err)
	}

	dbConnection, err := gormDB.DB()
	if err != nil {
		cancel()
		return nil, err
	}

	if err := runMigrations(dbConnection, dsn); err != nil {
		cancel()
		return nil, err
	}

	go internal.Run(ctx, os.Stdout, []string{"app", "test"})

	baseURL := "http://localhost:" + cfg.Get("PORT")
	if !waitForServer(ctx, baseURL) {
		pool.Purge(redisResource)
		pool.Purge(dbResource)
		cancel()
		return nil, fmt.Errorf("server did not start within timeout")
	}

	return &TestServerResources{
		Cancel:        cancel,
		Config:        cfg,
		Pool:          pool,
		DBResource:    dbResource,
		RedisResource: redisResource,
		BaseURL:       baseURL,
		ORM:           gormDB,
		Redis:         redisClient,
	}, nil
}

func (resources *TestServerResources) CleanupTestServer() {
	if resources == nil {
		return
	}

	if resources.Cancel != nil {
		resources.Cancel()
	}

	if resources.Pool != nil {
		if resources.DBResource != nil {
			if err := resources.Pool.Purge(resources.DBResource); err != nil {
				log.Printf("Could not purge PostgreSQL: %s", err)
			}
		}

		if resources.RedisResource != nil {
			if err := resources.Pool.Purge(resources.RedisResource); err != nil {
				log.Printf("Could not purge Redis: %s", err)
			}
		}
	}
}

func setupDockerResources(cfg *config.Config) (*dockertest.Pool, *dockertest.Resource, *dockertest.Resource, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to docker: %s", err)
	}

	dbOptions := &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", cfg.Get("POSTGRES_USER")),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", cfg.Get("POSTGRES_PASSWORD")),
			fmt.Sprintf("POSTGRES_DB=%s", cfg.Get("POSTGRES_DB_NAME")),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("POSTGRES_PORT"))}},
		},
	}
	dbResource, err := pool.RunWithOptions(dbOptions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not start postgres: %s", err)
	}

	redisOptions := &dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
		PortBindings: map[docker.Port][]docker.PortBinding{
			"6379/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("REDIS_PORT"))}},
		},
	}
	redisResource, err := pool.RunWithOptions(redisOptions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not start redis: %s", err)
	}

	return pool, dbResource, redisResource, nil
}

func connectToPostgres(dbResource *dockertest.Resource, cfg *config.Config) (*gorm.DB, string, error) {
	hostPort := strings.Split(dbResource.GetHostPort("5432/tcp"), ":")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		hostPort[0],
		hostPort[1],
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"))

	gormDB, err := gorm.Open(postgres.Open(dsn))
	if err != nil {
		return nil, "", err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, "", err
	}

	return gormDB, dsn, sqlDB.Ping()
}

func connectToRedis(ctx context.Context, redisResource *dockertest.Resource) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:" + redisResource.GetPort("6379/tcp"),
	})
	return redisClient, redisClient.Ping(ctx).Err()
}

func runMigrations(db *sql.DB, _ string) error {
	driver, err := migratePostgres.WithInstance(db, &migratePostgres.Config{})
	if err != nil {
		return err
	}

	basePath, err := os.Getwd()
	if err != nil {
		return err
	}

	migrationPath, err := path.FindRoot(basePath, "migrations", true)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationPath+"/migrations",
		"postgres", driver)
	if err != nil {
		return err
	}

	return m.Up()
}

func waitForServer(ctx context.Context, baseURL string) bool {
	loopContext, cancelLoopContext := context.WithTimeout(ctx, 120*time.Second)
	defer cancelLoopContext()

	for {
		select {
		case <-loopContext.Done():
			return false
		default:
			resp, err := http.Get(baseURL + "/healthz")
			if err != nil {
				time.Sleep(1 * time.Second)
				continue
			}
			resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				return true
			}
			time.Sleep(1 * time.Second)
		}
	}
}

// SignUpProfile registers a profile through the API with sane campus
// defaults and returns the created identity.
func SignUpProfile(t *testing.T, baseURL, name, email, password string, sex entity.Sex) (entity.SignUpResponse, error) {
	reqBody := entity.SignUpRequest{
		Name:       name,
		Email:      email,
		Password:   password,
		Program:    "CSE",
		Batch:      "2024",
		Section:    "A",
		Sex:        sex,
		Age:        21,
		Photos:     []string{"photo-1.jpg"},
		Chronotype: 50,
		DreamTrip:  "Ladakh on a rented bike",
		PartySpot:  "The terrace",
		RedFlag:    "Replies with voice notes",
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	resp := doJSON(t, http.MethodPost, baseURL+"/v1/auth/sign-up", "", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response := http_util.HTTPResponse[entity.SignUpResponse]{}
	response, err = http_util.DecodeBody(bodyBytes, response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return response.Data, nil
}

func SignInProfile(t *testing.T, baseURL, email, password string) (token string, err error) {
	reqBody := entity.SignInRequest{
		Email:    email,
		Password: password,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	resp := doJSON(t, http.MethodPost, baseURL+"/v1/auth/sign-in", "", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response := http_util.HTTPResponse[entity.SignInResponse]{}
	response, err = http_util.DecodeBody(bodyBytes, response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return response.Data.Token, nil
}

func doJSON(t *testing.T, method, url, token string, body []byte) *http.Response {
	req, err := http.NewRequest(method, url, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	return resp
}

// DoAuthed is doJSON exported for suites that hit arbitrary endpoints.
func DoAuthed(t *testing.T, method, url, token string, body []byte) *http.Response {
	return doJSON(t, method, url, token, body)
}

// PopulateProfiles seeds fake profiles directly through the ORM.
func PopulateProfiles(db *gorm.DB, count int) ([]entity.Profile, error) {
	return seed.PopulateProfiles(db, count)
}
