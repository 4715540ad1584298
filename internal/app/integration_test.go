// File: internal/app/integration_test.go
package app

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ninano9/camera/internal/auth"
	"github.com/Ninano9/camera/internal/client"
	"github.com/Ninano9/camera/internal/client/tokenstore"
	"github.com/Ninano9/camera/internal/config"
	"github.com/Ninano9/camera/internal/mapping"
	"github.com/Ninano9/camera/internal/profile"
	"github.com/Ninano9/camera/internal/telemetry"
	"github.com/Ninano9/camera/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// EndToEndTestSuite runs the session client against a fully assembled server
// backed by an in-memory database.
type EndToEndTestSuite struct {
	suite.Suite
	db        *gorm.DB
	srv       *httptest.Server
	store     *tokenstore.MemoryStore
	api       *client.Client
	session   *client.Session
	accessTTL time.Duration
}

func (s *EndToEndTestSuite) SetupTest() {
	if s.accessTTL == 0 {
		s.accessTTL = time.Hour
	}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(AutoMigrate(db))
	s.db = db

	cfg := &config.Config{
		GinMode:            gin.TestMode,
		JWTSecret:          "end-to-end-test-secret",
		JWTIssuer:          "camera-test",
		JWTAccessTokenTTL:  s.accessTTL,
		JWTRefreshTokenTTL: 24 * time.Hour,
	}
	logger := zap.NewNop()

	tokens := auth.NewJWTService(cfg)
	blocklist := auth.NewInMemoryBlocklistService(auth.InMemoryBlocklistConfig{
		DefaultExpiration: time.Minute,
		CleanupInterval:   time.Minute,
	})

	userRepo := user.NewGORMRepository(db)
	profileRepo := profile.NewGORMRepository(db)
	mappingRepo := mapping.NewGORMRepository(db)

	mappingSvc := mapping.NewService(mappingRepo, profileRepo, logger)
	profileSvc := profile.NewService(profileRepo, mappingSvc, logger)
	userSvc := user.NewService(userRepo, profileSvc, logger)
	authSvc := auth.NewService(userRepo, tokens, blocklist, logger)
	telemetrySvc := telemetry.NewService(telemetry.NewGORMRepository(db), logger)

	server, err := NewServer(
		cfg,
		logger,
		auth.NewHandler(authSvc, logger),
		user.NewHandler(userSvc, logger),
		profile.NewHandler(profileSvc, logger),
		mapping.NewHandler(mappingSvc, logger),
		telemetry.NewHandler(telemetrySvc, logger),
		nil, // no retention job in tests
		tokens,
		blocklist,
	)
	s.Require().NoError(err)

	s.srv = httptest.NewServer(server.Router())
	s.store = tokenstore.NewMemoryStore()
	s.api = client.New(s.srv.URL, s.store)
	s.session = client.NewSession(s.api, logger)
}

func (s *EndToEndTestSuite) TearDownTest() {
	s.srv.Close()
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
	s.accessTTL = 0
}

func TestEndToEndTestSuite(t *testing.T) {
	suite.Run(t, new(EndToEndTestSuite))
}

func (s *EndToEndTestSuite) signUp() {
	s.Require().NoError(s.session.Register(context.Background(), "jo@example.com", "correct-horse", nil))
	s.Require().True(s.session.Authenticated())
}

func (s *EndToEndTestSuite) TestRegisterLoginAndProfileFlow() {
	ctx := context.Background()
	s.signUp()

	p, err := s.api.CreateProfile(ctx, profile.CreateRequest{
		Name:      "Main",
		IsDefault: true,
		Context:   map[string]interface{}{"lighting": "dim"},
	})
	s.Require().NoError(err)
	s.True(p.IsDefault)

	got, err := s.api.GetDefaultProfile(ctx)
	s.Require().NoError(err)
	s.Equal(p.ID, got.ID)

	m, err := s.api.CreateMapping(ctx, p.ID, mapping.CreateRequest{
		Name:      "Pinch to click",
		Condition: map[string]interface{}{"gesture": "pinch"},
		Action:    map[string]interface{}{"type": "click"},
		Priority:  5,
	})
	s.Require().NoError(err)
	s.True(m.Enabled)

	mappings, err := s.api.ListMappings(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(mappings, 1)
	s.Equal("Pinch to click", mappings[0].Name)

	// The profile summary on the user now reflects the mapping count.
	u, err := s.api.Me(ctx)
	s.Require().NoError(err)
	s.Require().Len(u.Profiles, 1)
	s.Equal(1, u.Profiles[0].MappingCount)
}

func (s *EndToEndTestSuite) TestUpdateUserFlowsThroughSession() {
	ctx := context.Background()
	s.signUp()

	name := "Jo Doe"
	s.Require().NoError(s.session.UpdateUser(ctx, user.UpdateRequest{DisplayName: &name}))

	snap := s.session.Snapshot()
	s.Require().NotNil(snap.User.DisplayName)
	s.Equal("Jo Doe", *snap.User.DisplayName)
}

func (s *EndToEndTestSuite) TestSessionSurvivesRestart() {
	ctx := context.Background()
	s.signUp()

	// A fresh session over the same store simulates a process restart.
	restarted := client.NewSession(s.api, zap.NewNop())
	s.Require().NoError(restarted.Initialize(ctx))
	s.True(restarted.Authenticated())
	s.Equal("jo@example.com", restarted.Snapshot().User.Email)
}

func (s *EndToEndTestSuite) TestLogoutRevokesAccessToken() {
	ctx := context.Background()
	s.signUp()

	pair, ok := s.store.Get()
	s.Require().True(ok)

	s.session.Logout(ctx)
	s.False(s.session.Authenticated())
	_, ok = s.store.Get()
	s.False(ok)

	// Presenting the revoked access token with no refresh token must end in
	// an invalid session, not a successful call.
	s.Require().NoError(s.store.Set(tokenstore.Pair{AccessToken: pair.AccessToken}))
	_, err := s.api.Me(ctx)
	s.Require().ErrorIs(err, client.ErrSessionInvalid)
	_, ok = s.store.Get()
	s.False(ok)
}

func (s *EndToEndTestSuite) TestGuardAgainstRealBackend() {
	ctx := context.Background()
	guard := client.NewGuard(s.session, client.GuardConfig{}, nil)

	decision := guard.Check(ctx, "/profiles")
	s.Require().False(decision.Allowed)
	s.Contains(decision.RedirectTo, "/login?")

	s.signUp()
	decision = guard.Check(ctx, "/profiles")
	s.True(decision.Allowed)

	decision = guard.Check(ctx, "/login")
	s.Equal("/", decision.RedirectTo)
}

// ExpiredTokenTestSuite reruns the refresh path with a tiny access TTL so a
// real token actually expires mid-session.
type ExpiredTokenTestSuite struct {
	EndToEndTestSuite
}

func (s *ExpiredTokenTestSuite) SetupTest() {
	s.accessTTL = 1 * time.Second
	s.EndToEndTestSuite.SetupTest()
}

func TestExpiredTokenTestSuite(t *testing.T) {
	suite.Run(t, new(ExpiredTokenTestSuite))
}

func (s *ExpiredTokenTestSuite) TestExpiredAccessTokenIsRefreshedTransparently() {
	ctx := context.Background()
	s.signUp()

	before, ok := s.store.Get()
	s.Require().True(ok)

	// Wait for the access token to expire for real.
	time.Sleep(1100 * time.Millisecond)

	u, err := s.api.Me(ctx)
	s.Require().NoError(err, "the client should refresh and retry without surfacing the 401")
	s.Equal("jo@example.com", u.Email)

	after, ok := s.store.Get()
	s.Require().True(ok)
	s.NotEqual(before.AccessToken, after.AccessToken, "access token was rotated")
	s.NotEqual(before.RefreshToken, after.RefreshToken, "refresh token was rotated with it")
}
