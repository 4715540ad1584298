// File: internal/profile/service_test.go
package profile_test

import (
	"context"
	"testing"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/mapping"
	"github.com/Ninano9/camera/internal/profile"
	"github.com/Ninano9/camera/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// noMappings satisfies shared.MappingSummaryProvider for tests that do not
// care about embedded mapping summaries.
type noMappings struct{}

func (noMappings) SummariesForProfile(ctx context.Context, profileID uuid.UUID) ([]shared.MappingSummary, error) {
	return nil, nil
}

type ProfileServiceTestSuite struct {
	suite.Suite
	db     *gorm.DB
	repo   profile.Repository
	svc    profile.Service
	userID uuid.UUID
}

func (s *ProfileServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&profile.Profile{}, &mapping.Mapping{}))
	s.db = db

	s.repo = profile.NewGORMRepository(db)
	s.svc = profile.NewService(s.repo, noMappings{}, zap.NewNop())
	s.userID = uuid.New()
}

func (s *ProfileServiceTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func TestProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}

func (s *ProfileServiceTestSuite) create(userID uuid.UUID, name string, isDefault bool) *profile.Profile {
	p, err := s.svc.Create(context.Background(), userID, profile.CreateRequest{
		Name:      name,
		IsDefault: isDefault,
	})
	s.Require().NoError(err)
	return p
}

func (s *ProfileServiceTestSuite) TestCreateAndGet() {
	created := s.create(s.userID, "Reading", false)

	got, _, err := s.svc.Get(context.Background(), s.userID, created.ID)
	s.Require().NoError(err)
	s.Equal("Reading", got.Name)
	s.True(got.IsActive)
	s.False(got.IsDefault)
}

func (s *ProfileServiceTestSuite) TestCreateDuplicateNameConflicts() {
	s.create(s.userID, "Reading", false)

	_, err := s.svc.Create(context.Background(), s.userID, profile.CreateRequest{Name: "Reading"})
	s.Require().Error(err)
	s.ErrorIs(err, common.ErrConflict)
}

func (s *ProfileServiceTestSuite) TestSameNameAllowedAcrossUsers() {
	s.create(s.userID, "Reading", false)
	other := uuid.New()

	_, err := s.svc.Create(context.Background(), other, profile.CreateRequest{Name: "Reading"})
	s.NoError(err, "name uniqueness is per user")
}

func (s *ProfileServiceTestSuite) TestDefaultIsExclusive() {
	first := s.create(s.userID, "First", true)
	second := s.create(s.userID, "Second", true)

	got, err := s.svc.GetDefault(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Equal(second.ID, got.ID)

	// The previous default was demoted.
	reloaded, _, err := s.svc.Get(context.Background(), s.userID, first.ID)
	s.Require().NoError(err)
	s.False(reloaded.IsDefault)
}

func (s *ProfileServiceTestSuite) TestUpdatePromotesNewDefault() {
	first := s.create(s.userID, "First", true)
	second := s.create(s.userID, "Second", false)

	makeDefault := true
	_, err := s.svc.Update(context.Background(), s.userID, second.ID, profile.UpdateRequest{IsDefault: &makeDefault})
	s.Require().NoError(err)

	got, err := s.svc.GetDefault(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Equal(second.ID, got.ID)

	reloaded, _, err := s.svc.Get(context.Background(), s.userID, first.ID)
	s.Require().NoError(err)
	s.False(reloaded.IsDefault)
}

func (s *ProfileServiceTestSuite) TestUpdateRename() {
	p := s.create(s.userID, "Old name", false)

	name := "New name"
	updated, err := s.svc.Update(context.Background(), s.userID, p.ID, profile.UpdateRequest{Name: &name})
	s.Require().NoError(err)
	s.Equal("New name", updated.Name)
}

func (s *ProfileServiceTestSuite) TestUpdateRenameToTakenNameConflicts() {
	s.create(s.userID, "Taken", false)
	p := s.create(s.userID, "Free", false)

	name := "Taken"
	_, err := s.svc.Update(context.Background(), s.userID, p.ID, profile.UpdateRequest{Name: &name})
	s.Require().Error(err)
	s.ErrorIs(err, common.ErrConflict)
}

func (s *ProfileServiceTestSuite) TestDeleteSoftDeletes() {
	p := s.create(s.userID, "Doomed", false)

	s.Require().NoError(s.svc.Delete(context.Background(), s.userID, p.ID))

	_, _, err := s.svc.Get(context.Background(), s.userID, p.ID)
	s.Require().Error(err)
	s.ErrorIs(err, common.ErrNotFound)

	list, err := s.svc.List(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ProfileServiceTestSuite) TestCannotDeleteDefaultProfile() {
	p := s.create(s.userID, "Default", true)

	err := s.svc.Delete(context.Background(), s.userID, p.ID)
	s.Require().Error(err)
	s.ErrorIs(err, common.ErrConflict)
}

func (s *ProfileServiceTestSuite) TestOtherUsersProfileReadsAsNotFound() {
	p := s.create(s.userID, "Mine", false)
	intruder := uuid.New()

	_, _, err := s.svc.Get(context.Background(), intruder, p.ID)
	s.ErrorIs(err, common.ErrNotFound)

	name := "Hijacked"
	_, err = s.svc.Update(context.Background(), intruder, p.ID, profile.UpdateRequest{Name: &name})
	s.ErrorIs(err, common.ErrNotFound)

	err = s.svc.Delete(context.Background(), intruder, p.ID)
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *ProfileServiceTestSuite) TestGetDefaultWithoutOneIsNotFound() {
	s.create(s.userID, "Not default", false)

	_, err := s.svc.GetDefault(context.Background(), s.userID)
	s.Require().Error(err)
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *ProfileServiceTestSuite) TestSummariesForUser() {
	s.create(s.userID, "A", true)
	s.create(s.userID, "B", false)

	summaries, err := s.svc.SummariesForUser(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Len(summaries, 2)
	defaults := 0
	for _, sum := range summaries {
		if sum.IsDefault {
			defaults++
		}
	}
	s.Equal(1, defaults)
}
