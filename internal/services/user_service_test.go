package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

func newUserFixture() (UserService, *fakeRepo, *models.Chapter) {
	repo := newFakeRepo()
	chapter := repo.chapters.put(&models.Chapter{Name: "Westside"})
	return NewUserService(repo, testLogger(), validator.New()), repo, chapter
}

func TestUserService_Create(t *testing.T) {
	svc, _, chapter := newUserFixture()

	user, err := svc.Create(context.Background(), &CreateUserRequest{
		Email:     "Mentor@Example.com",
		FirstName: " Ada ",
		LastName:  "Lovelace",
		ChapterID: chapter.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, testMentorEmail, user.Email)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Nil(t, user.AzureADID)

	_, err = svc.Create(context.Background(), &CreateUserRequest{
		Email:     "MENTOR@example.com",
		FirstName: "Other",
		LastName:  "Person",
		ChapterID: chapter.ID,
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserService_CreateUnknownChapter(t *testing.T) {
	svc, _, _ := newUserFixture()

	_, err := svc.Create(context.Background(), &CreateUserRequest{
		Email:     testMentorEmail,
		FirstName: "Ada",
		LastName:  "Lovelace",
		ChapterID: 99,
	})
	assert.ErrorIs(t, err, ErrChapterNotFound)
}

func TestUserService_Update(t *testing.T) {
	svc, repo, chapter := newUserFixture()
	user := repo.users.put(&models.User{Email: testMentorEmail, FirstName: "Ada", LastName: "Lovelace", ChapterID: chapter.ID})
	repo.users.put(&models.User{Email: "taken@example.com", FirstName: "T", LastName: "T", ChapterID: chapter.ID})

	mobile := "0400 000 000"
	updated, err := svc.Update(context.Background(), user.ID, &UpdateUserRequest{Mobile: &mobile})
	require.NoError(t, err)
	assert.Equal(t, mobile, updated.Mobile)
	assert.Equal(t, "Ada", updated.FirstName)

	taken := "taken@example.com"
	_, err = svc.Update(context.Background(), user.ID, &UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Update(context.Background(), 404, &UpdateUserRequest{Mobile: &mobile})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateWWCCheck(t *testing.T) {
	svc, repo, chapter := newUserFixture()
	user := repo.users.put(&models.User{Email: testMentorEmail, ChapterID: chapter.ID})

	check, err := svc.UpdateWWCCheck(context.Background(), user.ID, &WWCCheckRequest{
		WWCNumber:  " WWC0012345E ",
		ExpiryDate: "2026-05-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "WWC0012345E", check.WWCNumber)
	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), time.Time(check.ExpiryDate))
	assert.Same(t, check, repo.users.wwc[user.ID])
}

func TestUserService_UpdateWWCCheckMissingFields(t *testing.T) {
	svc, repo, chapter := newUserFixture()
	user := repo.users.put(&models.User{Email: testMentorEmail, ChapterID: chapter.ID})

	_, err := svc.UpdateWWCCheck(context.Background(), user.ID, &WWCCheckRequest{})

	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve, 2)
	assert.Empty(t, repo.users.wwc)
}

func TestUserService_UpdatePoliceCheck(t *testing.T) {
	svc, repo, chapter := newUserFixture()
	user := repo.users.put(&models.User{Email: testMentorEmail, ChapterID: chapter.ID})

	path := "checks/police.pdf"
	check, err := svc.UpdatePoliceCheck(context.Background(), user.ID, &PoliceCheckRequest{ExpiryDate: "2027-01-01", FilePath: &path})
	require.NoError(t, err)
	assert.Equal(t, &path, check.FilePath)

	_, err = svc.UpdatePoliceCheck(context.Background(), 404, &PoliceCheckRequest{ExpiryDate: "2027-01-01"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdatePoliceCheckWithoutFileKeepsPath(t *testing.T) {
	svc, repo, chapter := newUserFixture()
	user := repo.users.put(&models.User{Email: testMentorEmail, ChapterID: chapter.ID})

	path := "checks/police.pdf"
	_, err := svc.UpdatePoliceCheck(context.Background(), user.ID, &PoliceCheckRequest{ExpiryDate: "2027-01-01", FilePath: &path})
	require.NoError(t, err)

	check, err := svc.UpdatePoliceCheck(context.Background(), user.ID, &PoliceCheckRequest{ExpiryDate: "2028-01-01"})
	require.NoError(t, err)
	require.NotNil(t, check.FilePath)
	assert.Equal(t, path, *check.FilePath)
}

func TestUserService_ArchiveAndList(t *testing.T) {
	svc, repo, chapter := newUserFixture()
	a := repo.users.put(&models.User{Email: "a@example.com", ChapterID: chapter.ID})
	repo.users.put(&models.User{Email: "b@example.com", ChapterID: chapter.ID})

	require.NoError(t, svc.Archive(context.Background(), a.ID))
	assert.ErrorIs(t, svc.Archive(context.Background(), 404), ErrUserNotFound)

	page, err := svc.List(context.Background(), repositories.UserFilters{ChapterID: &chapter.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.Size)

	page, err = svc.List(context.Background(), repositories.UserFilters{IncludeArchived: true, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, MaxPageSize, page.Size)
}
