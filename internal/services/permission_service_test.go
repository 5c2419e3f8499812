package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achievers-club/mentoring-service/internal/events"
	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

func newPermissionFixture() (PermissionService, *fakeRepo, *events.MockEventPublisher) {
	repo := newFakeRepo()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewPermissionService(repo, publisher, testLogger(), validator.New(), models.DefaultRoleIDs)
	return svc, repo, publisher
}

func TestPermissionService_AssignRole(t *testing.T) {
	svc, repo, publisher := newPermissionFixture()
	admin := models.DefaultRoleIDs.Admin

	result, err := svc.AssignRole(context.Background(), "oid-1", &RoleAssignmentRequest{RoleID: admin})
	require.NoError(t, err)
	assert.Equal(t, "assignment-1", result.ID)

	assert.Equal(t, []string{"dir:list_roles", "dir:assign:oid-1:" + admin}, repo.log.all())
	require.Len(t, publisher.GetPublishedEvents(), 1)
	assert.Equal(t, events.EventRoleAssigned, publisher.GetPublishedEvents()[0].Type)
}

func TestPermissionService_AssignRoleRejectsUnknownRole(t *testing.T) {
	svc, repo, _ := newPermissionFixture()

	_, err := svc.AssignRole(context.Background(), "oid-1", &RoleAssignmentRequest{RoleID: "6b1d9c1e-0000-4000-8000-000000000000"})

	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "role_id", ve[0].Field)
	assert.Empty(t, repo.log.withPrefix("dir:assign"))
}

func TestPermissionService_AssignRoleRejectsMalformedRole(t *testing.T) {
	svc, repo, _ := newPermissionFixture()

	_, err := svc.AssignRole(context.Background(), "oid-1", &RoleAssignmentRequest{RoleID: "admin"})

	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Empty(t, repo.log.all())
}

func TestPermissionService_ListDirectoryUsers(t *testing.T) {
	svc, repo, _ := newPermissionFixture()
	ids := models.DefaultRoleIDs
	repo.directory.addIdentity("oid-a", ids.Admin, ids.Mentor)
	repo.directory.addIdentity("oid-b", ids.Student)

	users, err := svc.ListDirectoryUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.RoleSet{Admin: true, Mentor: true}, users[0].Roles)
	assert.Equal(t, models.RoleSet{Student: true}, users[1].Roles)
}

func TestPermissionService_DirectoryFailurePropagates(t *testing.T) {
	svc, repo, _ := newPermissionFixture()
	repo.directory.listErr = errDirectoryDown

	_, err := svc.ListDirectoryUsers(context.Background())
	assert.ErrorIs(t, err, repositories.ErrDirectoryUnavailable)

	_, err = svc.AssignRole(context.Background(), "oid-1", &RoleAssignmentRequest{RoleID: models.DefaultRoleIDs.Mentor})
	assert.ErrorIs(t, err, repositories.ErrDirectoryUnavailable)
}

func TestPermissionService_RemoveRole(t *testing.T) {
	svc, repo, publisher := newPermissionFixture()

	require.NoError(t, svc.RemoveRole(context.Background(), "assignment-7"))
	assert.Equal(t, []string{"dir:remove:assignment-7"}, repo.log.all())
	assert.Equal(t, events.EventRoleRemoved, publisher.GetPublishedEvents()[0].Type)

	var ve validator.ValidationErrors
	assert.True(t, errors.As(svc.RemoveRole(context.Background(), ""), &ve))
}
