package postgres

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

// dryRunDB renders SQL without a server
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func sessionSQL(t *testing.T, filters repositories.SessionFilters, paged bool) string {
	t.Helper()
	db := dryRunDB(t)
	repo := &SessionPostgreSQL{db: db}
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var sessions []*models.MentorSession
		return repo.listQuery(tx, filters, paged).Find(&sessions)
	})
}

func uintPtr(v uint) *uint { return &v }

func TestApplySessionFilters_ChapterOnly(t *testing.T) {
	sql := sessionSQL(t, repositories.SessionFilters{ChapterID: 3}, true)

	assert.Contains(t, sql, "mentor_sessions.chapter_id = 3")
	assert.NotContains(t, sql, "user_id =")
	assert.NotContains(t, sql, "BETWEEN")
	assert.NotContains(t, sql, "IS NOT NULL")
	assert.Contains(t, sql, "ORDER BY mentor_sessions.completed_on DESC")
	assert.Contains(t, sql, "LIMIT 10")
}

func TestApplySessionFilters_AllCriteria(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	sql := sessionSQL(t, repositories.SessionFilters{
		ChapterID:   3,
		MentorID:    uintPtr(7),
		StudentID:   uintPtr(9),
		StartDate:   &start,
		EndDate:     &end,
		IsCompleted: true,
		IsSignedOff: true,
		PageNumber:  2,
		PageSize:    25,
	}, true)

	assert.Contains(t, sql, "mentor_sessions.user_id = 7")
	assert.Contains(t, sql, "mentor_sessions.student_id = 9")
	assert.Contains(t, sql, "mentor_sessions.attended_on BETWEEN '2024-02-01' AND '2024-02-29'")
	assert.Contains(t, sql, "mentor_sessions.completed_on IS NOT NULL")
	assert.Contains(t, sql, "mentor_sessions.signed_off_on IS NOT NULL")
	assert.Contains(t, sql, "LIMIT 25 OFFSET 50")
}

func TestApplySessionFilters_SingleDateBoundIgnored(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	sql := sessionSQL(t, repositories.SessionFilters{ChapterID: 1, StartDate: &start}, true)
	assert.NotContains(t, sql, "attended_on BETWEEN")
}

func TestSessionList_UnpagedHasNoLimit(t *testing.T) {
	sql := sessionSQL(t, repositories.SessionFilters{ChapterID: 1, PageSize: 5}, false)
	assert.NotContains(t, sql, "LIMIT")
}

func TestSessionFilters_Pagination(t *testing.T) {
	limit, offset := repositories.SessionFilters{}.Pagination()
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	limit, offset = repositories.SessionFilters{PageNumber: 3, PageSize: 20}.Pagination()
	assert.Equal(t, 20, limit)
	assert.Equal(t, 60, offset)

	_, offset = repositories.SessionFilters{PageNumber: -1}.Pagination()
	assert.Equal(t, 0, offset)
}

func TestSessionFilters_PaginationClampsSize(t *testing.T) {
	limit, offset := repositories.SessionFilters{PageSize: 1_000_000_000}.Pagination()
	assert.Equal(t, repositories.MaxSessionPageSize, limit)
	assert.Equal(t, 0, offset)
}

func TestSessionFilters_PaginationCannotOverflow(t *testing.T) {
	filters := repositories.SessionFilters{PageNumber: math.MaxInt / 5, PageSize: 10}

	limit, offset := filters.Pagination()
	assert.Equal(t, 10, limit)
	assert.Positive(t, offset)
	assert.LessOrEqual(t, offset, math.MaxInt32)
	assert.Equal(t, offset/limit, filters.Page())

	sql := sessionSQL(t, filters, true)
	assert.Contains(t, sql, fmt.Sprintf("OFFSET %d", offset))
}

func TestClaimQuery(t *testing.T) {
	db := dryRunDB(t)
	repo := &UserPostgreSQL{db: db}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repo.claimQuery(tx, 42, now, 5*time.Minute).Update("provisioning_started_at", now)
	})

	assert.Contains(t, sql, `UPDATE "users" SET "provisioning_started_at"=`)
	assert.Contains(t, sql, "id = 42 AND azure_ad_id IS NULL")
	assert.Contains(t, sql, "provisioning_started_at IS NULL OR provisioning_started_at < '2024-05-01 09:55:00")
}

func TestApplyPaginationAndSort(t *testing.T) {
	db := dryRunDB(t)
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var users []*models.User
		return applyPaginationAndSort(tx.Model(&models.User{}), userSortColumns, "first_name", "email; DROP TABLE users", "desc", 10, 20).Find(&users)
	})

	assert.Contains(t, sql, "ORDER BY first_name DESC")
	assert.NotContains(t, sql, "DROP TABLE")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
}

func TestSearchPattern(t *testing.T) {
	assert.Equal(t, "%ada%", searchPattern(" ada "))
	assert.Equal(t, `%50\%\_off%`, searchPattern("50%_off"))
}
