package postgres

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

var userSortColumns = map[string]string{
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"created_at": "created_at",
	"id":         "id",
}

// ===== BASIC CRUD OPERATIONS =====

func (r *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return handleDBError(err, "create user")
	}
	return nil
}

func (r *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Chapter").
		Preload("WWCCheck").
		Preload("PoliceCheck").
		First(&user, id).Error
	if err != nil {
		return nil, handleDBError(err, "get user by id")
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, handleDBError(err, "get user by email")
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByAzureADID(ctx context.Context, azureADID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("azure_ad_id = ?", azureADID).
		First(&user).Error
	if err != nil {
		return nil, handleDBError(err, "get user by azure ad id")
	}
	return &user, nil
}

func (r *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations, "azure_ad_id", "pending_azure_ad_id", "provisioning_started_at").
		Save(user).Error
	if err != nil {
		return handleDBError(err, "update user")
	}
	return nil
}

func (r *UserPostgreSQL) Archive(ctx context.Context, id uint, endDate time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("end_date", endDate)
	if result.Error != nil {
		return handleDBError(result.Error, "archive user")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "archive user")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var (
		users []*models.User
		total int64
	)

	query := r.applyUserFilters(r.db.WithContext(ctx).Model(&models.User{}), filters)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count users")
	}

	query = applyPaginationAndSort(query.Preload("Chapter"), userSortColumns, "first_name",
		filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, handleDBError(err, "list users")
	}
	return users, total, nil
}

func (r *UserPostgreSQL) ListOptions(ctx context.Context, chapterID uint) ([]models.Option, error) {
	var options []models.Option
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select(fullNameSelect).
		Where("chapter_id = ? AND end_date IS NULL", chapterID).
		Order("first_name ASC, last_name ASC").
		Scan(&options).Error
	if err != nil {
		return nil, handleDBError(err, "list user options")
	}
	return options, nil
}

func (r *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string, excludeID *uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check user email")
	}
	return count > 0, nil
}

func (r *UserPostgreSQL) applyUserFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.ChapterID != nil {
		query = query.Where("chapter_id = ?", *filters.ChapterID)
	}
	if strings.TrimSpace(filters.Query) != "" {
		pattern := searchPattern(filters.Query)
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	if !filters.IncludeArchived {
		query = query.Where("end_date IS NULL")
	}
	return query
}

// ===== VOLUNTEER CHECKS =====

func (r *UserPostgreSQL) SignVolunteerAgreement(ctx context.Context, id uint, signedOn time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("volunteer_agreement_signed_on", signedOn)
	if result.Error != nil {
		return handleDBError(result.Error, "sign volunteer agreement")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "sign volunteer agreement")
	}
	return nil
}

func (r *UserPostgreSQL) UpsertWWCCheck(ctx context.Context, check *models.WWCCheck) error {
	err := r.db.WithContext(ctx).
		Clauses(checkUpsertClause([]string{"wwc_number", "expiry_date", "updated_at"}, check.FilePath)).
		Create(check).Error
	if err != nil {
		return handleDBError(err, "upsert wwc check")
	}
	if check.FilePath == nil {
		return r.reloadCheck(ctx, check, check.UserID, "upsert wwc check")
	}
	return nil
}

func (r *UserPostgreSQL) UpsertPoliceCheck(ctx context.Context, check *models.PoliceCheck) error {
	err := r.db.WithContext(ctx).
		Clauses(checkUpsertClause([]string{"expiry_date", "updated_at"}, check.FilePath)).
		Create(check).Error
	if err != nil {
		return handleDBError(err, "upsert police check")
	}
	if check.FilePath == nil {
		return r.reloadCheck(ctx, check, check.UserID, "upsert police check")
	}
	return nil
}

// checkUpsertClause updates the stored file only when a new one was
// uploaded; an update without a file keeps the previous one.
func checkUpsertClause(columns []string, filePath *string) clause.OnConflict {
	if filePath != nil {
		columns = append(columns, "file_path")
	}
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}
}

// reloadCheck reads back a check so the caller sees the file path that was kept
func (r *UserPostgreSQL) reloadCheck(ctx context.Context, check interface{}, userID uint, op string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(check).Error; err != nil {
		return handleDBError(err, op)
	}
	return nil
}

// ===== DIRECTORY PROVISIONING =====

func (r *UserPostgreSQL) ClaimProvisioning(ctx context.Context, id uint, now time.Time, ttl time.Duration) error {
	result := r.claimQuery(r.db.WithContext(ctx), id, now, ttl).
		Update("provisioning_started_at", now)
	if result.Error != nil {
		return handleDBError(result.Error, "claim provisioning")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrConflict
	}
	return nil
}

// claimQuery matches the user only while it is unlinked and unclaimed, or
// its claim is older than ttl
func (r *UserPostgreSQL) claimQuery(db *gorm.DB, id uint, now time.Time, ttl time.Duration) *gorm.DB {
	return db.Model(&models.User{}).
		Where("id = ? AND azure_ad_id IS NULL", id).
		Where("provisioning_started_at IS NULL OR provisioning_started_at < ?", now.Add(-ttl))
}

func (r *UserPostgreSQL) ReleaseProvisioning(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"provisioning_started_at": nil}).Error
	return handleDBError(err, "release provisioning")
}

func (r *UserPostgreSQL) SavePendingExternalID(ctx context.Context, id uint, externalID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND azure_ad_id IS NULL", id).
		Update("pending_azure_ad_id", externalID)
	if result.Error != nil {
		return handleDBError(result.Error, "save pending external id")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrConflict
	}
	return nil
}

// SaveExternalID links the user. It returns ErrConflict when the user was
// linked in the meantime.
func (r *UserPostgreSQL) SaveExternalID(ctx context.Context, id uint, externalID string) error {
	result := r.linkQuery(r.db.WithContext(ctx), id).
		Updates(map[string]interface{}{
			"azure_ad_id":             externalID,
			"pending_azure_ad_id":     nil,
			"provisioning_started_at": nil,
		})
	if result.Error != nil {
		return handleDBError(result.Error, "save external id")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrConflict
	}
	return nil
}

func (r *UserPostgreSQL) linkQuery(db *gorm.DB, id uint) *gorm.DB {
	return db.Model(&models.User{}).Where("id = ? AND azure_ad_id IS NULL", id)
}
