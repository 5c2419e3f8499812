package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

const testMentorEmail = "mentor@example.com"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

// callLog records the side-effecting calls made against the fakes, in order
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) withPrefix(prefix string) []string {
	var out []string
	for _, c := range l.all() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// ===== REPOSITORY =====

type fakeRepo struct {
	log       *callLog
	users     *fakeUserRepo
	chapters  *fakeChapterRepo
	students  *fakeStudentRepo
	sessions  *fakeSessionRepo
	directory *fakeDirectory
}

func newFakeRepo() *fakeRepo {
	log := &callLog{}
	users := &fakeUserRepo{log: log, users: map[uint]*models.User{}}
	students := newFakeStudentRepo()
	students.users = users
	return &fakeRepo{
		log:       log,
		users:     users,
		chapters:  &fakeChapterRepo{chapters: map[uint]*models.Chapter{}},
		students:  students,
		sessions:  &fakeSessionRepo{sessions: map[uint]*models.MentorSession{}},
		directory: newFakeDirectory(log),
	}
}

func (r *fakeRepo) User() repositories.UserRepository           { return r.users }
func (r *fakeRepo) Chapter() repositories.ChapterRepository     { return r.chapters }
func (r *fakeRepo) Student() repositories.StudentRepository     { return r.students }
func (r *fakeRepo) Session() repositories.SessionRepository     { return r.sessions }
func (r *fakeRepo) Directory() repositories.DirectoryRepository { return r.directory }

func (r *fakeRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) Ping(ctx context.Context) error { return nil }
func (r *fakeRepo) Close() error                   { return nil }

// ===== USERS =====

type fakeUserRepo struct {
	repositories.UserRepository

	mu     sync.Mutex
	log    *callLog
	users  map[uint]*models.User
	nextID uint

	wwc    map[uint]*models.WWCCheck
	police map[uint]*models.PoliceCheck

	saveErr        error
	savePendingErr error
}

func (f *fakeUserRepo) put(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
	} else if user.ID > f.nextID {
		f.nextID = user.ID
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) stored(id uint) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.put(user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByAzureADID(ctx context.Context, azureADID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.AzureADID != nil && *u.AzureADID == azureADID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Archive(ctx context.Context, id uint, endDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.EndDate = &endDate
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.users {
		if filters.ChapterID != nil && u.ChapterID != *filters.ChapterID {
			continue
		}
		if !filters.IncludeArchived && u.EndDate != nil {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) ListOptions(ctx context.Context, chapterID uint) ([]models.Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Option
	for _, u := range f.users {
		if u.ChapterID == chapterID && u.EndDate == nil {
			out = append(out, models.Option{ID: u.ID, FullName: u.FullName()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID *uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if excludeID != nil && u.ID == *excludeID {
			continue
		}
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) SignVolunteerAgreement(ctx context.Context, id uint, signedOn time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.VolunteerAgreementSignedOn = &signedOn
	return nil
}

func (f *fakeUserRepo) UpsertWWCCheck(ctx context.Context, check *models.WWCCheck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.wwc == nil {
		f.wwc = map[uint]*models.WWCCheck{}
	}
	if prev, ok := f.wwc[check.UserID]; ok && check.FilePath == nil {
		check.FilePath = prev.FilePath
	}
	f.wwc[check.UserID] = check
	return nil
}

func (f *fakeUserRepo) UpsertPoliceCheck(ctx context.Context, check *models.PoliceCheck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.police == nil {
		f.police = map[uint]*models.PoliceCheck{}
	}
	if prev, ok := f.police[check.UserID]; ok && check.FilePath == nil {
		check.FilePath = prev.FilePath
	}
	f.police[check.UserID] = check
	return nil
}

func (f *fakeUserRepo) ClaimProvisioning(ctx context.Context, id uint, now time.Time, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.HasExternalIdentity() {
		return repositories.ErrConflict
	}
	if u.ProvisioningStartedAt != nil && !u.ProvisioningStartedAt.Before(now.Add(-ttl)) {
		return repositories.ErrConflict
	}
	u.ProvisioningStartedAt = &now
	f.log.add("claim:%d", id)
	return nil
}

func (f *fakeUserRepo) ReleaseProvisioning(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.ProvisioningStartedAt = nil
	}
	f.log.add("release:%d", id)
	return nil
}

func (f *fakeUserRepo) SavePendingExternalID(ctx context.Context, id uint, externalID string) error {
	f.log.add("save_pending:%d:%s", id, externalID)
	if f.savePendingErr != nil {
		return f.savePendingErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].PendingAzureADID = &externalID
	return nil
}

func (f *fakeUserRepo) SaveExternalID(ctx context.Context, id uint, externalID string) error {
	f.log.add("save:%d:%s", id, externalID)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	if u.AzureADID != nil {
		return repositories.ErrConflict
	}
	u.AzureADID = &externalID
	u.PendingAzureADID = nil
	u.ProvisioningStartedAt = nil
	return nil
}

// ===== CHAPTERS =====

type fakeChapterRepo struct {
	mu       sync.Mutex
	chapters map[uint]*models.Chapter
	nextID   uint
}

func (f *fakeChapterRepo) put(chapter *models.Chapter) *models.Chapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if chapter.ID == 0 {
		f.nextID++
		chapter.ID = f.nextID
	} else if chapter.ID > f.nextID {
		f.nextID = chapter.ID
	}
	f.chapters[chapter.ID] = chapter
	return chapter
}

func (f *fakeChapterRepo) List(ctx context.Context) ([]*models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Chapter, 0, len(f.chapters))
	for _, c := range f.chapters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeChapterRepo) GetByID(ctx context.Context, id uint) (*models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chapters[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeChapterRepo) Create(ctx context.Context, chapter *models.Chapter) error {
	f.put(chapter)
	return nil
}

func (f *fakeChapterRepo) Update(ctx context.Context, chapter *models.Chapter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *chapter
	f.chapters[chapter.ID] = &clone
	return nil
}

func (f *fakeChapterRepo) ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chapters {
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// ===== STUDENTS =====

type fakeStudentRepo struct {
	mu          sync.Mutex
	students    map[uint]*models.Student
	guardians   map[uint]*models.StudentGuardian
	teachers    map[uint]*models.StudentTeacher
	assignments map[[2]uint]bool // {userID, studentID}
	nextID      uint

	// users resolves mentor names for assignment options
	users *fakeUserRepo
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		students:    map[uint]*models.Student{},
		guardians:   map[uint]*models.StudentGuardian{},
		teachers:    map[uint]*models.StudentTeacher{},
		assignments: map[[2]uint]bool{},
	}
}

func (f *fakeStudentRepo) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStudentRepo) put(student *models.Student) *models.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	if student.ID == 0 {
		student.ID = f.id()
	} else if student.ID > f.nextID {
		f.nextID = student.ID
	}
	f.students[student.ID] = student
	return student
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	f.put(student)
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *student
	f.students[student.ID] = &clone
	return nil
}

func (f *fakeStudentRepo) Archive(ctx context.Context, id uint, endDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.EndDate = &endDate
	return nil
}

func (f *fakeStudentRepo) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Student
	for _, s := range f.students {
		if filters.ChapterID != nil && s.ChapterID != *filters.ChapterID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeStudentRepo) ListOptions(ctx context.Context, chapterID uint) ([]models.Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Option
	for _, s := range f.students {
		if s.ChapterID == chapterID && s.EndDate == nil {
			out = append(out, models.Option{ID: s.ID, FullName: s.FullName()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeStudentRepo) GetGuardian(ctx context.Context, studentID, guardianID uint) (*models.StudentGuardian, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guardians[guardianID]
	if !ok || g.StudentID != studentID {
		return nil, repositories.ErrNotFound
	}
	clone := *g
	return &clone, nil
}

func (f *fakeStudentRepo) CreateGuardian(ctx context.Context, guardian *models.StudentGuardian) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	guardian.ID = f.id()
	f.guardians[guardian.ID] = guardian
	return nil
}

func (f *fakeStudentRepo) UpdateGuardian(ctx context.Context, guardian *models.StudentGuardian) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *guardian
	f.guardians[guardian.ID] = &clone
	return nil
}

func (f *fakeStudentRepo) DeleteGuardian(ctx context.Context, studentID, guardianID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guardians[guardianID]
	if !ok || g.StudentID != studentID {
		return repositories.ErrNotFound
	}
	delete(f.guardians, guardianID)
	return nil
}

func (f *fakeStudentRepo) GetTeacher(ctx context.Context, studentID, teacherID uint) (*models.StudentTeacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teachers[teacherID]
	if !ok || t.StudentID != studentID {
		return nil, repositories.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeStudentRepo) CreateTeacher(ctx context.Context, teacher *models.StudentTeacher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	teacher.ID = f.id()
	f.teachers[teacher.ID] = teacher
	return nil
}

func (f *fakeStudentRepo) UpdateTeacher(ctx context.Context, teacher *models.StudentTeacher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *teacher
	f.teachers[teacher.ID] = &clone
	return nil
}

func (f *fakeStudentRepo) DeleteTeacher(ctx context.Context, studentID, teacherID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teachers[teacherID]
	if !ok || t.StudentID != studentID {
		return repositories.ErrNotFound
	}
	delete(f.teachers, teacherID)
	return nil
}

func (f *fakeStudentRepo) AssignMentor(ctx context.Context, userID, studentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint{userID, studentID}
	if f.assignments[key] {
		return repositories.ErrDuplicate
	}
	f.assignments[key] = true
	return nil
}

func (f *fakeStudentRepo) UnassignMentor(ctx context.Context, userID, studentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint{userID, studentID}
	if !f.assignments[key] {
		return repositories.ErrNotFound
	}
	delete(f.assignments, key)
	return nil
}

func (f *fakeStudentRepo) ListMentees(ctx context.Context, userID uint) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Student
	for key := range f.assignments {
		if key[0] == userID {
			out = append(out, f.students[key[1]])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStudentRepo) ListAssignedMentorOptions(ctx context.Context, chapterID uint, studentID *uint) ([]models.Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[uint]bool{}
	var out []models.Option
	for key := range f.assignments {
		if seen[key[0]] || (studentID != nil && key[1] != *studentID) {
			continue
		}
		u := f.users.stored(key[0])
		if u == nil || u.ChapterID != chapterID || u.EndDate != nil {
			continue
		}
		seen[key[0]] = true
		out = append(out, models.Option{ID: u.ID, FullName: u.FullName()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeStudentRepo) ListAssignedStudentOptions(ctx context.Context, chapterID uint, mentorID *uint) ([]models.Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[uint]bool{}
	var out []models.Option
	for key := range f.assignments {
		if seen[key[1]] || (mentorID != nil && key[0] != *mentorID) {
			continue
		}
		s, ok := f.students[key[1]]
		if !ok || s.ChapterID != chapterID || s.EndDate != nil {
			continue
		}
		seen[key[1]] = true
		out = append(out, models.Option{ID: s.ID, FullName: s.FullName()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeStudentRepo) ListMentorIDs(ctx context.Context, studentID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uint
	for key := range f.assignments {
		if key[1] == studentID {
			out = append(out, key[0])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ===== SESSIONS =====

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uint]*models.MentorSession
	nextID   uint

	lastFilters repositories.SessionFilters
}

func (f *fakeSessionRepo) put(session *models.MentorSession) *models.MentorSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session.ID == 0 {
		f.nextID++
		session.ID = f.nextID
	}
	f.sessions[session.ID] = session
	return session
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.MentorSession) error {
	f.put(session)
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id uint) (*models.MentorSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, session *models.MentorSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *session
	f.sessions[session.ID] = &clone
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) matching(filters repositories.SessionFilters) []*models.MentorSession {
	var out []*models.MentorSession
	for _, s := range f.sessions {
		if s.ChapterID != filters.ChapterID {
			continue
		}
		if filters.MentorID != nil && s.UserID != *filters.MentorID {
			continue
		}
		if filters.IsCompleted && s.CompletedOn == nil {
			continue
		}
		if filters.IsSignedOff && s.SignedOffOn == nil {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeSessionRepo) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.MentorSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilters = filters

	all := f.matching(filters)
	limit, offset := filters.Pagination()
	if offset >= len(all) {
		return []*models.MentorSession{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (f *fakeSessionRepo) Count(ctx context.Context, filters repositories.SessionFilters) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matching(filters))), nil
}

func (f *fakeSessionRepo) ListAll(ctx context.Context, filters repositories.SessionFilters) ([]*models.MentorSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matching(filters), nil
}

func (f *fakeSessionRepo) MentorBookedOn(ctx context.Context, chapterID, userID uint, day time.Time, excludeID *uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if s.ChapterID == chapterID && s.UserID == userID && !s.IsCancelled &&
			time.Time(s.AttendedOn).Format(time.DateOnly) == day.Format(time.DateOnly) {
			return true, nil
		}
	}
	return false, nil
}

// ===== DIRECTORY =====

type fakeDirectory struct {
	mu         sync.Mutex
	log        *callLog
	roles      []models.AppRole
	identities map[string]*models.ExternalIdentity

	invitedID string
	inviteErr error
	assignErr error
	getErr    error
	listErr   error
	removeErr error
}

func newFakeDirectory(log *callLog) *fakeDirectory {
	ids := models.DefaultRoleIDs
	return &fakeDirectory{
		log: log,
		roles: []models.AppRole{
			{ID: ids.Admin, DisplayName: "Admin"},
			{ID: ids.Mentor, DisplayName: "Mentor"},
			{ID: ids.Student, DisplayName: "Student"},
		},
		identities: map[string]*models.ExternalIdentity{},
		invitedID:  "ext-123",
	}
}

// addIdentity registers an identity holding the given role ids
func (f *fakeDirectory) addIdentity(id string, roleIDs ...string) *models.ExternalIdentity {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity := &models.ExternalIdentity{ID: id, DisplayName: id}
	for i, roleID := range roleIDs {
		identity.AppRoleAssignments = append(identity.AppRoleAssignments, models.RoleAssignment{
			ID:          fmt.Sprintf("%s-assignment-%d", id, i),
			AppRoleID:   roleID,
			PrincipalID: id,
		})
	}
	f.identities[id] = identity
	return identity
}

func (f *fakeDirectory) ListRoles(ctx context.Context) ([]models.AppRole, error) {
	f.log.add("dir:list_roles")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.AppRole(nil), f.roles...), nil
}

func (f *fakeDirectory) GetUserWithRoles(ctx context.Context, id string) (*models.ExternalIdentity, error) {
	f.log.add("dir:get:%s", id)
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.identities[id]
	if !ok {
		return nil, fmt.Errorf("%w: identity %s not found", repositories.ErrDirectoryUnavailable, id)
	}
	clone := *identity
	return &clone, nil
}

func (f *fakeDirectory) ListUsersWithRoles(ctx context.Context) ([]*models.ExternalIdentity, error) {
	f.log.add("dir:list_users")
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.ExternalIdentity, 0, len(f.identities))
	for _, identity := range f.identities {
		out = append(out, identity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDirectory) InviteUser(ctx context.Context, email, redirectURL string) (*models.Invitation, error) {
	f.log.add("dir:invite:%s", email)
	if f.inviteErr != nil {
		return nil, f.inviteErr
	}
	invitation := &models.Invitation{ID: "invitation-1", InvitedUserEmailAddress: email, InviteRedirectURL: redirectURL}
	invitation.InvitedUser.ID = f.invitedID
	f.addIdentity(f.invitedID)
	return invitation, nil
}

func (f *fakeDirectory) AssignRole(ctx context.Context, identityID, roleID string) (*models.AssignmentResult, error) {
	f.log.add("dir:assign:%s:%s", identityID, roleID)
	if f.assignErr != nil {
		return nil, f.assignErr
	}
	return &models.AssignmentResult{ID: "assignment-1", AppRoleID: roleID, PrincipalID: identityID}, nil
}

func (f *fakeDirectory) RemoveRole(ctx context.Context, assignmentID string) error {
	f.log.add("dir:remove:%s", assignmentID)
	return f.removeErr
}
