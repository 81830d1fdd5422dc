package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	appauth "github.com/internlink/internlink/internal/app/auth"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/auth"
	"github.com/internlink/internlink/internal/pkg/filestorage"
	"github.com/internlink/internlink/internal/pkg/helpers"
	"github.com/internlink/internlink/internal/pkg/session"
)

// store is a tiny in-memory database shared by the fake repositories
type store struct {
	mu           sync.Mutex
	users        map[int64]*models.User
	students     map[int64]*models.Student
	employers    map[int64]*models.Employer
	internships  map[int64]*models.Internship
	applications map[[2]int64]*models.Application
	nextID       int64
}

func newStore() *store {
	return &store{
		users:        map[int64]*models.User{},
		students:     map[int64]*models.Student{},
		employers:    map[int64]*models.Employer{},
		internships:  map[int64]*models.Internship{},
		applications: map[[2]int64]*models.Application{},
		nextID:       100,
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) addUser(u *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	s.users[u.ID] = u
	return u
}

func (s *store) addStudent(st *models.Student) *models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == 0 {
		st.ID = s.id()
	}
	s.students[st.ID] = st
	return st
}

func (s *store) addEmployer(e *models.Employer) *models.Employer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.id()
	}
	s.employers[e.ID] = e
	return e
}

func (s *store) addInternship(in *models.Internship) *models.Internship {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.ID == 0 {
		in.ID = s.id()
	}
	s.internships[in.ID] = in
	return in
}

func (s *store) application(studentID, internshipID int64) *models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applications[[2]int64{studentID, internshipID}]
}

// fakeUserRepo implements repositories.IUserRepository
type fakeUserRepo struct {
	db        *store
	createErr error
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Username == u.Username {
			return 0, apperrors.ErrUsernameTaken
		}
	}
	cp := *u
	cp.ID = r.db.id()
	r.db.users[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int64, fullName string, email *string, profileImage *string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.FullName = fullName
	if email != nil {
		u.Email = *email
	}
	u.ProfileImage = profileImage
	return nil
}

func (r *fakeUserRepo) UpdateStatus(_ context.Context, id int64, status models.UserStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter models.UserFilter) ([]*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.User
	for _, u := range r.db.users {
		if v, ok := helpers.ActiveFilter(filter.Name); ok && !strings.Contains(strings.ToLower(u.FullName), strings.ToLower(v)) {
			continue
		}
		if v, ok := helpers.ActiveFilter(filter.Role); ok && string(u.Role) != v {
			continue
		}
		if v, ok := helpers.ActiveFilter(filter.Status); ok && string(u.Status) != v {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].FullName < out[j].FullName
	})
	return out, nil
}

func (r *fakeUserRepo) CountByRoleAndStatus(_ context.Context) ([]models.UserCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	tally := map[[2]string]int{}
	for _, u := range r.db.users {
		tally[[2]string{string(u.Role), string(u.Status)}]++
	}
	var out []models.UserCount
	for k, n := range tally {
		out = append(out, models.UserCount{Role: models.Role(k[0]), Status: models.UserStatus(k[1]), Count: n})
	}
	return out, nil
}

// fakeStudentRepo implements repositories.IStudentRepository
type fakeStudentRepo struct {
	db        *store
	createErr error
}

func (r *fakeStudentRepo) Create(_ context.Context, st *models.Student) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *st
	cp.ID = r.db.id()
	r.db.students[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeStudentRepo) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, st := range r.db.students {
		if st.UserID == userID {
			cp := *st
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) Update(_ context.Context, st *models.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, existing := range r.db.students {
		if existing.UserID == st.UserID {
			cp := *st
			cp.ID = id
			r.db.students[id] = &cp
			return nil
		}
	}
	return apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) UpdateResume(_ context.Context, studentID int64, resumePath *string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	st, ok := r.db.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	st.ResumePath = resumePath
	return nil
}

// fakeEmployerRepo implements repositories.IEmployerRepository
type fakeEmployerRepo struct {
	db *store
}

func (r *fakeEmployerRepo) Create(_ context.Context, e *models.Employer) (int64, error) {
	return r.db.addEmployer(e).ID, nil
}

func (r *fakeEmployerRepo) GetByUserID(_ context.Context, userID int64) (*models.Employer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, e := range r.db.employers {
		if e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperrors.ErrEmployerNotFound
}

func (r *fakeEmployerRepo) Update(_ context.Context, e *models.Employer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, existing := range r.db.employers {
		if existing.UserID == e.UserID {
			cp := *e
			cp.ID = id
			r.db.employers[id] = &cp
			return nil
		}
	}
	return apperrors.ErrEmployerNotFound
}

// fakeInternshipRepo implements repositories.IInternshipRepository
type fakeInternshipRepo struct {
	db         *store
	lastFilter models.InternshipFilter
}

func (r *fakeInternshipRepo) Create(_ context.Context, in *models.Internship) (int64, error) {
	cp := *in
	cp.ID = 0
	return r.db.addInternship(&cp).ID, nil
}

func (r *fakeInternshipRepo) detail(in *models.Internship) *models.InternshipDetail {
	d := &models.InternshipDetail{Internship: *in}
	if e, ok := r.db.employers[in.CompanyID]; ok {
		d.CompanyName = e.CompanyName
	}
	return d
}

func (r *fakeInternshipRepo) GetDetail(_ context.Context, id int64) (*models.InternshipDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	in, ok := r.db.internships[id]
	if !ok {
		return nil, apperrors.ErrInternshipNotFound
	}
	return r.detail(in), nil
}

func (r *fakeInternshipRepo) ListOpen(_ context.Context, filter models.InternshipFilter) ([]*models.InternshipDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.lastFilter = filter
	today := helpers.Today()
	var out []*models.InternshipDetail
	for _, in := range r.db.internships {
		if in.Deadline.Before(today) {
			continue
		}
		if v, ok := helpers.ActiveFilter(filter.Location); ok && in.Location != v {
			continue
		}
		out = append(out, r.detail(in))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out, nil
}

func (r *fakeInternshipRepo) DistinctValues(_ context.Context, column string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	seen := map[string]bool{}
	for _, in := range r.db.internships {
		switch column {
		case "location":
			seen[in.Location] = true
		case "duration":
			seen[in.Duration] = true
		case "stipend":
			if in.Stipend != nil {
				seen[*in.Stipend] = true
			}
		default:
			return nil, fmt.Errorf("unsupported filter column %q", column)
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeInternshipRepo) ListByCompany(_ context.Context, companyID int64) ([]*models.PostedInternship, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.PostedInternship
	for _, in := range r.db.internships {
		if in.CompanyID != companyID {
			continue
		}
		p := &models.PostedInternship{Internship: *in}
		for key := range r.db.applications {
			if key[1] == in.ID {
				p.ApplicationCount++
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// fakeApplicationRepo implements repositories.IApplicationRepository
type fakeApplicationRepo struct {
	db *store
	// existsBlind makes Exists always report false, as a concurrent
	// submission racing past the check would observe.
	existsBlind bool
	updates     int
}

func (r *fakeApplicationRepo) Exists(_ context.Context, studentID, internshipID int64) (bool, error) {
	if r.existsBlind {
		return false, nil
	}
	return r.db.application(studentID, internshipID) != nil, nil
}

func (r *fakeApplicationRepo) Create(_ context.Context, a *models.Application) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := [2]int64{a.StudentID, a.InternshipID}
	if _, ok := r.db.applications[key]; ok {
		return apperrors.ErrAlreadyApplied
	}
	if _, ok := r.db.internships[a.InternshipID]; !ok {
		return apperrors.ErrInternshipNotFound
	}
	cp := *a
	cp.AppliedAt = time.Now()
	r.db.applications[key] = &cp
	return nil
}

func (r *fakeApplicationRepo) ListByStudent(_ context.Context, studentID int64) ([]*models.StudentApplication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.StudentApplication
	for key, a := range r.db.applications {
		if key[0] != studentID {
			continue
		}
		in := r.db.internships[key[1]]
		out = append(out, &models.StudentApplication{
			InternshipID: in.ID,
			Title:        in.Title,
			Location:     in.Location,
			Status:       a.Status,
			Feedback:     a.Feedback,
			Deadline:     in.Deadline,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.After(out[j].Deadline) })
	return out, nil
}

func (r *fakeApplicationRepo) countWhere(match func(key [2]int64) bool) []models.StatusCount {
	tally := map[models.ApplicationStatus]int{}
	for key, a := range r.db.applications {
		if match(key) {
			tally[a.Status]++
		}
	}
	var out []models.StatusCount
	for _, st := range models.ApplicationStatuses {
		if n := tally[st]; n > 0 {
			out = append(out, models.StatusCount{Status: st, Count: n})
		}
	}
	return out
}

func (r *fakeApplicationRepo) CountByStudentStatus(_ context.Context, studentID int64) ([]models.StatusCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.countWhere(func(key [2]int64) bool { return key[0] == studentID }), nil
}

func (r *fakeApplicationRepo) CountByCompanyStatus(_ context.Context, companyID int64) ([]models.StatusCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.countWhere(func(key [2]int64) bool {
		in, ok := r.db.internships[key[1]]
		return ok && in.CompanyID == companyID
	}), nil
}

func (r *fakeApplicationRepo) ListForCompany(_ context.Context, companyID int64, filter models.ApplicationFilter) ([]*models.ManagedApplication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.ManagedApplication
	for key, a := range r.db.applications {
		in, ok := r.db.internships[key[1]]
		if !ok || in.CompanyID != companyID {
			continue
		}
		if v, ok := helpers.ActiveFilter(filter.Status); ok && string(a.Status) != v {
			continue
		}
		out = append(out, &models.ManagedApplication{
			StudentID:       key[0],
			InternshipID:    key[1],
			Status:          a.Status,
			Feedback:        a.Feedback,
			InternshipTitle: in.Title,
		})
	}
	return out, nil
}

func (r *fakeApplicationRepo) ApplicantNames(context.Context, int64) ([]string, error) {
	return []string{}, nil
}

func (r *fakeApplicationRepo) InternshipTitles(_ context.Context, companyID int64) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []string
	for _, in := range r.db.internships {
		if in.CompanyID == companyID {
			out = append(out, in.Title)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeApplicationRepo) GetCompanyID(_ context.Context, studentID, internshipID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.applications[[2]int64{studentID, internshipID}]; !ok {
		return 0, apperrors.ErrApplicationNotFound
	}
	return r.db.internships[internshipID].CompanyID, nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, studentID, internshipID int64, status models.ApplicationStatus, feedback *string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.applications[[2]int64{studentID, internshipID}]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	a.Status = status
	a.Feedback = feedback
	r.updates++
	return nil
}

// fakeTx runs fn directly; err, when set, is returned after fn succeeds to
// simulate a failed commit.
type fakeTx struct {
	err error
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return t.err
}

// fakeStorage records saved and deleted paths without touching disk
type fakeStorage struct {
	mu      sync.Mutex
	n       int
	saved   []string
	deleted []string
	saveErr error
}

var _ filestorage.FileStorage = (*fakeStorage)(nil)

func (s *fakeStorage) SaveFile(fh *multipart.FileHeader, prefix string) (string, error) {
	if fh == nil {
		return "", nil
	}
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	stored := path.Join(filestorage.PublicPrefix, fmt.Sprintf("%s_%d%s", prefix, s.n, strings.ToLower(path.Ext(fh.Filename))))
	s.saved = append(s.saved, stored)
	return stored, nil
}

func (s *fakeStorage) DeleteFile(stored string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, stored)
	return nil
}

func (s *fakeStorage) GetFullPath(stored string) string {
	return "/tmp/" + path.Base(stored)
}

func (s *fakeStorage) wasDeleted(stored string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deleted {
		if d == stored {
			return true
		}
	}
	return false
}

// plainHasher keeps tests fast; it is not a real hash
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }
func (plainHasher) Check(hash, password string) bool { return hash == "plain:"+password }

// env bundles the fakes behind one set of services
type env struct {
	db           *store
	users        *fakeUserRepo
	students     *fakeStudentRepo
	employers    *fakeEmployerRepo
	internships  *fakeInternshipRepo
	applications *fakeApplicationRepo
	tx           *fakeTx
	storage      *fakeStorage
	jwt          *auth.JWTService

	auth     AuthService
	profile  ProfileService
	student  StudentService
	employer EmployerService
	admin    AdminService
}

func newEnv() *env {
	db := newStore()
	e := &env{
		db:           db,
		users:        &fakeUserRepo{db: db},
		students:     &fakeStudentRepo{db: db},
		employers:    &fakeEmployerRepo{db: db},
		internships:  &fakeInternshipRepo{db: db},
		applications: &fakeApplicationRepo{db: db},
		tx:           &fakeTx{},
		storage:      &fakeStorage{},
		jwt: auth.NewJWTService(auth.SessionConfig{
			SecretKey:   "test-secret",
			TTL:         time.Hour,
			TokenIssuer: "internlink-test",
		}),
	}
	sessions := session.NewStore(nil, 5, 15*time.Minute)
	authz := appauth.NewAuthorizationService(e.employers, e.applications)

	e.auth = NewAuthService(e.users, e.students, e.tx, e.storage, plainHasher{}, e.jwt, sessions)
	e.profile = NewProfileService(e.users, e.students, e.employers, e.tx, e.storage, authz)
	e.student = NewStudentService(e.users, e.students, e.internships, e.applications, e.tx, e.storage)
	e.employer = NewEmployerService(e.employers, e.internships, e.applications, authz)
	e.admin = NewAdminService(e.users)
	return e
}

func principalOf(u *models.User) models.Principal {
	return models.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// fieldError returns the message recorded for field, or "" when err carries none
func fieldError(err error, field string) string {
	ve, ok := apperrors.AsValidationError(err)
	if !ok {
		return ""
	}
	return ve.Fields[field]
}

func upload(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 4}
}

func inDays(n int) time.Time {
	return helpers.Today().AddDate(0, 0, n)
}

var errBoom = errors.New("boom")
