package repositories_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/internlink/internlink/internal/app/migrations"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/repositories"
	"github.com/internlink/internlink/internal/db"
	"github.com/internlink/internlink/internal/pkg/apperrors"
)

// openTestDB connects to INTERNLINK_TEST_DB and applies the schema, skipping
// the test when the variable is unset.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("INTERNLINK_TEST_DB")
	if dsn == "" {
		t.Skip("INTERNLINK_TEST_DB not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.NewMigrator(pool).MigrateFromDirectory(ctx, "../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

type seeded struct {
	repos     *repositories.Repositories
	studentID int64
	companyID int64
	location  string
}

func seed(t *testing.T, pool *pgxpool.Pool) *seeded {
	t.Helper()
	ctx := context.Background()
	repos := repositories.NewRepositories(pool)
	suffix := uuid.NewString()[:8]

	studentUser, err := repos.UserRepository.Create(ctx, &models.User{
		Username: "stud_" + suffix, FullName: "Test Student", Email: "s@example.com",
		PasswordHash: "x", Role: models.RoleStudent, Status: models.StatusActive,
	})
	if err != nil {
		t.Fatalf("create student user: %v", err)
	}
	studentID, err := repos.StudentRepository.Create(ctx, &models.Student{UserID: studentUser, University: "U", Course: "C"})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}

	employerUser, err := repos.UserRepository.Create(ctx, &models.User{
		Username: "emp_" + suffix, FullName: "Test Employer", Email: "e@example.com",
		PasswordHash: "x", Role: models.RoleEmployer, Status: models.StatusActive,
	})
	if err != nil {
		t.Fatalf("create employer user: %v", err)
	}
	companyID, err := repos.EmployerRepository.Create(ctx, &models.Employer{UserID: employerUser, CompanyName: "Co " + suffix})
	if err != nil {
		t.Fatalf("create employer: %v", err)
	}

	return &seeded{repos: repos, studentID: studentID, companyID: companyID, location: "Loc " + suffix}
}

func (s *seeded) internship(t *testing.T, title string, deadline time.Time) int64 {
	t.Helper()
	id, err := s.repos.InternshipRepository.Create(context.Background(), &models.Internship{
		CompanyID: s.companyID, Title: title, Description: "d", Location: s.location,
		Duration: "3 months", Deadline: deadline, NumberOfOpening: 1,
	})
	if err != nil {
		t.Fatalf("create internship: %v", err)
	}
	return id
}

func TestListOpenExcludesPastDeadlines(t *testing.T) {
	pool := openTestDB(t)
	s := seed(t, pool)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	s.internship(t, "Expired", today.AddDate(0, 0, -3))
	later := s.internship(t, "Later", today.AddDate(0, 0, 20))
	sooner := s.internship(t, "Sooner", today.AddDate(0, 0, 3))

	list, err := s.repos.InternshipRepository.ListOpen(context.Background(), models.InternshipFilter{Location: s.location})
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if len(list) != 2 || list[0].ID != sooner || list[1].ID != later {
		t.Fatalf("unexpected listing: %+v", list)
	}
}

func TestConcurrentApplicationsCreateOneRow(t *testing.T) {
	pool := openTestDB(t)
	s := seed(t, pool)
	internshipID := s.internship(t, "Race", time.Now().AddDate(0, 0, 10))

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.repos.ApplicationRepository.Create(context.Background(), &models.Application{
				StudentID: s.studentID, InternshipID: internshipID, Status: models.ApplicationPending,
			})
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperrors.ErrAlreadyApplied):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != workers-1 {
		t.Fatalf("ok=%d dup=%d", ok, dup)
	}

	apps, err := s.repos.ApplicationRepository.ListByStudent(context.Background(), s.studentID)
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 1 {
		t.Fatalf("stored %d applications", len(apps))
	}
}

func TestTransactionRollsBack(t *testing.T) {
	pool := openTestDB(t)
	database := db.NewFromPool(pool)
	repos := repositories.NewRepositories(pool)
	username := "tx_" + uuid.NewString()[:8]
	boom := errors.New("boom")

	err := database.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if _, err := repos.UserRepository.Create(ctx, &models.User{
			Username: username, FullName: "Tx", Email: "t@example.com",
			PasswordHash: "x", Role: models.RoleStudent, Status: models.StatusActive,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := repos.UserRepository.GetByUsername(context.Background(), username); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("user survived rollback: %v", err)
	}
}
