package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/db"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/dberrors"
	"github.com/internlink/internlink/internal/pkg/helpers"
	"github.com/internlink/internlink/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplicationRepository handles the application table
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Exists reports whether the student already applied to the internship
func (r *ApplicationRepository) Exists(ctx context.Context, studentID, internshipID int64) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM application WHERE student_id = $1 AND internship_id = $2)`,
		studentID, internshipID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking application: %w", err)
	}
	return exists, nil
}

// Create inserts an application. A concurrent duplicate surfaces as ErrAlreadyApplied.
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	sql, args, err := r.sb.Insert("application").
		Columns("student_id", "internship_id", "status", "cover_letter", "feedback").
		Values(a.StudentID, a.InternshipID, a.Status, a.CoverLetter, a.Feedback).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	if _, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ApplicationPrimary) {
			logger.Warn().Int64("studentID", a.StudentID).Int64("internshipID", a.InternshipID).Msg("Duplicate application rejected by constraint")
			return apperrors.ErrAlreadyApplied
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInternshipNotFound
		}
		logger.Error().Err(err).Int64("studentID", a.StudentID).Int64("internshipID", a.InternshipID).Msg("Error creating application")
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// ListByStudent returns a student's applications, latest internship deadline first
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentApplication, error) {
	sql, args, err := r.sb.Select("i.internship_id", "i.title", "i.location", "e.company_name",
		"a.status", "a.feedback", "i.deadline").
		From("application a").
		Join("internship i ON i.internship_id = a.internship_id").
		Join("employer e ON e.emp_id = i.company_id").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("i.deadline DESC", "i.internship_id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student applications query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing student applications: %w", err)
	}
	defer rows.Close()

	var list []*models.StudentApplication
	for rows.Next() {
		a := &models.StudentApplication{}
		if err := rows.Scan(&a.InternshipID, &a.Title, &a.Location, &a.CompanyName,
			&a.Status, &a.Feedback, &a.Deadline); err != nil {
			return nil, fmt.Errorf("error scanning student application: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CountByStudentStatus tallies a student's applications per status
func (r *ApplicationRepository) CountByStudentStatus(ctx context.Context, studentID int64) ([]models.StatusCount, error) {
	return r.countByStatus(ctx, r.sb.Select("a.status", "COUNT(*)").
		From("application a").
		Where(squirrel.Eq{"a.student_id": studentID}))
}

// CountByCompanyStatus tallies applications to an employer's internships per status
func (r *ApplicationRepository) CountByCompanyStatus(ctx context.Context, companyID int64) ([]models.StatusCount, error) {
	return r.countByStatus(ctx, r.sb.Select("a.status", "COUNT(*)").
		From("application a").
		Join("internship i ON i.internship_id = a.internship_id").
		Where(squirrel.Eq{"i.company_id": companyID}))
}

func (r *ApplicationRepository) countByStatus(ctx context.Context, q squirrel.SelectBuilder) ([]models.StatusCount, error) {
	sql, args, err := q.GroupBy("a.status").OrderBy("a.status").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build status count query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting applications: %w", err)
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("error scanning status count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *ApplicationRepository) managedBase(companyID int64) squirrel.SelectBuilder {
	return r.sb.Select().
		From("application a").
		Join("student s ON s.student_id = a.student_id").
		Join("users u ON u.user_id = s.user_id").
		Join("internship i ON i.internship_id = a.internship_id").
		Where(squirrel.Eq{"i.company_id": companyID})
}

// ListForCompany returns applications to an employer's internships ordered by status, then applicant
func (r *ApplicationRepository) ListForCompany(ctx context.Context, companyID int64, filter models.ApplicationFilter) ([]*models.ManagedApplication, error) {
	q := r.managedBase(companyID).
		Columns("a.student_id", "a.internship_id", "a.status", "a.feedback", "a.cover_letter",
			"u.full_name", "u.email", "s.university", "s.course", "s.resume_path",
			"i.title", "i.location").
		OrderBy("a.status ASC", "u.full_name ASC", "a.internship_id ASC")

	if v, ok := helpers.ActiveFilter(filter.ApplicantName); ok {
		q = q.Where(squirrel.Eq{"u.full_name": v})
	}
	if v, ok := helpers.ActiveFilter(filter.InternshipTitle); ok {
		q = q.Where(squirrel.Eq{"i.title": v})
	}
	if v, ok := helpers.ActiveFilter(filter.Status); ok {
		q = q.Where(squirrel.Eq{"a.status": v})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build manage applications query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing managed applications: %w", err)
	}
	defer rows.Close()

	var list []*models.ManagedApplication
	for rows.Next() {
		m := &models.ManagedApplication{}
		if err := rows.Scan(&m.StudentID, &m.InternshipID, &m.Status, &m.Feedback, &m.CoverLetter,
			&m.FullName, &m.Email, &m.University, &m.Course, &m.ResumePath,
			&m.InternshipTitle, &m.InternshipLocation); err != nil {
			return nil, fmt.Errorf("error scanning managed application: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ApplicantNames returns distinct applicant names for an employer's internships
func (r *ApplicationRepository) ApplicantNames(ctx context.Context, companyID int64) ([]string, error) {
	sql, args, err := r.managedBase(companyID).Columns("u.full_name").Distinct().OrderBy("u.full_name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build applicant names query: %w", err)
	}
	return queryStrings(ctx, db.Conn(ctx, r.db), sql, args)
}

// InternshipTitles returns distinct titles that received applications for an employer
func (r *ApplicationRepository) InternshipTitles(ctx context.Context, companyID int64) ([]string, error) {
	sql, args, err := r.managedBase(companyID).Columns("i.title").Distinct().OrderBy("i.title").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build internship titles query: %w", err)
	}
	return queryStrings(ctx, db.Conn(ctx, r.db), sql, args)
}

// GetCompanyID returns the employer owning the internship of an application
func (r *ApplicationRepository) GetCompanyID(ctx context.Context, studentID, internshipID int64) (int64, error) {
	sql, args, err := r.sb.Select("i.company_id").
		From("application a").
		Join("internship i ON i.internship_id = a.internship_id").
		Where(squirrel.Eq{"a.student_id": studentID, "a.internship_id": internshipID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build application owner query: %w", err)
	}

	var companyID int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrApplicationNotFound
		}
		return 0, fmt.Errorf("error getting application owner: %w", err)
	}
	return companyID, nil
}

// UpdateStatus sets status and feedback of one application
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, studentID, internshipID int64, status models.ApplicationStatus, feedback *string) error {
	sql, args, err := r.sb.Update("application").
		Set("status", status).
		Set("feedback", feedback).
		Where(squirrel.Eq{"student_id": studentID, "internship_id": internshipID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update application query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("internshipID", internshipID).Msg("Error updating application status")
		return fmt.Errorf("error updating application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}
