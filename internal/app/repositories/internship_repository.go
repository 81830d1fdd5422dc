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

var internshipColumns = []string{
	"i.internship_id", "i.company_id", "i.title", "i.description", "i.location", "i.duration",
	"i.skills_required", "i.deadline", "i.stipend", "i.number_of_opening",
}

// InternshipRepository handles the internship table
type InternshipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInternshipRepository creates a new InternshipRepository
func NewInternshipRepository(db *pgxpool.Pool) *InternshipRepository {
	return &InternshipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func internshipDest(i *models.Internship) []interface{} {
	return []interface{}{
		&i.ID, &i.CompanyID, &i.Title, &i.Description, &i.Location, &i.Duration,
		&i.SkillsRequired, &i.Deadline, &i.Stipend, &i.NumberOfOpening,
	}
}

func (r *InternshipRepository) detailQuery() squirrel.SelectBuilder {
	cols := append(append([]string{}, internshipColumns...),
		"e.company_name", "e.company_description", "e.website", "e.logo_path")
	return r.sb.Select(cols...).
		From("internship i").
		Join("employer e ON e.emp_id = i.company_id")
}

func scanDetail(row pgx.Row) (*models.InternshipDetail, error) {
	d := &models.InternshipDetail{}
	dest := append(internshipDest(&d.Internship), &d.CompanyName, &d.CompanyDescription, &d.Website, &d.LogoPath)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts an internship for the owning employer
func (r *InternshipRepository) Create(ctx context.Context, in *models.Internship) (int64, error) {
	sql, args, err := r.sb.Insert("internship").
		Columns("company_id", "title", "description", "location", "duration",
			"skills_required", "deadline", "stipend", "number_of_opening").
		Values(in.CompanyID, in.Title, in.Description, in.Location, in.Duration,
			in.SkillsRequired, in.Deadline, in.Stipend, in.NumberOfOpening).
		Suffix("RETURNING internship_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create internship query: %w", err)
	}

	var id int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrEmployerNotFound
		}
		logger.Error().Err(err).Int64("companyID", in.CompanyID).Msg("Error creating internship")
		return 0, fmt.Errorf("error creating internship: %w", err)
	}
	return id, nil
}

// GetDetail returns the internship joined with its employer
func (r *InternshipRepository) GetDetail(ctx context.Context, id int64) (*models.InternshipDetail, error) {
	sql, args, err := r.detailQuery().Where(squirrel.Eq{"i.internship_id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get internship query: %w", err)
	}

	d, err := scanDetail(db.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInternshipNotFound
		}
		logger.Error().Err(err).Int64("internshipID", id).Msg("Error getting internship")
		return nil, fmt.Errorf("error getting internship: %w", err)
	}
	return d, nil
}

// ListOpen returns internships whose deadline is today or later, soonest first
func (r *InternshipRepository) ListOpen(ctx context.Context, filter models.InternshipFilter) ([]*models.InternshipDetail, error) {
	q := r.detailQuery().
		Where("i.deadline >= CURRENT_DATE").
		OrderBy("i.deadline ASC", "i.internship_id ASC")

	if v, ok := helpers.ActiveFilter(filter.Category); ok {
		pattern := helpers.LikePattern(v)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"i.title": pattern},
			squirrel.ILike{"i.skills_required": pattern},
			squirrel.ILike{"i.description": pattern},
		})
	}
	if v, ok := helpers.ActiveFilter(filter.Location); ok {
		q = q.Where(squirrel.Eq{"i.location": v})
	}
	if v, ok := helpers.ActiveFilter(filter.Duration); ok {
		q = q.Where(squirrel.Eq{"i.duration": v})
	}
	if v, ok := helpers.ActiveFilter(filter.Stipend); ok {
		q = q.Where(squirrel.Eq{"i.stipend": v})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build browse internships query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error browsing internships: %w", err)
	}
	defer rows.Close()

	var list []*models.InternshipDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning internship: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// DistinctValues returns the sorted non-null distinct values of one internship column
func (r *InternshipRepository) DistinctValues(ctx context.Context, column string) ([]string, error) {
	switch column {
	case "location", "duration", "stipend":
	default:
		return nil, fmt.Errorf("unsupported filter column %q", column)
	}

	sql, args, err := r.sb.Select(column).Distinct().From("internship").
		Where(squirrel.NotEq{column: nil}).OrderBy(column).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build distinct %s query: %w", column, err)
	}
	return queryStrings(ctx, db.Conn(ctx, r.db), sql, args)
}

// ListByCompany returns an employer's internships with application counts, latest deadline first
func (r *InternshipRepository) ListByCompany(ctx context.Context, companyID int64) ([]*models.PostedInternship, error) {
	cols := append(append([]string{}, internshipColumns...), "COUNT(a.internship_id)")
	sql, args, err := r.sb.Select(cols...).
		From("internship i").
		LeftJoin("application a ON a.internship_id = i.internship_id").
		Where(squirrel.Eq{"i.company_id": companyID}).
		GroupBy("i.internship_id").
		OrderBy("i.deadline DESC", "i.internship_id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build posted internships query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing posted internships: %w", err)
	}
	defer rows.Close()

	var list []*models.PostedInternship
	for rows.Next() {
		p := &models.PostedInternship{}
		if err := rows.Scan(append(internshipDest(&p.Internship), &p.ApplicationCount)...); err != nil {
			return nil, fmt.Errorf("error scanning posted internship: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func queryStrings(ctx context.Context, conn db.DBTX, sql string, args []interface{}) ([]string, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying values: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("error scanning value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
