package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CompanyRepository interface {
	List(ctx context.Context) ([]domain.Company, error)
}

type PGCompanyRepository struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) CompanyRepository {
	return &PGCompanyRepository{db: db}
}

func (r *PGCompanyRepository) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, is_active, created_at FROM airline_companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

var _ CompanyRepository = (*PGCompanyRepository)(nil)
