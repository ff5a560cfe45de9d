package geo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/geo/domain"
)

const activityResultLimit = 50

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var departments []domain.Department
	err := r.db.WithContext(ctx).
		Order("code").
		Find(&departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *repository) ListMunicipalities(ctx context.Context, departmentCode string) ([]domain.Municipality, error) {
	q := r.db.WithContext(ctx).Order("code")
	if departmentCode != "" {
		q = q.Where("department_code = ?", departmentCode)
	}

	var municipalities []domain.Municipality
	if err := q.Find(&municipalities).Error; err != nil {
		return nil, err
	}
	return municipalities, nil
}

func (r *repository) ListActivities(ctx context.Context, search string) ([]domain.EconomicActivity, error) {
	q := r.db.WithContext(ctx).Order("code").Limit(activityResultLimit)
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(description) LIKE ? OR code LIKE ?", pattern, s+"%")
	}

	var activities []domain.EconomicActivity
	if err := q.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
