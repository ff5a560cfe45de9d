package domain

import "context"

type Repository interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	ListMunicipalities(ctx context.Context, departmentCode string) ([]Municipality, error)
	ListActivities(ctx context.Context, search string) ([]EconomicActivity, error)
}
