// Package seed bootstraps the schema-less deployments and the reference
// data every installation needs: the geography catalogs, the default
// admin account and, on demand, a demo service catalog.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authdomain "github.com/abogados-sv/facturacion/internal/auth/domain"
	"github.com/abogados-sv/facturacion/internal/auth/password"
	catalogdomain "github.com/abogados-sv/facturacion/internal/catalog/domain"
	clientdomain "github.com/abogados-sv/facturacion/internal/client/domain"
	dtedomain "github.com/abogados-sv/facturacion/internal/dte/domain"
	expensedomain "github.com/abogados-sv/facturacion/internal/expense/domain"
	geodomain "github.com/abogados-sv/facturacion/internal/geo/domain"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
	staffdomain "github.com/abogados-sv/facturacion/internal/staffuser/domain"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
	defaultAdminName     = "Administrador"
)

// AutoMigrate builds the ORM schema for deployments without a SQL
// migration path (sqlite).
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	return db.AutoMigrate(
		&catalogdomain.ServiceCategory{},
		&catalogdomain.ServiceItem{},
		&clientdomain.Client{},
		&staffdomain.StaffUser{},
		&authdomain.Session{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&expensedomain.Expense{},
		&dtedomain.Record{},
		&geodomain.Department{},
		&geodomain.Municipality{},
		&geodomain.EconomicActivity{},
	)
}

// EnsureAdminUser creates the bootstrap admin account when no staff
// user exists yet.
func EnsureAdminUser(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user staffdomain.StaffUser
		err := tx.Where("username = ?", defaultAdminUsername).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(defaultAdminPassword)
		if err != nil {
			return err
		}
		user = staffdomain.StaffUser{
			ID:           node.Generate().Int64(),
			Username:     defaultAdminUsername,
			PasswordHash: hashed,
			FullName:     defaultAdminName,
			Role:         staffdomain.RoleAdmin,
			Active:       true,
		}
		return tx.Create(&user).Error
	})
}

// EnsureGeoCatalogs loads the Hacienda department, municipality and
// economic-activity catalogs. Existing rows are left untouched.
func EnsureGeoCatalogs(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(departments()).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(municipalities()).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(economicActivities()).Error
	})
}

// EnsureDemoCatalog seeds a small notarial service catalog and a sample
// client for fresh environments.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&catalogdomain.ServiceCategory{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		category := catalogdomain.ServiceCategory{
			ID:          node.Generate().Int64(),
			Name:        "Servicios Notariales",
			Description: "Escrituras, autenticas y tramites notariales",
			Active:      true,
		}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}

		services := []catalogdomain.ServiceItem{
			{
				ID:             node.Generate().Int64(),
				Code:           "SRV-001",
				Name:           "Escritura de compraventa",
				CategoryID:     category.ID,
				UnitPrice:      decimal.RequireFromString("113.00"),
				WholesalePrice: decimal.NewNullDecimal(decimal.RequireFromString("100.00")),
				Active:         true,
			},
			{
				ID:         node.Generate().Int64(),
				Code:       "SRV-002",
				Name:       "Autentica de firma",
				CategoryID: category.ID,
				UnitPrice:  decimal.RequireFromString("15.00"),
				Active:     true,
			},
			{
				ID:         node.Generate().Int64(),
				Code:       "SRV-003",
				Name:       "Declaracion jurada",
				CategoryID: category.ID,
				UnitPrice:  decimal.RequireFromString("25.00"),
				Active:     true,
			},
		}
		if err := tx.Create(&services).Error; err != nil {
			return err
		}

		client := clientdomain.Client{
			ID:               node.Generate().Int64(),
			Name:             "Cliente de Prueba, S.A. de C.V.",
			ClientType:       clientdomain.TypeCreditoFiscal,
			NIT:              "0614-290525-102-3",
			NRC:              "310542-1",
			Phone:            "2661-0000",
			DepartmentCode:   "12",
			MunicipalityCode: "22",
			ActivityCode:     "69100",
		}
		return tx.Create(&client).Error
	})
}
