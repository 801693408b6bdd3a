// seed-demo populates a development database with a small but coherent
// dataset: contractors, internal workers, projects with subcontracts,
// overhead costs and one scheduled survey.
//
// Usage:
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/models"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	if err := seed(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("demo data seeded")
}

func dateString(t time.Time) *models.DateString {
	d := models.DateString(utils.DateOnly(t))
	return &d
}

func seed(ctx context.Context) error {
	admin := &models.NewUser{
		Username: "admin",
		Password: "dispatch-admin",
		Name:     "Admin",
		Role:     models.UserRoleAdmin,
	}
	if _, err := models.CreateUser(ctx, admin); err != nil {
		fmt.Fprintf(os.Stderr, "admin user: %v (continuing)\n", err)
	}

	contractor, err := models.CreateContractor(ctx, &models.NewContractor{
		Name:           "Yamada Construction",
		ContractorType: models.ContractorTypeCompany,
		IsOrdering:     utils.NewTrue(),
		PaymentDay:     25,
		PaymentCycle:   models.PaymentCycleMonthly,
		BankName:       "Mizuho",
		BranchName:     "Shibuya",
		AccountNumber:  "1234567",
	})
	if err != nil {
		return fmt.Errorf("contractor: %w", err)
	}

	worker, err := models.CreateInternalWorker(ctx, &models.NewInternalWorker{
		Name:       "Sato Kenji",
		EmployeeId: "E001",
		Department: models.DepartmentConstruction,
	})
	if err != nil {
		return fmt.Errorf("internal worker: %w", err)
	}

	now := time.Now()
	project, err := models.CreateProject(ctx, &models.NewProject{
		SiteName:       "Meguro Apartment Renovation",
		SiteAddress:    "2-4-1 Meguro, Tokyo",
		ClientName:     "Tokyo Housing Co.",
		OrderStatus:    models.OrderStatusReceived,
		EstimateAmount: decimal.NewFromInt(1200000),
		ParkingFee:     decimal.NewFromInt(20000),
		ContractDate:   dateString(now.AddDate(0, -2, 0)),
		WorkStartDate:  dateString(now.AddDate(0, -1, 0)),
		PaymentDueDate: dateString(now.AddDate(0, 1, 0)),
	})
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}

	_, err = models.CreateSubcontract(ctx, &models.NewSubcontract{
		ProjectId:      project.ID,
		WorkerType:     models.WorkerTypeExternal,
		ContractorId:   &contractor.ID,
		ContractAmount: decimal.NewFromInt(480000),
		PaymentDate:    dateString(now.AddDate(0, 0, 20)),
		PaymentStatus:  models.SubcontractPaymentPending,
	})
	if err != nil {
		return fmt.Errorf("external subcontract: %w", err)
	}
	_, err = models.CreateSubcontract(ctx, &models.NewSubcontract{
		ProjectId:        project.ID,
		WorkerType:       models.WorkerTypeInternal,
		InternalWorkerId: &worker.ID,
		ContractAmount:   decimal.NewFromInt(150000),
		PaymentStatus:    models.SubcontractPaymentPending,
	})
	if err != nil {
		return fmt.Errorf("internal subcontract: %w", err)
	}

	_, err = models.CreateFixedCost(ctx, &models.NewFixedCost{
		Name:          "Office rent",
		CostType:      models.FixedCostRent,
		MonthlyAmount: decimal.NewFromInt(180000),
		StartDate:     models.DateString(utils.DateOnly(now.AddDate(-1, 0, 0))),
		IsActive:      utils.NewTrue(),
	})
	if err != nil {
		return fmt.Errorf("fixed cost: %w", err)
	}
	_, err = models.CreateVariableCost(ctx, &models.NewVariableCost{
		Name:         "Fuel",
		CostType:     models.VariableCostTravel,
		Amount:       decimal.NewFromInt(32000),
		IncurredDate: models.DateString(utils.DateOnly(now.AddDate(0, 0, -5))),
	})
	if err != nil {
		return fmt.Errorf("variable cost: %w", err)
	}

	surveyor, err := models.CreateSurveyor(ctx, &models.NewSurveyor{
		Name:       "Tanaka Hiro",
		EmployeeId: "S001",
	})
	if err != nil {
		return fmt.Errorf("surveyor: %w", err)
	}
	_, err = models.CreateSurvey(ctx, &models.NewSurvey{
		ProjectId:     project.ID,
		SurveyorId:    surveyor.ID,
		ScheduledDate: models.DateString(utils.DateOnly(now.AddDate(0, 0, 7))),
	})
	if err != nil {
		return fmt.Errorf("survey: %w", err)
	}

	return nil
}
