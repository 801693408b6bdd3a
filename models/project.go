package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Project is an order record. The receivable side of the books.
type Project struct {
	ID                  int                     `gorm:"primary_key" json:"id"`
	ManagementNo        string                  `gorm:"size:20;uniqueIndex;not null" json:"management_no"`
	SiteName            string                  `gorm:"size:200;not null" json:"site_name" binding:"required"`
	SiteAddress         string                  `gorm:"type:text" json:"site_address"`
	WorkType            string                  `gorm:"size:50" json:"work_type"`
	OrderStatus         OrderStatus             `gorm:"size:20;default:'considering'" json:"order_status"`
	EstimateIssuedDate  *DateString             `json:"estimate_issued_date"`
	EstimateNotRequired *bool                   `gorm:"default:false" json:"estimate_not_required"`
	EstimateAmount      decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"estimate_amount"`
	ParkingFee          decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"parking_fee"`
	ClientName          string                  `gorm:"size:100;index" json:"client_name"`
	ClientAddress       string                  `gorm:"type:text" json:"client_address"`
	ProjectManager      string                  `gorm:"size:50" json:"project_manager"`
	PaymentDueDate      *DateString             `gorm:"index" json:"payment_due_date"`
	WorkStartDate       *DateString             `json:"work_start_date"`
	WorkStartCompleted  *bool                   `gorm:"default:false" json:"work_start_completed"`
	WorkEndDate         *DateString             `json:"work_end_date"`
	WorkEndCompleted    *bool                   `gorm:"default:false" json:"work_end_completed"`
	ContractDate        *DateString             `json:"contract_date"`
	InvoiceIssued       *bool                   `gorm:"default:false" json:"invoice_issued"`
	ExpenseItem1        string                  `gorm:"size:100" json:"expense_item_1"`
	ExpenseAmount1      decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"expense_amount_1"`
	ExpenseItem2        string                  `gorm:"size:100" json:"expense_item_2"`
	ExpenseAmount2      decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"expense_amount_2"`
	BillingAmount       decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"billing_amount"`
	AmountDifference    decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"amount_difference"`
	SurveyRequired      *bool                   `gorm:"default:false" json:"survey_required"`
	SurveyStatus        SurveyRequirementStatus `gorm:"size:20;default:'not_required'" json:"survey_status"`
	PaymentScheduledDate *DateString            `json:"payment_scheduled_date"`
	PaymentExecutedDate  *DateString            `json:"payment_executed_date"`
	PaymentStatus        ProjectPaymentStatus   `gorm:"size:20;default:'scheduled'" json:"payment_status"`
	PaymentAmount        decimal.Decimal        `gorm:"type:decimal(20,4);default:0" json:"payment_amount"`
	PaymentMemo          string                 `gorm:"type:text" json:"payment_memo"`
	Notes                string                 `gorm:"type:text" json:"notes"`
	AdditionalItems      JSONMap                `gorm:"type:json" json:"additional_items"`
	CreatedAt            time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProject struct {
	SiteName            string                  `json:"site_name" binding:"required"`
	SiteAddress         string                  `json:"site_address"`
	WorkType            string                  `json:"work_type"`
	OrderStatus         OrderStatus             `json:"order_status"`
	EstimateIssuedDate  *DateString             `json:"estimate_issued_date"`
	EstimateNotRequired *bool                   `json:"estimate_not_required"`
	EstimateAmount      decimal.Decimal         `json:"estimate_amount"`
	ParkingFee          decimal.Decimal         `json:"parking_fee"`
	ClientName          string                  `json:"client_name"`
	ClientAddress       string                  `json:"client_address"`
	ProjectManager      string                  `json:"project_manager"`
	PaymentDueDate      *DateString             `json:"payment_due_date"`
	WorkStartDate       *DateString             `json:"work_start_date"`
	WorkStartCompleted  *bool                   `json:"work_start_completed"`
	WorkEndDate         *DateString             `json:"work_end_date"`
	WorkEndCompleted    *bool                   `json:"work_end_completed"`
	ContractDate        *DateString             `json:"contract_date"`
	InvoiceIssued       *bool                   `json:"invoice_issued"`
	ExpenseItem1        string                  `json:"expense_item_1"`
	ExpenseAmount1      decimal.Decimal         `json:"expense_amount_1"`
	ExpenseItem2        string                  `json:"expense_item_2"`
	ExpenseAmount2      decimal.Decimal         `json:"expense_amount_2"`
	SurveyRequired      *bool                   `json:"survey_required"`
	SurveyStatus        SurveyRequirementStatus `json:"survey_status"`
	PaymentScheduledDate *DateString            `json:"payment_scheduled_date"`
	PaymentExecutedDate  *DateString            `json:"payment_executed_date"`
	PaymentStatus        ProjectPaymentStatus   `json:"payment_status"`
	PaymentAmount        decimal.Decimal        `json:"payment_amount"`
	PaymentMemo          string                 `json:"payment_memo"`
	Notes                string                 `json:"notes"`
	AdditionalItems      JSONMap                `json:"additional_items"`
}

func (obj Project) GetId() int {
	return obj.ID
}

// billing amount = estimate + parking + expenses. difference = billing - estimate.
func (p *Project) computeAmounts() {
	p.BillingAmount = p.EstimateAmount.
		Add(p.ParkingFee).
		Add(p.ExpenseAmount1).
		Add(p.ExpenseAmount2)
	p.AmountDifference = p.BillingAmount.Sub(p.EstimateAmount)
}

// next management number, P{yy}{seq:04d}, sequence restarts each calendar year
func nextManagementNo(ctx context.Context, tx *gorm.DB) (string, error) {
	yearSuffix := time.Now().Format("06")
	prefix := "P" + yearSuffix

	var latest string
	err := tx.WithContext(ctx).Model(&Project{}).
		Where("management_no LIKE ?", prefix+"%").
		Order("management_no DESC").
		Limit(1).
		Pluck("management_no", &latest).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if latest != "" {
		var latestSeq int
		if _, err := fmt.Sscanf(latest[len(prefix):], "%d", &latestSeq); err == nil {
			seq = latestSeq + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (input *NewProject) validate(ctx context.Context) error {
	if input.SiteName == "" {
		return errors.New("site name is required")
	}
	if input.OrderStatus == "" {
		input.OrderStatus = OrderStatusConsidering
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = ProjectPaymentStatusScheduled
	}
	if input.SurveyStatus == "" {
		input.SurveyStatus = SurveyRequirementNotRequired
	}
	return nil
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	project := Project{
		SiteName:            input.SiteName,
		SiteAddress:         input.SiteAddress,
		WorkType:            input.WorkType,
		OrderStatus:         input.OrderStatus,
		EstimateIssuedDate:  input.EstimateIssuedDate,
		EstimateNotRequired: input.EstimateNotRequired,
		EstimateAmount:      input.EstimateAmount,
		ParkingFee:          input.ParkingFee,
		ClientName:          input.ClientName,
		ClientAddress:       input.ClientAddress,
		ProjectManager:      input.ProjectManager,
		PaymentDueDate:      input.PaymentDueDate,
		WorkStartDate:       input.WorkStartDate,
		WorkStartCompleted:  input.WorkStartCompleted,
		WorkEndDate:         input.WorkEndDate,
		WorkEndCompleted:    input.WorkEndCompleted,
		ContractDate:        input.ContractDate,
		InvoiceIssued:       input.InvoiceIssued,
		ExpenseItem1:        input.ExpenseItem1,
		ExpenseAmount1:      input.ExpenseAmount1,
		ExpenseItem2:        input.ExpenseItem2,
		ExpenseAmount2:      input.ExpenseAmount2,
		SurveyRequired:      input.SurveyRequired,
		SurveyStatus:        input.SurveyStatus,
		PaymentScheduledDate: input.PaymentScheduledDate,
		PaymentExecutedDate:  input.PaymentExecutedDate,
		PaymentStatus:        input.PaymentStatus,
		PaymentAmount:        input.PaymentAmount,
		PaymentMemo:          input.PaymentMemo,
		Notes:                input.Notes,
		AdditionalItems:      input.AdditionalItems,
	}
	project.computeAmounts()

	db := config.GetDB()
	tx := db.Begin()

	managementNo, err := nextManagementNo(ctx, tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	project.ManagementNo = managementNo

	if err := tx.WithContext(ctx).Create(&project).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Project](project.ID); err != nil {
		return nil, err
	}
	return &project, nil
}

func UpdateProject(ctx context.Context, id int, input *NewProject) (*Project, error) {

	before, err := utils.FetchModel[Project](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	update := *before
	update.SiteName = input.SiteName
	update.SiteAddress = input.SiteAddress
	update.WorkType = input.WorkType
	update.OrderStatus = input.OrderStatus
	update.EstimateIssuedDate = input.EstimateIssuedDate
	update.EstimateNotRequired = input.EstimateNotRequired
	update.EstimateAmount = input.EstimateAmount
	update.ParkingFee = input.ParkingFee
	update.ClientName = input.ClientName
	update.ClientAddress = input.ClientAddress
	update.ProjectManager = input.ProjectManager
	update.PaymentDueDate = input.PaymentDueDate
	update.WorkStartDate = input.WorkStartDate
	update.WorkStartCompleted = input.WorkStartCompleted
	update.WorkEndDate = input.WorkEndDate
	update.WorkEndCompleted = input.WorkEndCompleted
	update.ContractDate = input.ContractDate
	update.InvoiceIssued = input.InvoiceIssued
	update.ExpenseItem1 = input.ExpenseItem1
	update.ExpenseAmount1 = input.ExpenseAmount1
	update.ExpenseItem2 = input.ExpenseItem2
	update.ExpenseAmount2 = input.ExpenseAmount2
	update.SurveyRequired = input.SurveyRequired
	update.SurveyStatus = input.SurveyStatus
	update.PaymentScheduledDate = input.PaymentScheduledDate
	update.PaymentExecutedDate = input.PaymentExecutedDate
	update.PaymentStatus = input.PaymentStatus
	update.PaymentAmount = input.PaymentAmount
	update.PaymentMemo = input.PaymentMemo
	update.Notes = input.Notes
	update.AdditionalItems = input.AdditionalItems
	update.computeAmounts()

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(&update).Error; err != nil {
		return nil, err
	}

	// keep the denormalized copies on subcontracts in step
	if before.SiteName != update.SiteName || before.SiteAddress != update.SiteAddress {
		err := db.WithContext(ctx).Model(&Subcontract{}).
			Where("project_id = ?", id).
			Updates(map[string]interface{}{
				"SiteName":    update.SiteName,
				"SiteAddress": update.SiteAddress,
			}).Error
		if err != nil {
			return nil, err
		}
	}

	if err := ClearResourceCache[Project](id); err != nil {
		return nil, err
	}
	return &update, nil
}

func DeleteProject(ctx context.Context, id int) (*Project, error) {

	result, err := utils.FetchModel[Project](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	// subcontracts and profit analysis hang off the project
	if err := tx.WithContext(ctx).Where("project_id = ?", id).Delete(&Subcontract{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("project_id = ?", id).Delete(&ProjectProfitAnalysis{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Project](id); err != nil {
		return nil, err
	}
	return result, nil
}

func GetProject(ctx context.Context, id int) (*Project, error) {
	return GetResource[Project](ctx, id)
}

func PaginateProject(ctx context.Context, page, limit int, orderStatus *OrderStatus, fromDate *DateString, toDate *DateString, search *string) (*PageConnection[Project], error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("created_at DESC")

	if err := fromDate.StartOfDayUTCTime(""); err != nil {
		return nil, err
	}
	if err := toDate.EndOfDayUTCTime(""); err != nil {
		return nil, err
	}

	if orderStatus != nil && *orderStatus != "" {
		dbCtx = dbCtx.Where("order_status = ?", *orderStatus)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("payment_due_date BETWEEN ? AND ?", fromDate, toDate)
	}
	if search != nil && *search != "" {
		like := "%" + *search + "%"
		dbCtx = dbCtx.Where("site_name LIKE ? OR client_name LIKE ? OR management_no LIKE ?", like, like, like)
	}

	return FetchPage[Project](dbCtx, page, limit)
}

// revenue, cost of sales from subcontracts, gross profit and margin of one project
type ProjectProfitBreakdown struct {
	ProjectId     int             `json:"project_id"`
	ManagementNo  string          `json:"management_no"`
	SiteName      string          `json:"site_name"`
	Revenue       decimal.Decimal `json:"revenue"`
	CostOfSales   decimal.Decimal `json:"cost_of_sales"`
	MaterialCost  decimal.Decimal `json:"material_cost"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
}

func GetProjectProfitBreakdown(ctx context.Context, id int) (*ProjectProfitBreakdown, error) {

	project, err := utils.FetchModel[Project](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var subcontracts []*Subcontract
	if err := db.WithContext(ctx).Where("project_id = ?", id).Find(&subcontracts).Error; err != nil {
		return nil, err
	}

	costOfSales := decimal.Zero
	materialCost := decimal.Zero
	for _, sc := range subcontracts {
		costOfSales = costOfSales.Add(sc.ResolveAmount())
		materialCost = materialCost.Add(sc.TotalMaterialCost)
	}

	revenue := project.BillingAmount
	gross := revenue.Sub(costOfSales).Sub(materialCost)
	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = gross.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &ProjectProfitBreakdown{
		ProjectId:    project.ID,
		ManagementNo: project.ManagementNo,
		SiteName:     project.SiteName,
		Revenue:      revenue,
		CostOfSales:  costOfSales,
		MaterialCost: materialCost,
		GrossProfit:  gross,
		ProfitMargin: margin,
	}, nil
}
