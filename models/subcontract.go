package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Subcontract is a payable to an external contractor or an internal worker.
type Subcontract struct {
	ID                 int                      `gorm:"primary_key" json:"id"`
	ProjectId          int                      `gorm:"index;not null" json:"project_id" binding:"required"`
	ManagementNo       string                   `gorm:"size:20;index" json:"management_no"`
	SiteName           string                   `gorm:"size:200" json:"site_name"`
	SiteAddress        string                   `gorm:"type:text" json:"site_address"`
	WorkerType         WorkerType               `gorm:"size:20;default:'external'" json:"worker_type"`
	ContractorId       *int                     `gorm:"index" json:"contractor_id"`
	Contractor         *Contractor              `json:"contractor,omitempty"`
	InternalWorkerId   *int                     `gorm:"index" json:"internal_worker_id"`
	InternalWorker     *InternalWorker          `json:"internal_worker,omitempty"`
	InternalWorkerName string                   `gorm:"size:100" json:"internal_worker_name"`
	InternalDepartment string                   `gorm:"size:50" json:"internal_department"`
	InternalPricingType InternalPricingType     `gorm:"size:20;default:'hourly'" json:"internal_pricing_type"`
	TaxType            TaxType                  `gorm:"size:20;default:'include'" json:"tax_type"`
	InternalHourlyRate decimal.Decimal          `gorm:"type:decimal(20,4);default:0" json:"internal_hourly_rate"`
	EstimatedHours     decimal.Decimal          `gorm:"type:decimal(10,2);default:0" json:"estimated_hours"`
	ContractAmount     decimal.Decimal          `gorm:"type:decimal(20,4);default:0" json:"contract_amount"`
	BilledAmount       decimal.Decimal          `gorm:"type:decimal(20,4);default:0" json:"billed_amount"`
	PaymentDueDate     *DateString              `gorm:"index" json:"payment_due_date"`
	PaymentDate        *DateString              `gorm:"index" json:"payment_date"`
	PaymentStatus      SubcontractPaymentStatus `gorm:"size:20;default:'pending'" json:"payment_status"`
	MaterialItem1      string                   `gorm:"size:100" json:"material_item_1"`
	MaterialCost1      decimal.Decimal          `gorm:"type:decimal(20,4);default:0" json:"material_cost_1"`
	MaterialItem2      string                   `gorm:"size:100" json:"material_item_2"`
	MaterialCost2      decimal.Decimal          `gorm:"type:decimal(20,4);default:0" json:"material_cost_2"`
	MaterialItem3      string                   `gorm:"size:100" json:"material_item_3"`
	MaterialCost3      decimal.Decimal          `gorm:"type:decimal(20,4);default:0" json:"material_cost_3"`
	TotalMaterialCost  decimal.Decimal          `gorm:"type:decimal(20,4);default:0" json:"total_material_cost"`
	DynamicMaterialCosts JSONList               `gorm:"type:json" json:"dynamic_material_costs"`
	DynamicCostItems     JSONList               `gorm:"type:json" json:"dynamic_cost_items"`
	PurchaseOrderIssued  *bool                  `gorm:"default:false" json:"purchase_order_issued"`
	WorkDescription      string                 `gorm:"type:text" json:"work_description"`
	Notes                string                 `gorm:"type:text" json:"notes"`
	CreatedAt            time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSubcontract struct {
	ProjectId          int                      `json:"project_id" binding:"required"`
	WorkerType         WorkerType               `json:"worker_type"`
	ContractorId       *int                     `json:"contractor_id"`
	InternalWorkerId   *int                     `json:"internal_worker_id"`
	InternalWorkerName string                   `json:"internal_worker_name"`
	InternalDepartment string                   `json:"internal_department"`
	InternalPricingType InternalPricingType     `json:"internal_pricing_type"`
	TaxType            TaxType                  `json:"tax_type"`
	InternalHourlyRate decimal.Decimal          `json:"internal_hourly_rate"`
	EstimatedHours     decimal.Decimal          `json:"estimated_hours"`
	ContractAmount     decimal.Decimal          `json:"contract_amount"`
	BilledAmount       decimal.Decimal          `json:"billed_amount"`
	PaymentDueDate     *DateString              `json:"payment_due_date"`
	PaymentDate        *DateString              `json:"payment_date"`
	PaymentStatus      SubcontractPaymentStatus `json:"payment_status"`
	MaterialItem1      string                   `json:"material_item_1"`
	MaterialCost1      decimal.Decimal          `json:"material_cost_1"`
	MaterialItem2      string                   `json:"material_item_2"`
	MaterialCost2      decimal.Decimal          `json:"material_cost_2"`
	MaterialItem3      string                   `json:"material_item_3"`
	MaterialCost3      decimal.Decimal          `json:"material_cost_3"`
	DynamicMaterialCosts JSONList               `json:"dynamic_material_costs"`
	DynamicCostItems     JSONList               `json:"dynamic_cost_items"`
	PurchaseOrderIssued  *bool                  `json:"purchase_order_issued"`
	WorkDescription      string                 `json:"work_description"`
	Notes                string                 `json:"notes"`
}

func (obj Subcontract) GetId() int {
	return obj.ID
}

// ResolveAmount picks billed over contract, zero when neither is set.
func (s *Subcontract) ResolveAmount() decimal.Decimal {
	if !s.BilledAmount.IsZero() {
		return s.BilledAmount
	}
	return s.ContractAmount
}

// PayeeName resolves the counterparty. Empty when neither side is set.
func (s *Subcontract) PayeeName() string {
	if s.Contractor != nil && s.Contractor.Name != "" {
		return s.Contractor.Name
	}
	if s.InternalWorker != nil && s.InternalWorker.Name != "" {
		return s.InternalWorker.Name
	}
	return s.InternalWorkerName
}

func (s *Subcontract) IsPaid() bool {
	return s.PaymentStatus == SubcontractPaymentPaid
}

// due date past and not paid
func (s *Subcontract) IsPaymentOverdue(today time.Time) bool {
	if s.PaymentDueDate.IsZero() || s.IsPaid() {
		return false
	}
	return today.After(s.PaymentDueDate.Time())
}

// total cost for profit analysis: payable + materials + dynamic extras
func (s *Subcontract) TotalCost() decimal.Decimal {
	return s.BilledAmount.Add(s.TotalMaterialCost).Add(s.DynamicCostItems.SumCosts())
}

// material total = three fixed pairs + dynamic entries; internal contract amount
// follows the pricing type (hourly: rate*hours + extras, project: extras only)
func (s *Subcontract) computeAmounts() {
	fixedTotal := s.MaterialCost1.Add(s.MaterialCost2).Add(s.MaterialCost3)
	s.TotalMaterialCost = fixedTotal.Add(s.DynamicMaterialCosts.SumCosts())

	if s.WorkerType == WorkerTypeInternal && len(s.DynamicCostItems) > 0 {
		dynamicCostTotal := s.DynamicCostItems.SumCosts()
		switch s.InternalPricingType {
		case InternalPricingHourly:
			base := s.InternalHourlyRate.Mul(s.EstimatedHours)
			s.ContractAmount = base.Add(dynamicCostTotal)
		case InternalPricingProject:
			s.ContractAmount = dynamicCostTotal
		}
	}
}

func (input *NewSubcontract) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Project](ctx, input.ProjectId); err != nil {
		return errors.New("project not found")
	}
	if input.WorkerType == "" {
		input.WorkerType = WorkerTypeExternal
	}
	if input.InternalPricingType == "" {
		input.InternalPricingType = InternalPricingHourly
	}
	if input.TaxType == "" {
		input.TaxType = TaxTypeInclude
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = SubcontractPaymentPending
	}
	if input.ContractorId != nil && *input.ContractorId > 0 {
		if err := utils.ValidateResourceId[Contractor](ctx, *input.ContractorId); err != nil {
			return errors.New("contractor not found")
		}
	}
	if input.InternalWorkerId != nil && *input.InternalWorkerId > 0 {
		if err := utils.ValidateResourceId[InternalWorker](ctx, *input.InternalWorkerId); err != nil {
			return errors.New("internal worker not found")
		}
	}
	return nil
}

func (input *NewSubcontract) toModel(project *Project) Subcontract {
	sc := Subcontract{
		ProjectId:          input.ProjectId,
		ManagementNo:       project.ManagementNo,
		SiteName:           project.SiteName,
		SiteAddress:        project.SiteAddress,
		WorkerType:         input.WorkerType,
		ContractorId:       input.ContractorId,
		InternalWorkerId:   input.InternalWorkerId,
		InternalWorkerName: input.InternalWorkerName,
		InternalDepartment: input.InternalDepartment,
		InternalPricingType: input.InternalPricingType,
		TaxType:            input.TaxType,
		InternalHourlyRate: input.InternalHourlyRate,
		EstimatedHours:     input.EstimatedHours,
		ContractAmount:     input.ContractAmount,
		BilledAmount:       input.BilledAmount,
		PaymentDueDate:     input.PaymentDueDate,
		PaymentDate:        input.PaymentDate,
		PaymentStatus:      input.PaymentStatus,
		MaterialItem1:      input.MaterialItem1,
		MaterialCost1:      input.MaterialCost1,
		MaterialItem2:      input.MaterialItem2,
		MaterialCost2:      input.MaterialCost2,
		MaterialItem3:      input.MaterialItem3,
		MaterialCost3:      input.MaterialCost3,
		DynamicMaterialCosts: input.DynamicMaterialCosts,
		DynamicCostItems:     input.DynamicCostItems,
		PurchaseOrderIssued:  input.PurchaseOrderIssued,
		WorkDescription:      input.WorkDescription,
		Notes:                input.Notes,
	}
	sc.computeAmounts()
	return sc
}

func CreateSubcontract(ctx context.Context, input *NewSubcontract) (*Subcontract, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	project, err := utils.FetchModel[Project](ctx, input.ProjectId)
	if err != nil {
		return nil, errors.New("project not found")
	}

	subcontract := input.toModel(project)

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&subcontract).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := refreshProfitAnalysis(ctx, tx, input.ProjectId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Subcontract](subcontract.ID); err != nil {
		return nil, err
	}
	return &subcontract, nil
}

func UpdateSubcontract(ctx context.Context, id int, input *NewSubcontract) (*Subcontract, error) {

	before, err := utils.FetchModel[Subcontract](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	project, err := utils.FetchModel[Project](ctx, input.ProjectId)
	if err != nil {
		return nil, errors.New("project not found")
	}

	update := input.toModel(project)
	update.ID = id
	update.CreatedAt = before.CreatedAt

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Save(&update).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := refreshProfitAnalysis(ctx, tx, input.ProjectId); err != nil {
		tx.Rollback()
		return nil, err
	}
	// project changed: refresh the old side too
	if before.ProjectId != input.ProjectId {
		if err := refreshProfitAnalysis(ctx, tx, before.ProjectId); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Subcontract](id); err != nil {
		return nil, err
	}
	return &update, nil
}

func DeleteSubcontract(ctx context.Context, id int) (*Subcontract, error) {

	result, err := utils.FetchModel[Subcontract](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := refreshProfitAnalysis(ctx, tx, result.ProjectId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Subcontract](id); err != nil {
		return nil, err
	}
	return result, nil
}

func GetSubcontract(ctx context.Context, id int) (*Subcontract, error) {
	return utils.FetchModel[Subcontract](ctx, id, "Contractor", "InternalWorker")
}

func PaginateSubcontract(ctx context.Context, page, limit int, projectId *int, paymentStatus *SubcontractPaymentStatus, workerType *WorkerType, fromDate *DateString, toDate *DateString) (*PageConnection[Subcontract], error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Preload("Contractor").
		Preload("InternalWorker").
		Order("created_at DESC")

	if err := fromDate.StartOfDayUTCTime(""); err != nil {
		return nil, err
	}
	if err := toDate.EndOfDayUTCTime(""); err != nil {
		return nil, err
	}

	if projectId != nil && *projectId > 0 {
		dbCtx = dbCtx.Where("project_id = ?", *projectId)
	}
	if paymentStatus != nil && *paymentStatus != "" {
		dbCtx = dbCtx.Where("payment_status = ?", *paymentStatus)
	}
	if workerType != nil && *workerType != "" {
		dbCtx = dbCtx.Where("worker_type = ?", *workerType)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("payment_due_date BETWEEN ? AND ?", fromDate, toDate)
	}

	return FetchPage[Subcontract](dbCtx, page, limit)
}

// recompute the per-project profit analysis from current rows
func refreshProfitAnalysis(ctx context.Context, tx *gorm.DB, projectId int) error {

	var project Project
	if err := tx.WithContext(ctx).First(&project, projectId).Error; err != nil {
		return err
	}
	var subcontracts []*Subcontract
	if err := tx.WithContext(ctx).Where("project_id = ?", projectId).Find(&subcontracts).Error; err != nil {
		return err
	}

	subcontractCost := decimal.Zero
	materialCost := decimal.Zero
	for _, sc := range subcontracts {
		subcontractCost = subcontractCost.Add(sc.ResolveAmount())
		materialCost = materialCost.Add(sc.TotalMaterialCost)
	}
	totalExpense := subcontractCost.Add(materialCost)
	gross := project.BillingAmount.Sub(totalExpense)
	rate := decimal.Zero
	if !project.BillingAmount.IsZero() {
		rate = gross.Div(project.BillingAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	analysis := ProjectProfitAnalysis{
		ProjectId:            projectId,
		TotalRevenue:         project.BillingAmount,
		TotalSubcontractCost: subcontractCost,
		TotalMaterialCost:    materialCost,
		TotalExpense:         totalExpense,
		GrossProfit:          gross,
		ProfitRate:           rate,
	}

	var existing ProjectProfitAnalysis
	err := tx.WithContext(ctx).Where("project_id = ?", projectId).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.WithContext(ctx).Create(&analysis).Error
		}
		return err
	}
	analysis.ID = existing.ID
	return tx.WithContext(ctx).Save(&analysis).Error
}
