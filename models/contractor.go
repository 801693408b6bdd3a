package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

// Contractor is the payee master for external subcontractors and suppliers.
type Contractor struct {
	ID               int             `gorm:"primary_key" json:"id"`
	Name             string          `gorm:"size:200;not null;index" json:"name" binding:"required"`
	Address          string          `gorm:"type:text" json:"address"`
	ContactPerson    string          `gorm:"size:100" json:"contact_person"`
	Phone            string          `gorm:"size:20" json:"phone"`
	Email            string          `gorm:"size:255" json:"email"`
	ContractorType   ContractorType  `gorm:"size:20;default:'company'" json:"contractor_type"`
	Specialties      string          `gorm:"type:text" json:"specialties"`
	HourlyRate       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"hourly_rate"`
	IsOrdering       *bool           `gorm:"default:false" json:"is_ordering"`
	IsReceiving      *bool           `gorm:"default:false" json:"is_receiving"`
	IsSupplier       *bool           `gorm:"default:false" json:"is_supplier"`
	IsOther          *bool           `gorm:"default:false" json:"is_other"`
	OtherDescription string          `gorm:"size:100" json:"other_description"`
	IsActive         *bool           `gorm:"default:true" json:"is_active"`
	// PaymentDay 0 means no fixed payment day is set.
	PaymentDay       int             `gorm:"default:0" json:"payment_day"`
	PaymentCycle     PaymentCycle    `gorm:"size:20;default:'monthly'" json:"payment_cycle"`
	ClosingDay       int             `gorm:"default:0" json:"closing_day"`
	BankName         string          `gorm:"size:100" json:"bank_name"`
	BranchName       string          `gorm:"size:100" json:"branch_name"`
	AccountType      BankAccountType `gorm:"size:20;default:'ordinary'" json:"account_type"`
	AccountNumber    string          `gorm:"size:20" json:"account_number"`
	AccountHolder    string          `gorm:"size:100" json:"account_holder"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewContractor struct {
	Name             string          `json:"name" binding:"required"`
	Address          string          `json:"address"`
	ContactPerson    string          `json:"contact_person"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	ContractorType   ContractorType  `json:"contractor_type"`
	Specialties      string          `json:"specialties"`
	HourlyRate       decimal.Decimal `json:"hourly_rate"`
	IsOrdering       *bool           `json:"is_ordering"`
	IsReceiving      *bool           `json:"is_receiving"`
	IsSupplier       *bool           `json:"is_supplier"`
	IsOther          *bool           `json:"is_other"`
	OtherDescription string          `json:"other_description"`
	IsActive         *bool           `json:"is_active"`
	PaymentDay       int             `json:"payment_day"`
	PaymentCycle     PaymentCycle    `json:"payment_cycle"`
	ClosingDay       int             `json:"closing_day"`
	BankName         string          `json:"bank_name"`
	BranchName       string          `json:"branch_name"`
	AccountType      BankAccountType `json:"account_type"`
	AccountNumber    string          `json:"account_number"`
	AccountHolder    string          `json:"account_holder"`
}

func (obj Contractor) GetId() int {
	return obj.ID
}

func (c *Contractor) HasBankInfo() bool {
	return c.BankName != "" && c.AccountNumber != ""
}

// NextPaymentDate computes the next payment date from payment day and cycle,
// clamping the day to the month end. Custom cycle just returns the base date.
func (c *Contractor) NextPaymentDate(baseDate time.Time) time.Time {
	if c.PaymentDay == 0 {
		return baseDate
	}

	thisMonth := utils.ClampDayToMonth(baseDate.Year(), baseDate.Month(), c.PaymentDay)

	var monthsAhead int
	switch c.PaymentCycle {
	case PaymentCycleMonthly:
		monthsAhead = 1
	case PaymentCycleBimonthly:
		monthsAhead = 2
	case PaymentCycleQuarterly:
		monthsAhead = 3
	default:
		return baseDate
	}

	if thisMonth.After(baseDate) {
		return thisMonth
	}
	// Advance from the first of the month: AddDate on a 29th-31st base
	// normalizes past short months (Jan 31 + 1 month = Mar 3).
	next := utils.FirstOfMonth(baseDate).AddDate(0, monthsAhead, 0)
	return utils.ClampDayToMonth(next.Year(), next.Month(), c.PaymentDay)
}

func (input *NewContractor) validate(ctx context.Context, id int) error {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, ""); err != nil {
			return errors.New("invalid phone number")
		}
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if input.PaymentDay < 0 || input.PaymentDay > 31 {
		return errors.New("payment day must be 0 (unset) or between 1 and 31")
	}
	if input.ContractorType == "" {
		input.ContractorType = ContractorTypeCompany
	}
	if input.PaymentCycle == "" {
		input.PaymentCycle = PaymentCycleMonthly
	}
	if input.AccountType == "" {
		input.AccountType = BankAccountOrdinary
	}
	return utils.ValidateUnique[Contractor](ctx, "name", input.Name, id)
}

func (input *NewContractor) toModel() Contractor {
	return Contractor{
		Name:             input.Name,
		Address:          input.Address,
		ContactPerson:    input.ContactPerson,
		Phone:            input.Phone,
		Email:            input.Email,
		ContractorType:   input.ContractorType,
		Specialties:      input.Specialties,
		HourlyRate:       input.HourlyRate,
		IsOrdering:       input.IsOrdering,
		IsReceiving:      input.IsReceiving,
		IsSupplier:       input.IsSupplier,
		IsOther:          input.IsOther,
		OtherDescription: input.OtherDescription,
		IsActive:         input.IsActive,
		PaymentDay:       input.PaymentDay,
		PaymentCycle:     input.PaymentCycle,
		ClosingDay:       input.ClosingDay,
		BankName:         input.BankName,
		BranchName:       input.BranchName,
		AccountType:      input.AccountType,
		AccountNumber:    input.AccountNumber,
		AccountHolder:    input.AccountHolder,
	}
}

func CreateContractor(ctx context.Context, input *NewContractor) (*Contractor, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	contractor := input.toModel()
	if contractor.IsActive == nil {
		contractor.IsActive = utils.NewTrue()
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&contractor).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Contractor](contractor.ID); err != nil {
		return nil, err
	}
	return &contractor, nil
}

func UpdateContractor(ctx context.Context, id int, input *NewContractor) (*Contractor, error) {

	before, err := utils.FetchModel[Contractor](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	update := input.toModel()
	update.ID = id
	update.CreatedAt = before.CreatedAt
	if update.IsActive == nil {
		update.IsActive = before.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(&update).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Contractor](id); err != nil {
		return nil, err
	}
	return &update, nil
}

func DeleteContractor(ctx context.Context, id int) (*Contractor, error) {

	result, err := utils.FetchModel[Contractor](ctx, id)
	if err != nil {
		return nil, err
	}

	// refuse to delete a payee that still has subcontracts
	count, err := utils.ResourceCountWhere[Subcontract](ctx, "contractor_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("contractor has subcontracts")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Contractor](id); err != nil {
		return nil, err
	}
	return result, nil
}

func GetContractor(ctx context.Context, id int) (*Contractor, error) {
	return GetResource[Contractor](ctx, id)
}

func ListContractors(ctx context.Context) ([]*Contractor, error) {
	return ListAllResource[Contractor](ctx, "name ASC")
}

// sum of billed||contract amounts of unpaid subcontracts
func (c *Contractor) UnpaidAmount(ctx context.Context) (decimal.Decimal, error) {
	db := config.GetDB()
	var subcontracts []*Subcontract
	err := db.WithContext(ctx).
		Where("contractor_id = ? AND payment_status != ?", c.ID, SubcontractPaymentPaid).
		Find(&subcontracts).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, sc := range subcontracts {
		total = total.Add(sc.ResolveAmount())
	}
	return total, nil
}

func (c *Contractor) TotalAmount(ctx context.Context) (decimal.Decimal, error) {
	db := config.GetDB()
	var subcontracts []*Subcontract
	err := db.WithContext(ctx).Where("contractor_id = ?", c.ID).Find(&subcontracts).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, sc := range subcontracts {
		total = total.Add(sc.ResolveAmount())
	}
	return total, nil
}
