package models

import (
	"log"

	"github.com/mmdatafocus/dispatch_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Project{},
		&Subcontract{}, &Contractor{}, &InternalWorker{}, &ProjectProfitAnalysis{},
		&FixedCost{}, &VariableCost{},
		&MaterialOrder{}, &MaterialOrderItem{},
		&Invoice{}, &InvoiceItem{},
		&Surveyor{}, &Survey{}, &SurveyRoom{}, &SurveyWall{}, &SurveyDamage{},
		&SurveyPhoto{}, &SurveyStepProgress{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
