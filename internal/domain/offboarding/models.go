package offboarding

import (
	"time"

	"hrms/internal/domain/employee"
)

const (
	ItemLaptopReturned    = "LAPTOP_RETURNED"
	ItemAccessCard        = "ACCESS_CARD"
	ItemDocuments         = "DOCUMENTS"
	ItemNoDues            = "NO_DUES"
	ItemKnowledgeTransfer = "KNOWLEDGE_TRANSFER"

	StatusPending   = "PENDING"
	StatusSubmitted = "SUBMITTED"
)

// Items is the fixed checklist every offboarding carries.
var Items = []string{ItemLaptopReturned, ItemAccessCard, ItemDocuments, ItemNoDues, ItemKnowledgeTransfer}

var Statuses = []string{StatusPending, StatusSubmitted}

type ChecklistItem struct {
	ID            string    `json:"id"`
	OffboardingID string    `json:"offboarding_id"`
	Item          string    `json:"item"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Offboarding struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	ResignationDate *employee.Date  `json:"resignation_date"`
	LastWorkingDate *employee.Date  `json:"last_working_date"`
	ReasonForExit   string          `json:"reason_for_exit"`
	AdditionalNotes string          `json:"additional_notes"`
	CreatedAt       time.Time       `json:"created_at"`
	Checklist       []ChecklistItem `json:"checklist"`
}

// Request is the payload that opens an offboarding.
type Request struct {
	ResignationDate string            `json:"resignation_date"`
	LastWorkingDate string            `json:"last_working_date"`
	ReasonForExit   string            `json:"reason_for_exit"`
	AdditionalNotes string            `json:"additional_notes"`
	Checklist       map[string]string `json:"checklist"`
}
