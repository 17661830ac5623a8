package fee

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Arun270647/tma-demo-repo/core"
)

// Statuses
const (
	StatusDue     = "due"
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// UnpaidStatuses are the statuses reminders are sent for.
var UnpaidStatuses = []string{StatusDue, StatusPending}

type StudentFee struct {
	ID               string     `json:"id" bson:"_id"`
	AcademyID        string     `json:"academy_id" bson:"academy_id"`
	PlayerID         string     `json:"player_id" bson:"player_id"`
	Amount           float64    `json:"amount" bson:"amount"`
	Frequency        string     `json:"frequency" bson:"frequency"`
	DueDate          string     `json:"due_date,omitempty" bson:"due_date,omitempty"` // YYYY-MM-DD
	Status           string     `json:"status" bson:"status"`
	PaidDate         *time.Time `json:"paid_date" bson:"paid_date,omitempty"`
	PaymentMethod    string     `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	TransactionID    string     `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	Notes            string     `json:"notes,omitempty" bson:"notes,omitempty"`
	LastReminderSent *time.Time `json:"last_reminder_sent,omitempty" bson:"last_reminder_sent,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt        time.Time  `json:"updated_at" bson:"updated_at"` // UTC
}

func (f StudentFee) IsUnpaid() bool {
	return core.ContainsString(UnpaidStatuses, f.Status)
}

// Filter selects fees; zero fields are ignored and set fields are ANDed.
// RemindableAt keeps the fees never reminded or last reminded before it.
type Filter struct {
	AcademyIDs   []string
	AcademyID    string
	PlayerID     string
	Statuses     []string
	RemindableAt time.Time
}

// NewFee contains information needed to set the fee of a player.
type NewFee struct {
	Amount    *float64 `json:"amount" validate:"required,min=0"`
	Frequency string   `json:"frequency" validate:"required,oneof=monthly quarterly half-yearly yearly one-time"`
	DueDate   string   `json:"due_date" validate:"required,isodate"`
	Status    string   `json:"status" validate:"omitempty,oneof=due pending paid"`
	Notes     string   `json:"notes"`
}

func (nf *NewFee) Validate(validate *validator.Validate) error {
	nf.Frequency = core.CleanString(nf.Frequency, true /* lower */)
	nf.DueDate = core.CleanString(nf.DueDate)
	if len(nf.DueDate) > len(core.DateLayout) {
		nf.DueDate = nf.DueDate[:len(core.DateLayout)] // drop any time part
	}
	nf.Status = core.CleanString(nf.Status, true /* lower */)
	if nf.Status == "" {
		nf.Status = StatusDue
	}
	nf.Notes = core.CleanString(nf.Notes)
	return validate.Struct(nf)
}

// Payment describes how a fee was paid.
type Payment struct {
	PaymentMethod string `json:"payment_method" query:"payment_method"`
	TransactionID string `json:"transaction_id" query:"transaction_id"`
}

func (p *Payment) Validate(validate *validator.Validate) error {
	p.PaymentMethod = core.CleanString(p.PaymentMethod, true /* lower */)
	if p.PaymentMethod == "" {
		p.PaymentMethod = "cash"
	}
	p.TransactionID = core.CleanString(p.TransactionID)
	return validate.Struct(p)
}

// Row is a fee along with the player it is charged to.
type Row struct {
	StudentFee
	PlayerName         string `json:"player_name"`
	PlayerEmail        string `json:"player_email,omitempty"`
	Sport              string `json:"sport"`
	Age                *int   `json:"age"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

type ReminderResult struct {
	Message string    `json:"message"`
	FeeID   string    `json:"fee_id"`
	SentTo  string    `json:"sent_to"`
	SentAt  time.Time `json:"sent_at"`
}
