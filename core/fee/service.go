package fee

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

const (
	reminderTemplate   = "fee_reminder"
	defaultFrequency   = "monthly"
	defaultAcademyName = "Your Academy"
)

var (
	// errors
	ErrNotFound      = errors.New("fee record not found")
	ErrNoUnpaidFee   = errors.New("no unpaid fee found")
	ErrNoPlayerEmail = errors.New("player does not have an email")
)

type (
	Repository interface {
		CreateFee(ctx context.Context, f StudentFee) (StudentFee, error)
		UpdateFee(ctx context.Context, f StudentFee) (StudentFee, error)
		GetFee(ctx context.Context, academyID, id string) (StudentFee, error)
		// GetPlayerFee returns the most recently created fee of the player.
		GetPlayerFee(ctx context.Context, academyID, playerID string) (StudentFee, error)
		// QueryFees returns the fees matching `filter`, earliest due first.
		QueryFees(ctx context.Context, filter Filter) ([]StudentFee, error)
		SetReminderSent(ctx context.Context, id string, at time.Time) error
	}

	Players interface {
		Get(ctx context.Context, academyID, id string) (player.Player, error)
		Query(ctx context.Context, filter player.Filter) ([]player.Player, error)
	}

	Academies interface {
		Get(ctx context.Context, id string) (academy.Academy, error)
		QueryAutomaticReminders(ctx context.Context) ([]academy.Academy, error)
	}

	Service struct {
		repo      Repository
		players   Players
		academies Academies
		mailer    core.EmailService
		logger    core.Logger
	}
)

func NewService(
	repo Repository,
	players Players,
	academies Academies,
	mailer core.EmailService,
	logger core.Logger,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(players, "players"),
		vala.IsNotNil(academies, "academies"),
		vala.IsNotNil(mailer, "mailer"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{
		repo:      repo,
		players:   players,
		academies: academies,
		mailer:    mailer,
		logger:    logger,
	}
}

// Set creates the fee of an academy player, or overwrites the one already recorded.
func (svc *Service) Set(ctx context.Context, academyID, playerID string, nf NewFee) (StudentFee, error) {
	if _, err := svc.players.Get(ctx, academyID, playerID); err != nil {
		return StudentFee{}, err
	}

	now := core.NowFunc()
	var paidDate *time.Time
	if nf.Status == StatusPaid {
		paidDate = &now
	}

	f, err := svc.repo.GetPlayerFee(ctx, academyID, playerID)
	switch {
	case err == nil:
		f.Amount = *nf.Amount
		f.Frequency = nf.Frequency
		f.DueDate = nf.DueDate
		f.Status = nf.Status
		f.PaidDate = paidDate
		f.Notes = nf.Notes
		f.UpdatedAt = now
		return svc.repo.UpdateFee(ctx, f)
	case errors.Cause(err) == ErrNotFound:
		return svc.repo.CreateFee(ctx, StudentFee{
			ID:        uuid.New().String(),
			AcademyID: academyID,
			PlayerID:  playerID,
			Amount:    *nf.Amount,
			Frequency: nf.Frequency,
			DueDate:   nf.DueDate,
			Status:    nf.Status,
			PaidDate:  paidDate,
			Notes:     nf.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		})
	default:
		return StudentFee{}, errors.Wrap(err, "fetching player fee")
	}
}

// QueryForAcademy returns the latest fee of every active player of the academy.
// Players without a fee get a pending zero-amount row.
func (svc *Service) QueryForAcademy(ctx context.Context, academyID string) ([]Row, error) {
	players, err := svc.players.Query(ctx, player.Filter{AcademyID: academyID, Status: player.StatusActive})
	if err != nil {
		return nil, errors.Wrap(err, "querying players")
	}
	rows := make([]Row, 0, len(players))
	for _, p := range players {
		f, err := svc.repo.GetPlayerFee(ctx, academyID, p.ID)
		if err != nil {
			if errors.Cause(err) != ErrNotFound {
				return nil, errors.Wrap(err, "fetching player fee")
			}
			f = StudentFee{
				AcademyID: academyID,
				PlayerID:  p.ID,
				Frequency: defaultFrequency,
				Status:    StatusPending,
			}
		}
		rows = append(rows, Row{
			StudentFee:         f,
			PlayerName:         p.FullName(),
			PlayerEmail:        p.Email,
			Sport:              p.Sport,
			Age:                p.Age,
			RegistrationNumber: p.RegistrationNumber,
		})
	}
	return rows, nil
}

// QueryForPlayer returns every fee of the player, earliest due first.
func (svc *Service) QueryForPlayer(ctx context.Context, academyID, playerID string) ([]StudentFee, error) {
	return svc.repo.QueryFees(ctx, Filter{AcademyID: academyID, PlayerID: playerID})
}

func (svc *Service) MarkPaid(ctx context.Context, academyID, id string, payment Payment) (StudentFee, error) {
	f, err := svc.repo.GetFee(ctx, academyID, id)
	if err != nil {
		return StudentFee{}, err
	}
	now := core.NowFunc()
	f.Status = StatusPaid
	f.PaidDate = &now
	f.PaymentMethod = payment.PaymentMethod
	f.TransactionID = payment.TransactionID
	f.UpdatedAt = now
	return svc.repo.UpdateFee(ctx, f)
}

// Remind emails the player about their earliest unpaid fee.
func (svc *Service) Remind(ctx context.Context, academyID, playerID string) (ReminderResult, error) {
	p, err := svc.players.Get(ctx, academyID, playerID)
	if err != nil {
		return ReminderResult{}, err
	}
	if p.Email == "" {
		return ReminderResult{}, core.NewValidationError(ErrNoPlayerEmail, core.FieldError{
			Field: "email",
			Error: "Player does not have an email",
		})
	}

	fees, err := svc.repo.QueryFees(ctx, Filter{AcademyID: academyID, PlayerID: playerID, Statuses: UnpaidStatuses})
	if err != nil {
		return ReminderResult{}, errors.Wrap(err, "querying unpaid fees")
	}
	if len(fees) == 0 {
		return ReminderResult{}, ErrNoUnpaidFee
	}

	academyName := defaultAcademyName
	if a, err := svc.academies.Get(ctx, academyID); err == nil {
		academyName = a.Name
	} else if errors.Cause(err) != academy.ErrNotFound {
		return ReminderResult{}, errors.Wrap(err, "fetching academy")
	}

	f := fees[0]
	sentAt, err := svc.sendReminder(ctx, f, p, academyName)
	if err != nil {
		return ReminderResult{}, err
	}
	return ReminderResult{
		Message: "Fee reminder sent successfully",
		FeeID:   f.ID,
		SentTo:  p.Email,
		SentAt:  sentAt,
	}, nil
}

func (svc *Service) sendReminder(ctx context.Context, f StudentFee, p player.Player, academyName string) (time.Time, error) {
	frequency := f.Frequency
	if frequency == "" {
		frequency = defaultFrequency
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: p.FullName(), Address: p.Email}},
		Subject:      fmt.Sprintf("Fee payment reminder from %s", academyName),
		TemplateName: reminderTemplate,
		TemplateData: map[string]interface{}{
			"PlayerName":  p.FullName(),
			"AcademyName": academyName,
			"Frequency":   frequency,
			"Amount":      f.Amount,
			"DueDate":     f.DueDate,
		},
	}
	if err := svc.mailer.SendMessage(msg); err != nil {
		return time.Time{}, errors.Wrap(err, "sending fee reminder")
	}

	now := core.NowFunc()
	if err := svc.repo.SetReminderSent(ctx, f.ID, now); err != nil {
		return time.Time{}, errors.Wrap(err, "recording reminder")
	}
	return now, nil
}
