package fee

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

// Report counts what a reminder run did.
type Report struct {
	Academies int `json:"academies"`
	Due       int `json:"due"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// SendAutomaticReminders emails every unpaid fee of the academies that opted in to automatic
// reminders, unless the fee was already reminded within `cooldown`.
// Fees whose player has no email are skipped.
func (svc *Service) SendAutomaticReminders(ctx context.Context, cooldown time.Duration) (Report, error) {
	var rep Report

	academies, err := svc.academies.QueryAutomaticReminders(ctx)
	if err != nil {
		return rep, errors.Wrap(err, "querying academies")
	}
	rep.Academies = len(academies)
	if len(academies) == 0 {
		svc.logger.Info("no academies with automatic reminders enabled")
		return rep, nil
	}

	names := make(map[string]string, len(academies))
	ids := make([]string, 0, len(academies))
	for _, a := range academies {
		names[a.ID] = a.Name
		ids = append(ids, a.ID)
	}

	fees, err := svc.repo.QueryFees(ctx, Filter{
		AcademyIDs:   ids,
		Statuses:     UnpaidStatuses,
		RemindableAt: core.NowFunc().Add(-cooldown),
	})
	if err != nil {
		return rep, errors.Wrap(err, "querying unpaid fees")
	}
	rep.Due = len(fees)

	for _, f := range fees {
		if err = ctx.Err(); err != nil {
			return rep, err
		}

		p, err := svc.players.Get(ctx, f.AcademyID, f.PlayerID)
		if err != nil && errors.Cause(err) != player.ErrNotFound {
			rep.Failed++
			svc.logger.Error("fetching player", errors.Wrap(err, f.PlayerID))
			continue
		}
		if err != nil || p.Email == "" {
			rep.Skipped++
			svc.logger.Warn("skipping fee reminder, no player email", map[string]interface{}{"player_id": f.PlayerID, "fee_id": f.ID})
			continue
		}

		academyName, ok := names[f.AcademyID]
		if !ok {
			rep.Skipped++
			svc.logger.Warn("skipping fee reminder, academy not found", map[string]interface{}{"academy_id": f.AcademyID, "fee_id": f.ID})
			continue
		}

		if _, err = svc.sendReminder(ctx, f, p, academyName); err != nil {
			rep.Failed++
			svc.logger.Error("sending fee reminder", err, map[string]interface{}{"fee_id": f.ID})
			continue
		}
		rep.Sent++
	}

	svc.logger.Info("automatic fee reminders done", map[string]interface{}{
		"due":     rep.Due,
		"sent":    rep.Sent,
		"skipped": rep.Skipped,
		"failed":  rep.Failed,
	})
	return rep, nil
}
