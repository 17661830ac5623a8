package inmemdb

import (
	"context"
	"sort"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

type playerRepository struct {
	db *table[player.Player]
}

var _ player.Repository = (*playerRepository)(nil)

func NewPlayerRepository(db *DB) player.Repository {
	return &playerRepository{db: db.players}
}

func matchPlayer(f player.Filter) func(*player.Player) bool {
	return func(p *player.Player) bool {
		return (f.AcademyID == "" || p.AcademyID == f.AcademyID) &&
			(f.CoachID == "" || p.CoachID == f.CoachID) &&
			(f.Status == "" || p.Status == f.Status) &&
			(f.RegistrationNumber == "" || p.RegistrationNumber == f.RegistrationNumber) &&
			(f.IDs == nil || core.ContainsString(f.IDs, p.ID))
	}
}

func sortPlayers(players []player.Player) {
	sort.Slice(players, func(i, j int) bool {
		if players[i].FirstName != players[j].FirstName {
			return players[i].FirstName < players[j].FirstName
		}
		if players[i].LastName != players[j].LastName {
			return players[i].LastName < players[j].LastName
		}
		return players[i].ID < players[j].ID
	})
}

func (repo *playerRepository) CreatePlayer(_ context.Context, p player.Player) (player.Player, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows[p.ID] = &p
	return p, nil
}

func (repo *playerRepository) QueryPlayers(_ context.Context, filter player.Filter) ([]player.Player, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := repo.db.filter(matchPlayer(filter))
	sortPlayers(res)
	return res, nil
}

func (repo *playerRepository) CountPlayers(_ context.Context, filter player.Filter) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.filter(matchPlayer(filter))), nil
}

func (repo *playerRepository) GetPlayer(_ context.Context, academyID, id string) (player.Player, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.rows[id]; ok && p.AcademyID == academyID {
		return *p, nil
	}
	return player.Player{}, player.ErrNotFound
}

func (repo *playerRepository) UpdatePlayer(_ context.Context, p player.Player) (player.Player, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.rows[p.ID]
	if !ok || orig.AcademyID != p.AcademyID {
		return player.Player{}, player.ErrNotFound
	}
	p.CreatedAt = orig.CreatedAt
	p.IdentitySubject = orig.IdentitySubject
	repo.db.rows[p.ID] = &p
	return p, nil
}

func (repo *playerRepository) DeletePlayer(_ context.Context, academyID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if p, ok := repo.db.rows[id]; !ok || p.AcademyID != academyID {
		return player.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}

func (repo *playerRepository) SetCoach(_ context.Context, academyID string, ids []string, coachID string) (matched, modified int, err error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	now := core.NowFunc()
	for _, p := range repo.db.rows {
		if p.AcademyID != academyID || !core.ContainsString(ids, p.ID) {
			continue
		}
		matched++
		if p.CoachID != coachID {
			p.CoachID = coachID
			p.UpdatedAt = now
			modified++
		}
	}
	return matched, modified, nil
}

func (repo *playerRepository) UnsetCoach(_ context.Context, academyID, coachID string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var n int
	now := core.NowFunc()
	for _, p := range repo.db.rows {
		if p.AcademyID == academyID && p.CoachID == coachID {
			p.CoachID = ""
			p.UpdatedAt = now
			n++
		}
	}
	return n, nil
}
