package inmemdb

import (
	"context"
	"sort"

	"github.com/Arun270647/tma-demo-repo/core/identity"
)

type bindingRepository struct {
	db *table[identity.Binding]
}

var _ identity.Repository = (*bindingRepository)(nil)

func NewBindingRepository(db *DB) identity.Repository {
	return &bindingRepository{db: db.bindings}
}

func (repo *bindingRepository) GetBinding(_ context.Context, subject string) (identity.Binding, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if b, ok := repo.db.rows[subject]; ok {
		return *b, nil
	}
	return identity.Binding{}, identity.ErrNotFound
}

func (repo *bindingRepository) CreateBinding(_ context.Context, b identity.Binding) (identity.Binding, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[b.Subject]; ok {
		return identity.Binding{}, identity.ErrBindingExists
	}
	b.Email = ""
	repo.db.rows[b.Subject] = &b
	return b, nil
}

func (repo *bindingRepository) QueryBindings(_ context.Context, role string) ([]identity.Binding, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := repo.db.filter(func(b *identity.Binding) bool { return role == "" || b.Role == role })
	sort.Slice(res, func(i, j int) bool { return res[i].Subject < res[j].Subject })
	return res, nil
}

func (repo *bindingRepository) DeleteBinding(_ context.Context, subject string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[subject]; !ok {
		return identity.ErrNotFound
	}
	delete(repo.db.rows, subject)
	return nil
}

func (repo *bindingRepository) DeleteAcademyBindings(_ context.Context, academyID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for subject, b := range repo.db.rows {
		if b.AcademyID == academyID {
			delete(repo.db.rows, subject)
		}
	}
	return nil
}

func (repo *bindingRepository) DeleteMemberBindings(_ context.Context, academyID, role, memberID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for subject, b := range repo.db.rows {
		if b.AcademyID != academyID || b.Role != role {
			continue
		}
		if (role == identity.RoleCoach && b.CoachID == memberID) || (role == identity.RolePlayer && b.PlayerID == memberID) {
			delete(repo.db.rows, subject)
		}
	}
	return nil
}

type subjectLookup struct {
	db *DB
}

var _ identity.SubjectLookup = (*subjectLookup)(nil)

// NewSubjectLookup finds the coach, player and academy documents carrying an identity subject.
func NewSubjectLookup(db *DB) identity.SubjectLookup {
	return &subjectLookup{db: db}
}

func (l *subjectLookup) FindCoachBySubject(ctx context.Context, subject string) (identity.Match, error) {
	if err := ctx.Err(); err != nil {
		return identity.Match{}, err
	}
	t := l.db.coaches
	t.RLock()
	defer t.RUnlock()

	for _, c := range t.rows {
		if c.IdentitySubject != "" && c.IdentitySubject == subject {
			return identity.Match{ID: c.ID, AcademyID: c.AcademyID}, nil
		}
	}
	return identity.Match{}, identity.ErrNotFound
}

func (l *subjectLookup) FindPlayerBySubject(ctx context.Context, subject string) (identity.Match, error) {
	if err := ctx.Err(); err != nil {
		return identity.Match{}, err
	}
	t := l.db.players
	t.RLock()
	defer t.RUnlock()

	for _, p := range t.rows {
		if p.IdentitySubject != "" && p.IdentitySubject == subject {
			return identity.Match{ID: p.ID, AcademyID: p.AcademyID}, nil
		}
	}
	return identity.Match{}, identity.ErrNotFound
}

func (l *subjectLookup) FindAcademyBySubject(ctx context.Context, subject string) (identity.Match, error) {
	if err := ctx.Err(); err != nil {
		return identity.Match{}, err
	}
	t := l.db.academies
	t.RLock()
	defer t.RUnlock()

	for _, a := range t.rows {
		if a.IdentitySubject != "" && a.IdentitySubject == subject {
			return identity.Match{ID: a.ID, AcademyID: a.ID}, nil
		}
	}
	return identity.Match{}, identity.ErrNotFound
}
