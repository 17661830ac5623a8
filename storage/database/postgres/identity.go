package pgdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Arun270647/tma-demo-repo/core/identity"
)

const uniqueViolation = "23505"

type bindingRow struct {
	Subject   string      `db:"subject"`
	Role      string      `db:"role"`
	AcademyID string      `db:"academy_id"`
	CoachID   null.String `db:"coach_id"`
	PlayerID  null.String `db:"player_id"`
	CreatedAt time.Time   `db:"created_at"`
}

func newBindingRow(b identity.Binding) bindingRow {
	return bindingRow{
		Subject:   b.Subject,
		Role:      b.Role,
		AcademyID: b.AcademyID,
		CoachID:   null.NewString(b.CoachID, b.CoachID != ""),
		PlayerID:  null.NewString(b.PlayerID, b.PlayerID != ""),
		CreatedAt: b.CreatedAt.UTC(),
	}
}

func (r bindingRow) binding() identity.Binding {
	return identity.Binding{
		Role:      r.Role,
		Subject:   r.Subject,
		AcademyID: r.AcademyID,
		CoachID:   r.CoachID.String,
		PlayerID:  r.PlayerID.String,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type bindingRepository struct {
	db *sqlx.DB
}

var _ identity.Repository = (*bindingRepository)(nil)

func NewBindingRepository(db *sqlx.DB) identity.Repository {
	return &bindingRepository{db: db}
}

func (repo *bindingRepository) GetBinding(ctx context.Context, subject string) (identity.Binding, error) {
	var row bindingRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM role_bindings WHERE subject = $1`, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.Binding{}, identity.ErrNotFound
		}
		return identity.Binding{}, errors.Wrap(err, "selecting role binding")
	}
	return row.binding(), nil
}

func (repo *bindingRepository) CreateBinding(ctx context.Context, b identity.Binding) (identity.Binding, error) {
	q := `INSERT INTO role_bindings (subject, role, academy_id, coach_id, player_id, created_at)
		VALUES (:subject, :role, :academy_id, :coach_id, :player_id, :created_at)`
	row := newBindingRow(b)
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return identity.Binding{}, identity.ErrBindingExists
		}
		return identity.Binding{}, errors.Wrap(err, "inserting role binding")
	}
	return row.binding(), nil
}

func (repo *bindingRepository) QueryBindings(ctx context.Context, role string) ([]identity.Binding, error) {
	rows := make([]bindingRow, 0)
	var err error
	if role == "" {
		err = repo.db.SelectContext(ctx, &rows, `SELECT * FROM role_bindings ORDER BY subject`)
	} else {
		err = repo.db.SelectContext(ctx, &rows, `SELECT * FROM role_bindings WHERE role = $1 ORDER BY subject`, role)
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting role bindings")
	}

	res := make([]identity.Binding, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.binding())
	}
	return res, nil
}

func (repo *bindingRepository) DeleteBinding(ctx context.Context, subject string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM role_bindings WHERE subject = $1`, subject)
	if err != nil {
		return errors.Wrap(err, "deleting role binding")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting role binding")
	}
	if n == 0 {
		return identity.ErrNotFound
	}
	return nil
}

func (repo *bindingRepository) DeleteAcademyBindings(ctx context.Context, academyID string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM role_bindings WHERE academy_id = $1`, academyID)
	return errors.Wrap(err, "deleting academy role bindings")
}

func (repo *bindingRepository) DeleteMemberBindings(ctx context.Context, academyID, role, memberID string) error {
	query := `DELETE FROM role_bindings WHERE academy_id = $1 AND role = $2 AND player_id = $3`
	if role == identity.RoleCoach {
		query = `DELETE FROM role_bindings WHERE academy_id = $1 AND role = $2 AND coach_id = $3`
	}
	_, err := repo.db.ExecContext(ctx, query, academyID, role, memberID)
	return errors.Wrapf(err, "deleting %s role bindings", role)
}
