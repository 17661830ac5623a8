package identity

import (
	"context"
	"strings"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Arun270647/tma-demo-repo/core"
)

// Resolver derives the role of the caller of every protected request.
// It never writes and never caches anything across calls.
type Resolver struct {
	verifier Verifier
	repo     Repository
	lookup   SubjectLookup
	conf     core.AuthConfig
	logger   core.Logger
}

func NewResolver(verifier Verifier, repo Repository, lookup SubjectLookup, conf core.AuthConfig, logger core.Logger) *Resolver {
	vala.BeginValidation().Validate(
		vala.IsNotNil(verifier, "verifier"),
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(lookup, "lookup"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Resolver{
		verifier: verifier,
		repo:     repo,
		lookup:   lookup,
		conf:     conf,
		logger:   logger,
	}
}

// Authenticate exchanges the credential for an Identity.
// Every failure, whatever its origin, is reported as ErrUnauthenticated.
func (r *Resolver) Authenticate(ctx context.Context, credential string) (Identity, error) {
	if strings.TrimSpace(credential) == "" {
		return Identity{}, ErrUnauthenticated
	}
	idt, err := r.verifier.Verify(ctx, credential)
	if err != nil {
		if errors.Cause(err) == ErrUnauthenticated {
			return Identity{}, err
		}
		return Identity{}, errors.Wrap(ErrUnauthenticated, err.Error())
	}
	if idt.Subject == "" {
		return Identity{}, ErrUnauthenticated
	}
	return idt, nil
}

// Resolve returns the role binding of the caller.
// The stored role binding wins; without one the coach, player and academy documents are scanned
// (in that priority) and the super-admin allow-list is checked last.
func (r *Resolver) Resolve(ctx context.Context, credential string) (Binding, error) {
	idt, err := r.Authenticate(ctx, credential)
	if err != nil {
		return Binding{}, err
	}

	b, err := r.repo.GetBinding(ctx, idt.Subject)
	if err == nil {
		b.Email = idt.Email
		return b, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Binding{}, errors.Wrap(err, "getting role binding")
	}

	b, err = r.scan(ctx, idt)
	if err == nil {
		return b, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Binding{}, err
	}

	if r.conf.IsSuperAdminEmail(idt.Email) {
		return superAdmin(idt), nil
	}
	return Binding{}, ErrForbidden
}

// ResolveSuperAdmin only checks the super-admin allow-list,
// whatever other role the identity may hold.
func (r *Resolver) ResolveSuperAdmin(ctx context.Context, credential string) (Binding, error) {
	idt, err := r.Authenticate(ctx, credential)
	if err != nil {
		return Binding{}, err
	}
	if !r.conf.IsSuperAdminEmail(idt.Email) {
		return Binding{}, ErrForbidden
	}
	return superAdmin(idt), nil
}

// ResolveAnyAuthenticated returns the caller's Identity without any role lookup,
// or nil when the credential is absent or cannot be verified.
func (r *Resolver) ResolveAnyAuthenticated(ctx context.Context, credential string) *Identity {
	idt, err := r.Authenticate(ctx, credential)
	if err != nil {
		return nil
	}
	return &idt
}

// Require resolves the caller and fails with ErrForbidden unless they hold `role`.
func (r *Resolver) Require(ctx context.Context, credential, role string) (Binding, error) {
	if role == RoleSuperAdmin {
		return r.ResolveSuperAdmin(ctx, credential)
	}
	b, err := r.Resolve(ctx, credential)
	if err != nil {
		return Binding{}, err
	}
	if b.Role != role {
		return Binding{}, ErrForbidden
	}
	return b, nil
}

func (r *Resolver) RequireSuperAdmin(ctx context.Context, credential string) (Binding, error) {
	return r.Require(ctx, credential, RoleSuperAdmin)
}

func (r *Resolver) RequireAcademyOwner(ctx context.Context, credential string) (Binding, error) {
	return r.Require(ctx, credential, RoleAcademyOwner)
}

func (r *Resolver) RequireCoach(ctx context.Context, credential string) (Binding, error) {
	return r.Require(ctx, credential, RoleCoach)
}

func (r *Resolver) RequirePlayer(ctx context.Context, credential string) (Binding, error) {
	return r.Require(ctx, credential, RolePlayer)
}

// scan looks the subject up in the coach, player and academy documents concurrently.
// It returns ErrNotFound when no document references the subject.
func (r *Resolver) scan(ctx context.Context, idt Identity) (Binding, error) {
	var coach, player, academy *Match

	g, gctx := errgroup.WithContext(ctx)
	find := func(dst **Match, fn func(context.Context, string) (Match, error)) func() error {
		return func() error {
			m, err := fn(gctx, idt.Subject)
			if err != nil {
				if errors.Cause(err) == ErrNotFound {
					return nil
				}
				return err
			}
			*dst = &m
			return nil
		}
	}
	g.Go(find(&coach, r.lookup.FindCoachBySubject))
	g.Go(find(&player, r.lookup.FindPlayerBySubject))
	g.Go(find(&academy, r.lookup.FindAcademyBySubject))
	if err := g.Wait(); err != nil {
		return Binding{}, errors.Wrap(err, "looking up subject")
	}
	if err := ctx.Err(); err != nil {
		return Binding{}, err
	}

	var matches int
	for _, m := range []*Match{coach, player, academy} {
		if m != nil {
			matches++
		}
	}
	if matches > 1 {
		if r.conf.StrictBindings {
			return Binding{}, ErrAmbiguousRole
		}
		r.logger.Warn("identity matches more than one role; using priority order",
			map[string]interface{}{"matches": matches}, idt)
	}

	b := Binding{Subject: idt.Subject, Email: idt.Email}
	switch {
	case coach != nil:
		b.Role = RoleCoach
		b.CoachID = coach.ID
		b.AcademyID = coach.AcademyID
	case player != nil:
		b.Role = RolePlayer
		b.PlayerID = player.ID
		b.AcademyID = player.AcademyID
	case academy != nil:
		b.Role = RoleAcademyOwner
		b.AcademyID = academy.ID
	default:
		return Binding{}, ErrNotFound
	}
	return b, nil
}

func superAdmin(idt Identity) Binding {
	return Binding{Role: RoleSuperAdmin, Subject: idt.Subject, Email: idt.Email}
}
