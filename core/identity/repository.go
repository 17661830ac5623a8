package identity

import "context"

type (
	// Match is a document referencing a subject: its own id and the academy it belongs to.
	Match struct {
		ID        string
		AcademyID string
	}

	// SubjectLookup finds the coach, player and academy documents bound to a subject.
	// Every method returns ErrNotFound when no document references the subject.
	SubjectLookup interface {
		FindCoachBySubject(ctx context.Context, subject string) (Match, error)
		FindPlayerBySubject(ctx context.Context, subject string) (Match, error)
		FindAcademyBySubject(ctx context.Context, subject string) (Match, error)
	}

	// Repository stores role bindings; at most one per subject.
	Repository interface {
		GetBinding(ctx context.Context, subject string) (Binding, error)
		// CreateBinding returns ErrBindingExists if the subject is already bound.
		CreateBinding(ctx context.Context, b Binding) (Binding, error)
		QueryBindings(ctx context.Context, role string) ([]Binding, error)
		DeleteBinding(ctx context.Context, subject string) error
		// DeleteAcademyBindings removes every binding scoped to academyID.
		DeleteAcademyBindings(ctx context.Context, academyID string) error
		// DeleteMemberBindings removes the coach (or player) bindings of memberID in the academy.
		DeleteMemberBindings(ctx context.Context, academyID, role, memberID string) error
	}
)
