package gen

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"workseed/internal/errs"
)

// Kind names an entity class in the registry.
type Kind string

const (
	KindOrganization Kind = "organization"
	KindUser         Kind = "user"
	KindTeam         Kind = "team"
	KindMembership   Kind = "team_membership"
	KindProject      Kind = "project"
	KindSection      Kind = "section"
	KindTask         Kind = "task"
	KindDependency   Kind = "task_dependency"
	KindComment      Kind = "comment"
	KindAttachment   Kind = "attachment"
	KindTag          Kind = "tag"
	KindTaskTag      Kind = "task_tag"
	KindFieldDef     Kind = "custom_field_definition"
	KindEnumOption   Kind = "custom_field_enum_option"
	KindFieldValue   Kind = "custom_field_value"
)

// Registry mints every identifier from the run's random stream and records
// its kind, so cross-entity references can be checked before they reach the
// database. All IDs come from here; nothing else calls uuid directly.
type Registry struct {
	rng   *rand.Rand
	kinds map[string]Kind
}

func NewRegistry(rng *rand.Rand) *Registry {
	return &Registry{rng: rng, kinds: make(map[string]Kind)}
}

// Mint creates a fresh ID of the given kind. IDs are drawn from the seeded
// stream so a run's identifiers are reproducible.
func (r *Registry) Mint(kind Kind) (string, error) {
	u, err := uuid.NewRandomFromReader(r.rng)
	if err != nil {
		return "", goerr.Wrap(err, "mint identifier", goerr.T(errs.TagConstraint), goerr.V("kind", kind))
	}
	id := u.String()
	if _, exists := r.kinds[id]; exists {
		return "", goerr.New("identifier collision", goerr.T(errs.TagConstraint), goerr.V("id", id))
	}
	r.kinds[id] = kind
	return id, nil
}

// Require verifies that id exists and is of the expected kind. Generators
// call this on every foreign reference they are about to emit.
func (r *Registry) Require(id string, kind Kind) error {
	got, ok := r.kinds[id]
	if !ok {
		return goerr.New("reference to unknown identifier",
			goerr.T(errs.TagConstraint), goerr.V("id", id), goerr.V("want", kind))
	}
	if got != kind {
		return goerr.New("reference to wrong entity kind",
			goerr.T(errs.TagConstraint), goerr.V("id", id), goerr.V("want", kind), goerr.V("got", got))
	}
	return nil
}

// Count reports how many identifiers of a kind have been minted.
func (r *Registry) Count(kind Kind) int {
	n := 0
	for _, k := range r.kinds {
		if k == kind {
			n++
		}
	}
	return n
}
