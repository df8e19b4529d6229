package contacts

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/contact-finder/internal/policy"
	"github.com/jonathan/contact-finder/internal/roles"
	"github.com/jonathan/contact-finder/internal/types"
)

func roleContact(addr string) types.CandidateContact {
	return types.CandidateContact{Address: addr, Kind: types.KindRoleBased}
}

func personContact(addr, name string) types.CandidateContact {
	return types.CandidateContact{Address: addr, Kind: types.KindPublicContact, SourceName: name}
}

func TestNameConsistent(t *testing.T) {
	tokens := []string{"jane", "doe"}

	tests := []struct {
		local string
		want  bool
	}{
		{"jane.doe", true},
		{"janedoe", true},
		{"jdoe", true},
		{"j.doe", true},
		{"doe_jane", true},
		{"jan", true},
		{"jjane", false},
		{"janejane", false},
		{"doejane", false},
		{"jjdoe", false},
		{"jdoedoe", false},
		{"admin", false},
		{"jane.admin", false},
		{"jane2", false},
		{"", false},
		{"...", false},
	}

	for _, tt := range tests {
		t.Run(tt.local, func(t *testing.T) {
			assert.Equal(t, tt.want, NameConsistent(tt.local, tokens))
		})
	}

	assert.False(t, NameConsistent("jane", nil))
}

func TestFilter_RoleInboxes(t *testing.T) {
	f := NewFilter(nil, nil)

	kept, rejected := f.Apply([]types.CandidateContact{
		roleContact("careers@acme.com"),
		roleContact("privacy@acme.com"),
		roleContact("sales@acme.com"),
		roleContact("info@acme.com"),
		roleContact("not-an-address"),
	})

	assert.Equal(t, []string{"careers@acme.com", "info@acme.com"}, addressesOf(kept))
	require.Len(t, rejected, 3)
	assert.Equal(t, "privacy@acme.com", rejected[0].Address)
	assert.Contains(t, rejected[0].Reason, "sensitive")
	assert.Contains(t, rejected[1].Reason, "allowed set")
	assert.Equal(t, "malformed address", rejected[2].Reason)
}

func TestFilter_SensitiveKeywordsAnywhereInLocalPart(t *testing.T) {
	f := NewFilter(nil, nil)
	for _, addr := range []string{"data-protection@acme.com", "legal.team@acme.com", "SecOps@acme.com", "trust_safety@acme.com"} {
		t.Run(addr, func(t *testing.T) {
			kept, _ := f.Apply([]types.CandidateContact{personContact(addr, "Legal Team")})
			assert.Empty(t, kept)
		})
	}
}

func TestFilter_PersonDerived(t *testing.T) {
	f := NewFilter(nil, nil)

	kept, rejected := f.Apply([]types.CandidateContact{
		personContact("jane.doe@acme.com", "Jane Doe"),
		personContact("jdoe@acme.com", "Jane Doe"),
		personContact("admin@acme.com", "Jane Doe"),
		personContact("jane.doe@acme.com", ""),
	})

	assert.Equal(t, []string{"jane.doe@acme.com", "jdoe@acme.com"}, addressesOf(kept))
	assert.Len(t, rejected, 2)
}

func TestFilter_CustomPolicy(t *testing.T) {
	p := policy.Default()
	p.SensitiveKeywords = append(p.SensitiveKeywords, "careers")

	f := NewFilter(p, roles.DefaultInboxTable())
	kept, _ := f.Apply([]types.CandidateContact{roleContact("careers@acme.com"), roleContact("talent@acme.com")})
	assert.Equal(t, []string{"talent@acme.com"}, addressesOf(kept))
}

func TestFilterCandidates_UnknownKind(t *testing.T) {
	kept := FilterCandidates([]types.CandidateContact{{Address: "info@acme.com", Kind: "guess"}})
	assert.Empty(t, kept)
}

var (
	firstNames = []string{"Jane", "Ravi", "Maria", "Chen", "Olu", "Kate", "Lars", "Amir", "Sofia", "Noah"}
	lastNames  = []string{"Doe", "Kumar", "Garcia", "Wang", "Adeyemi", "Smith", "Berg", "Haddad", "Rossi", "Brown"}
)

func TestFilter_SynthesizedPatternsAlwaysSurvive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := NewFilter(nil, nil)

	for i := 0; i < 200; i++ {
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		generated := SynthesizePersonalPatterns(types.PersonRecord{Name: name}, "acme.com")
		require.NotEmpty(t, generated, name)

		kept, rejected := f.Apply(generated)
		assert.Len(t, kept, len(generated), "name %q rejected: %v", name, rejected)
	}
}

func TestFilter_ForeignLocalPartsNeverSurvive(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	f := NewFilter(nil, nil)

	for i := 0; i < 200; i++ {
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		kept, _ := f.Apply([]types.CandidateContact{
			personContact("admin@acme.com", name),
			personContact("webmaster@acme.com", name),
		})
		assert.Empty(t, kept, name)
	}
}

func addressesOf(contacts []types.CandidateContact) []string {
	out := make([]string, len(contacts))
	for i, c := range contacts {
		out[i] = c.Address
	}
	return out
}
