package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateContactParts(t *testing.T) {
	c := CandidateContact{Address: "careers@acme.com"}
	assert.Equal(t, "careers", c.LocalPart())
	assert.Equal(t, "acme.com", c.DomainPart())

	bare := CandidateContact{Address: "nodomain"}
	assert.Equal(t, "nodomain", bare.LocalPart())
	assert.Equal(t, "", bare.DomainPart())
}

func TestRoleIntentValid(t *testing.T) {
	assert.True(t, IntentHiring.Valid())
	assert.True(t, IntentEngineering.Valid())
	assert.True(t, IntentGeneral.Valid())
	assert.False(t, RoleIntent("sales").Valid())
	assert.False(t, RoleIntent("").Valid())
}

func TestContactResultClone(t *testing.T) {
	orig := &ContactResult{
		Success:  true,
		Contacts: []CandidateContact{{Address: "info@acme.com"}},
		Count:    1,
		Sources:  []string{SourceRoleInbox},
	}

	clone := orig.Clone()
	clone.Contacts[0].Address = "changed@acme.com"
	clone.Sources[0] = "other"
	clone.Cached = true

	assert.Equal(t, "info@acme.com", orig.Contacts[0].Address)
	assert.Equal(t, SourceRoleInbox, orig.Sources[0])
	assert.False(t, orig.Cached)

	empty := (&ContactResult{}).Clone()
	assert.NotNil(t, empty.Contacts)
	assert.Empty(t, empty.Contacts)

	var nilResult *ContactResult
	assert.Nil(t, nilResult.Clone())
}
