package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "guardpost/pkg/domain-errors"
)

func TestParseApplicantID(t *testing.T) {
	t.Run("round-trips a valid id", func(t *testing.T) {
		id := NewApplicantID()
		parsed, err := ParseApplicantID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseApplicantID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects malformed uuid", func(t *testing.T) {
		_, err := ParseApplicantID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects the nil uuid", func(t *testing.T) {
		_, err := ParseApplicantID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestIDTypesAreDistinct(t *testing.T) {
	assert.True(t, ApplicantID{}.IsNil())
	assert.True(t, AccountID{}.IsNil())
	assert.True(t, AuditEntryID{}.IsNil())

	assert.False(t, NewApplicantID().IsNil())
	assert.False(t, NewAccountID().IsNil())
	assert.False(t, NewAuditEntryID().IsNil())
}

func TestParseAccountAndAuditEntryIDs(t *testing.T) {
	accountID := NewAccountID()
	parsedAccount, err := ParseAccountID(accountID.String())
	require.NoError(t, err)
	assert.Equal(t, accountID, parsedAccount)

	entryID := NewAuditEntryID()
	parsedEntry, err := ParseAuditEntryID(entryID.String())
	require.NoError(t, err)
	assert.Equal(t, entryID, parsedEntry)
}
