package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

func TestSecurityLevelCatalog(t *testing.T) {
	assert.Equal(t, []id.SecurityLevel{
		id.LevelPublic,
		id.LevelConfidential,
		id.LevelSecret,
		id.LevelTopSecret,
	}, id.Levels())

	assert.Equal(t, "Public", id.LevelPublic.String())
	assert.Equal(t, "Confidential", id.LevelConfidential.String())
	assert.Equal(t, "Secret", id.LevelSecret.String())
	assert.Equal(t, "Top Secret", id.LevelTopSecret.String())
	assert.Equal(t, "Unknown", id.SecurityLevel(9).String())
}

func TestParseSecurityLevel(t *testing.T) {
	for _, level := range id.Levels() {
		parsed, err := id.ParseSecurityLevel(level.Int())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	for _, out := range []int{-1, 4, 42} {
		_, err := id.ParseSecurityLevel(out)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	}
}

func TestTypedIDParsing(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		userID := id.NewUserID()
		parsed, err := id.ParseUserID(userID.String())
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"not-a-uuid",
			"00000000-0000-0000-0000-000000000000",
		} {
			_, err := id.ParseObjectID(bad)
			require.Error(t, err, "input %q", bad)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})

	t.Run("nil detection", func(t *testing.T) {
		var zero id.UserID
		assert.True(t, zero.IsNil())
		assert.False(t, id.NewUserID().IsNil())
	})
}
