package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "blpgate/pkg/domain"
)

// The level domain is small enough to check the Bell-LaPadula properties
// exhaustively rather than by sampling.
func TestReadWriteProperties_Exhaustive(t *testing.T) {
	for _, subject := range id.Levels() {
		for _, object := range id.Levels() {
			assert.Equal(t, subject >= object, CheckReadAccess(subject, object),
				"read subject=%s object=%s", subject, object)
			assert.Equal(t, subject <= object, CheckWriteAccess(subject, object),
				"write subject=%s object=%s", subject, object)
		}
	}
}

func TestChecksDenyOutsideCatalog(t *testing.T) {
	invalid := []id.SecurityLevel{-1, 4, 99}
	for _, bad := range invalid {
		for _, good := range id.Levels() {
			assert.False(t, CheckReadAccess(bad, good))
			assert.False(t, CheckReadAccess(good, bad))
			assert.False(t, CheckWriteAccess(bad, good))
			assert.False(t, CheckWriteAccess(good, bad))
		}
		assert.False(t, CheckReadAccess(bad, bad))
		assert.False(t, CheckWriteAccess(bad, bad))
	}
}

func TestCanViewExistenceMatchesReadAccess(t *testing.T) {
	levels := append(id.Levels(), -1, 4)
	for _, subject := range levels {
		for _, object := range levels {
			assert.Equal(t, CheckReadAccess(subject, object), CanViewExistence(subject, object),
				"subject=%d object=%d", subject, object)
		}
	}
}

func TestCheckDeleteAccess(t *testing.T) {
	t.Run("top secret super admin deletes anything", func(t *testing.T) {
		for _, object := range id.Levels() {
			assert.True(t, CheckDeleteAccess(id.LevelTopSecret, object, false, true))
		}
	})

	t.Run("super admin below top secret is not enough", func(t *testing.T) {
		assert.False(t, CheckDeleteAccess(id.LevelSecret, id.LevelSecret, false, true))
	})

	t.Run("owner must match object level", func(t *testing.T) {
		assert.True(t, CheckDeleteAccess(id.LevelSecret, id.LevelSecret, true, false))
		// Owner whose clearance moved after creation is denied, in either
		// direction. Intended policy.
		assert.False(t, CheckDeleteAccess(id.LevelTopSecret, id.LevelSecret, true, false))
		assert.False(t, CheckDeleteAccess(id.LevelConfidential, id.LevelSecret, true, false))
	})

	t.Run("non-owner non-admin always denied", func(t *testing.T) {
		for _, subject := range id.Levels() {
			for _, object := range id.Levels() {
				assert.False(t, CheckDeleteAccess(subject, object, false, false))
			}
		}
	})
}

func TestValidateLevel(t *testing.T) {
	for _, l := range id.Levels() {
		assert.True(t, ValidateLevel(l))
	}
	assert.False(t, ValidateLevel(-1))
	assert.False(t, ValidateLevel(4))
}

func TestDescribeDecision(t *testing.T) {
	t.Run("read denial names the property", func(t *testing.T) {
		got := DescribeDecision(id.LevelConfidential, id.LevelSecret, ActionRead)
		assert.Equal(t, "READ denied: Confidential cannot read Secret (No Read Up)", got)
	})

	t.Run("read grant names both levels", func(t *testing.T) {
		got := DescribeDecision(id.LevelSecret, id.LevelPublic, ActionRead)
		assert.Equal(t, "READ granted: Secret can read Public", got)
	})

	t.Run("write denial names the property", func(t *testing.T) {
		got := DescribeDecision(id.LevelTopSecret, id.LevelPublic, ActionWrite)
		assert.Equal(t, "WRITE denied: Top Secret cannot write to Public (No Write Down)", got)
	})

	t.Run("write grant", func(t *testing.T) {
		got := DescribeDecision(id.LevelPublic, id.LevelSecret, ActionWrite)
		assert.Equal(t, "WRITE granted: Public can write to Secret", got)
	})

	t.Run("unknown action", func(t *testing.T) {
		assert.Equal(t, "Unknown action", DescribeDecision(id.LevelPublic, id.LevelPublic, ActionDelete))
	})
}
