package comment

import (
	"strings"
	"testing"

	"github.com/inkpress/core/internal/pkg/coreerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateText(t *testing.T) {
	got, err := validateText("  nice post  ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", got)

	_, err = validateText("   ")
	assert.True(t, coreerrors.IsValidation(err))

	_, err = validateText(strings.Repeat("a", maxCommentLength+1))
	assert.True(t, coreerrors.IsValidation(err))

	got, err = validateText(strings.Repeat("a", maxCommentLength))
	require.NoError(t, err)
	assert.Len(t, got, maxCommentLength)
}
