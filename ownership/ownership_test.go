package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/lifeos-go/apperror"
)

func TestAssert(t *testing.T) {
	assert.NoError(t, Assert("habit", 7, 7))

	err := Assert("habit", 7, 8)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	appErr, ok := apperror.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, "you do not have access to this habit", appErr.Message)
}
