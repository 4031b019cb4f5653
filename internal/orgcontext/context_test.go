package orgcontext

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestOrgIDFromContext(t *testing.T) {
	_, ok := OrgIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := OrgIDFromContext(WithOrgID(context.Background(), snowflake.ID(42)))
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(42), id)

	id, ok = OrgIDFromContext(context.WithValue(context.Background(), OrgContextKey{}, "77"))
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(77), id)

	_, ok = OrgIDFromContext(WithOrgID(context.Background(), 0))
	assert.False(t, ok)
}
