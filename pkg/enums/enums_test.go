package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanvassStatus(t *testing.T) {
	for _, status := range CanvassStatuses() {
		parsed, err := ParseCanvassStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
		assert.True(t, parsed.IsValid())
	}

	parsed, err := ParseCanvassStatus(" QUOTED ")
	require.NoError(t, err)
	assert.Equal(t, CanvassStatusQuoted, parsed)

	for _, bad := range []string{"", "pending", "DONE", "CLOSED"} {
		_, err := ParseCanvassStatus(bad)
		assert.Error(t, err, "value %q", bad)
	}
}

func TestCanvassStatusesIsACopy(t *testing.T) {
	statuses := CanvassStatuses()
	require.Len(t, statuses, 5)
	statuses[0] = "MUTATED"
	assert.Equal(t, CanvassStatusPending, CanvassStatuses()[0])
}

func TestParseRoleAndProductStatus(t *testing.T) {
	role, err := ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	_, err = ParseRole("owner")
	assert.Error(t, err)

	status, err := ParseProductStatus("ACTIVE")
	require.NoError(t, err)
	assert.True(t, status.IsValid())
	assert.False(t, ProductStatus("ARCHIVED").IsValid())
}

func TestOutboxEventTypes(t *testing.T) {
	evt, err := ParseOutboxEventType("canvass_request_created")
	require.NoError(t, err)
	assert.Equal(t, EventCanvassRequestCreated, evt)
	assert.False(t, OutboxEventType("order_created").IsValid())
	assert.True(t, AggregateCanvassRequest.IsValid())
}
