package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectUsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("bookings").
		Where(squirrel.Eq{"property_id": "p-1"}).
		Where(squirrel.LtOrEq{"start_date": "2024-03-01"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings WHERE property_id = $1 AND start_date <= $2", query)
	assert.Equal(t, []interface{}{"p-1", "2024-03-01"}, args)
}

func TestUpdateUsesDollarPlaceholders(t *testing.T) {
	query, args, err := Update("bookings").
		Set("status", "approved").
		Where(squirrel.Eq{"id": 7}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE bookings SET status = $1 WHERE id = $2", query)
	assert.Len(t, args, 2)
}
