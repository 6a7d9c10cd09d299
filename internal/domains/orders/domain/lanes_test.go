package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupByLane_PreservesServerOrder(t *testing.T) {
	orders := []Order{
		{ID: "3", Status: StatusReady},
		{ID: "1", Status: StatusPending},
		{ID: "4", Status: StatusPending},
		{ID: "9", Status: StatusDelivered},
	}

	lanes := GroupByLane(orders)
	require.Len(t, lanes, 3)
	require.Equal(t, StatusPending, lanes[0].Status)
	require.Equal(t, []Order{orders[1], orders[2]}, lanes[0].Orders)
	require.Empty(t, lanes[1].Orders)
	require.Equal(t, []Order{orders[0]}, lanes[2].Orders)
}
