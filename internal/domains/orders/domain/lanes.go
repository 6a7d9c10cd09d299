package domain

// Lane is the column of the panel holding orders in one status.
type Lane struct {
	Status Status
	Orders []Order
}

// GroupByLane splits orders into the displayed lanes, keeping the input order
// inside each lane. Orders in a status without a lane are dropped.
func GroupByLane(orders []Order) []Lane {
	lanes := make([]Lane, len(Lanes))
	index := make(map[Status]int, len(Lanes))
	for i, status := range Lanes {
		lanes[i] = Lane{Status: status, Orders: []Order{}}
		index[status] = i
	}
	for _, order := range orders {
		if i, ok := index[order.Status]; ok {
			lanes[i].Orders = append(lanes[i].Orders, order)
		}
	}
	return lanes
}
