package scheduler

import "sort"

// DistinctOrders returns the sorted set of order values present in lines.
func DistinctOrders(lines []Line) []int {
	seen := make(map[int]bool)
	for _, l := range lines {
		seen[l.Order] = true
	}
	orders := make([]int, 0, len(seen))
	for o := range seen {
		orders = append(orders, o)
	}
	sort.Ints(orders)
	return orders
}

// NormalizeOrders maps the distinct order values onto the dense sequence
// 1..K, preserving grouping: lines that shared an order still do. The
// returned map translates old order values to new ones.
func NormalizeOrders(lines []Line) map[int]int {
	orders := DistinctOrders(lines)
	mapping := make(map[int]int, len(orders))
	for i, o := range orders {
		mapping[o] = i + 1
	}
	return mapping
}

// PreviousOrder returns the largest order strictly below order, and whether
// one exists.
func PreviousOrder(lines []Line, order int) (int, bool) {
	found := false
	best := 0
	for _, l := range lines {
		if l.Order < order && (!found || l.Order > best) {
			best = l.Order
			found = true
		}
	}
	return best, found
}

// NextOrderAfter returns the smallest order strictly above order, and
// whether one exists.
func NextOrderAfter(lines []Line, order int) (int, bool) {
	found := false
	best := 0
	for _, l := range lines {
		if l.Order > order && (!found || l.Order < best) {
			best = l.Order
			found = true
		}
	}
	return best, found
}

// HasParallel reports whether any line other than lineID shares the order.
func HasParallel(lines []Line, lineID string, order int) bool {
	for _, l := range lines {
		if l.ID != lineID && l.Order == order {
			return true
		}
	}
	return false
}

// MaxOrder returns the highest order among lines, or 0 when empty.
func MaxOrder(lines []Line) int {
	max := 0
	for _, l := range lines {
		if l.Order > max {
			max = l.Order
		}
	}
	return max
}
