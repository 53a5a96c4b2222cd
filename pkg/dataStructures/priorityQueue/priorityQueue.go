package priorityqueue

import (
	"container/heap"
	"time"

	"github.com/sirupsen/logrus"
)

type Item struct {
	Value    interface{} // The value of the item; arbitrary.
	Key      uint64
	Deadline time.Time // The priority of the item in the queue, earliest first.
	Seq      uint64    // Insertion order, breaks ties between equal deadlines.
	Index    int       // The index of the item in the heap.
}

// A PriorityQueue implements heap.Interface and holds Items.
type PriorityQueue []*Item

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].Deadline.Equal(pq[j].Deadline) {
		return pq[i].Seq < pq[j].Seq
	}
	return pq[i].Deadline.Before(pq[j].Deadline)
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*Item)
	item.Index = n
	*pq = append(*pq, item)
}

// Peek returns the root of the heap, or nil when empty.
func (pq PriorityQueue) Peek() *Item {
	if len(pq) == 0 {
		return nil
	}
	return pq[0]
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.Index = -1 // for safety
	*pq = old[0 : n-1]
	return item
}

// RemoveWhere drops every item matching the predicate and restores the heap.
// Returns the number of items removed.
func (pq *PriorityQueue) RemoveWhere(match func(*Item) bool) int {
	old := *pq
	kept := old[:0]
	removed := 0
	for _, item := range old {
		if match(item) {
			item.Index = -1
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return 0
	}
	for i := len(kept); i < len(old); i++ {
		old[i] = nil
	}
	for i, item := range kept {
		item.Index = i
	}
	*pq = kept
	heap.Init(pq)
	return removed
}

func (pq PriorityQueue) LogEntries(logger *logrus.Logger, now time.Time) {
	for _, item := range pq {
		logger.Debugf(
			"Item %d, key: %d, deadline: %s, time until: %s",
			item.Index,
			item.Key,
			item.Deadline,
			item.Deadline.Sub(now),
		)
	}
}
