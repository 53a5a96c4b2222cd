package priorityqueue

import (
	"container/heap"
	"testing"
	"time"
)

var base = time.Unix(0, 0)

func push(pq *PriorityQueue, key uint64, offset time.Duration, seq uint64) {
	heap.Push(pq, &Item{Key: key, Deadline: base.Add(offset), Seq: seq})
}

func TestPopOrdering(t *testing.T) {
	pq := &PriorityQueue{}
	push(pq, 3, 3*time.Second, 0)
	push(pq, 1, 1*time.Second, 1)
	push(pq, 2, 2*time.Second, 2)

	for _, want := range []uint64{1, 2, 3} {
		got := heap.Pop(pq).(*Item)
		if got.Key != want {
			t.Errorf("expected key %d, got %d", want, got.Key)
		}
	}
}

func TestEqualDeadlinesPopInInsertionOrder(t *testing.T) {
	pq := &PriorityQueue{}
	for i := uint64(0); i < 10; i++ {
		push(pq, i, time.Second, i)
	}
	for want := uint64(0); want < 10; want++ {
		got := heap.Pop(pq).(*Item)
		if got.Key != want {
			t.Fatalf("expected key %d, got %d", want, got.Key)
		}
	}
}

func TestPeek(t *testing.T) {
	pq := &PriorityQueue{}
	if pq.Peek() != nil {
		t.Error("expected nil peek on empty queue")
	}
	push(pq, 2, 2*time.Second, 0)
	push(pq, 1, 1*time.Second, 1)
	if pq.Peek().Key != 1 {
		t.Errorf("expected earliest item on top, got %d", pq.Peek().Key)
	}
	if pq.Len() != 2 {
		t.Errorf("peek should not remove, len is %d", pq.Len())
	}
}

func TestRemoveWhere(t *testing.T) {
	pq := &PriorityQueue{}
	push(pq, 1, 1*time.Second, 0)
	push(pq, 2, 2*time.Second, 1)
	push(pq, 1, 3*time.Second, 2)
	push(pq, 3, 4*time.Second, 3)

	removed := pq.RemoveWhere(func(it *Item) bool { return it.Key == 1 })
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if pq.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", pq.Len())
	}
	for i, item := range *pq {
		if item.Index != i {
			t.Errorf("item %d has stale index %d", i, item.Index)
		}
	}
	if got := heap.Pop(pq).(*Item).Key; got != 2 {
		t.Errorf("expected key 2, got %d", got)
	}
	if got := heap.Pop(pq).(*Item).Key; got != 3 {
		t.Errorf("expected key 3, got %d", got)
	}

	if pq.RemoveWhere(func(*Item) bool { return true }) != 0 {
		t.Error("removing from an empty queue should remove nothing")
	}
}
