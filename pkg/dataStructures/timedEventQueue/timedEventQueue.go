package timedEventQueue

import (
	"container/heap"
	"fmt"
	"reflect"
	"time"

	priorityqueue "github.com/nm-morais/go-babel-timer/pkg/dataStructures/priorityQueue"
	"github.com/nm-morais/go-babel-timer/pkg/errors"
	"github.com/sirupsen/logrus"
)

const timedEventQueueCaller = "timedEventQueue"

// Callback is the opaque handle stored in the queue. Two callbacks are the same
// when they compare equal as interface values, so implementations must be
// comparable; pointer receivers are the usual choice.
type Callback interface {
	OnTrigger() error
}

type funcCallback struct {
	name string
	fn   func() error
}

func (c *funcCallback) OnTrigger() error {
	return c.fn()
}

func (c *funcCallback) String() string {
	return c.name
}

// NewCallback wraps fn in a fresh Callback. Every call yields a distinct identity.
func NewCallback(name string, fn func() error) Callback {
	return &funcCallback{name: name, fn: fn}
}

// Name returns a printable identity for cb, used in logs.
func Name(cb Callback) string {
	if s, ok := cb.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", cb)
}

// Comparable reports whether cb can be used as a queue identity. Func, map and
// slice based callbacks cannot be compared with == and are rejected.
func Comparable(cb Callback) bool {
	return cb != nil && reflect.TypeOf(cb).Comparable()
}

type TimerEvent struct {
	ID       uint64
	Due      time.Time
	Callback Callback
}

type TimedEventQueue interface {
	Size() int
	Add(ev TimerEvent)
	PeekMin() (TimerEvent, bool)
	PopMin() (TimerEvent, errors.Error)
	RemoveByCallback(cb Callback) int
	RemoveByID(id uint64) bool
	LogEntries(logger *logrus.Logger, now time.Time)
}

// timedEventQueue is not safe for concurrent use.
type timedEventQueue struct {
	pq  *priorityqueue.PriorityQueue
	seq uint64
}

func NewTimedEventQueue() TimedEventQueue {
	pq := &priorityqueue.PriorityQueue{}
	heap.Init(pq)
	return &timedEventQueue{pq: pq}
}

func (tq *timedEventQueue) Size() int {
	return tq.pq.Len()
}

func (tq *timedEventQueue) Add(ev TimerEvent) {
	heap.Push(tq.pq, &priorityqueue.Item{
		Value:    ev,
		Key:      ev.ID,
		Deadline: ev.Due,
		Seq:      tq.seq,
	})
	tq.seq++
}

func (tq *timedEventQueue) PeekMin() (TimerEvent, bool) {
	item := tq.pq.Peek()
	if item == nil {
		return TimerEvent{}, false
	}
	return item.Value.(TimerEvent), true
}

func (tq *timedEventQueue) PopMin() (TimerEvent, errors.Error) {
	if tq.pq.Len() == 0 {
		return TimerEvent{}, errors.FatalError(errors.EmptyQueueCode, "pop on empty queue", timedEventQueueCaller)
	}
	item := heap.Pop(tq.pq).(*priorityqueue.Item)
	return item.Value.(TimerEvent), nil
}

func (tq *timedEventQueue) RemoveByCallback(cb Callback) int {
	if !Comparable(cb) {
		return 0
	}
	return tq.pq.RemoveWhere(func(item *priorityqueue.Item) bool {
		return item.Value.(TimerEvent).Callback == cb
	})
}

func (tq *timedEventQueue) RemoveByID(id uint64) bool {
	return tq.pq.RemoveWhere(func(item *priorityqueue.Item) bool {
		return item.Key == id
	}) > 0
}

func (tq *timedEventQueue) LogEntries(logger *logrus.Logger, now time.Time) {
	tq.pq.LogEntries(logger, now)
}
