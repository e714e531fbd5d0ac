package convert

import "sync/atomic"

// Queue hands out tasks from an immutable list with an exactly-once
// guarantee. Next never blocks; the only shared state is the cursor, which is
// advanced with a single atomic add, so no two callers can observe the same
// index.
type Queue struct {
	tasks  []Task
	cursor atomic.Uint64
}

// NewQueue wraps the task list. The slice is not copied; callers must not
// mutate it after construction.
func NewQueue(tasks []Task) *Queue {
	return &Queue{tasks: tasks}
}

// Next returns the next unassigned task, or ok=false once the list is
// exhausted. Every subsequent call on an exhausted queue also returns false.
func (q *Queue) Next() (Task, bool) {
	index := q.cursor.Add(1) - 1
	if index >= uint64(len(q.tasks)) {
		return Task{}, false
	}
	return q.tasks[index], true
}

// Len returns the total number of tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}
