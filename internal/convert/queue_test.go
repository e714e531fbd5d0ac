package convert

import (
	"sync"
	"testing"
)

func TestQueueEmptyIsImmediatelyExhausted(t *testing.T) {
	q := NewQueue(nil)
	if _, ok := q.Next(); ok {
		t.Fatal("empty queue must report exhausted")
	}
	if _, ok := q.Next(); ok {
		t.Fatal("exhausted queue must stay exhausted")
	}
}

func TestQueueSequentialOrder(t *testing.T) {
	tasks := makeTasks(5)
	q := NewQueue(tasks)
	for i := 0; i < 5; i++ {
		task, ok := q.Next()
		if !ok {
			t.Fatalf("queue exhausted early at %d", i)
		}
		if task.Index != i {
			t.Fatalf("expected index %d, got %d", i, task.Index)
		}
	}
	if _, ok := q.Next(); ok {
		t.Fatal("expected exhaustion after all tasks handed out")
	}
}

// TestQueueExactlyOnceUnderContention pulls from many goroutines at once and
// asserts the multiset of returned indices is exactly {0..N-1}: no
// duplicates, no gaps.
func TestQueueExactlyOnceUnderContention(t *testing.T) {
	const n = 500
	const callers = 16

	q := NewQueue(makeTasks(n))

	received := make([][]int, callers)
	var wg sync.WaitGroup
	for c := 0; c < callers; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			for {
				task, ok := q.Next()
				if !ok {
					return
				}
				received[c] = append(received[c], task.Index)
			}
		}(c)
	}
	wg.Wait()

	seen := make(map[int]int, n)
	total := 0
	for _, indices := range received {
		for _, index := range indices {
			seen[index]++
			total++
		}
	}
	if total != n {
		t.Fatalf("expected %d tasks handed out, got %d", n, total)
	}
	for i := 0; i < n; i++ {
		if seen[i] != 1 {
			t.Fatalf("index %d handed out %d times", i, seen[i])
		}
	}
}

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{Index: i, SourcePath: "in.jpg", FinalPath: "out.heic"}
	}
	return tasks
}
