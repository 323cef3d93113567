package tomasulo

import "testing"

func TestIFQPushPopOrder(t *testing.T) {
	q := newIFQ(3)
	if !q.IsEmpty() {
		t.Fatal("new queue should be empty")
	}

	q.push(10)
	q.push(20)
	q.push(30)
	if !q.IsFull() {
		t.Fatal("queue should be full after 3 pushes into capacity 3")
	}

	q.push(40) // no-op, queue is full
	if q.peekTail() != 10 {
		t.Errorf("peekTail() = %d, want 10 (push while full is a no-op)", q.peekTail())
	}

	q.popTail()
	if q.peekTail() != 20 {
		t.Errorf("peekTail() = %d, want 20", q.peekTail())
	}
	if q.IsFull() {
		t.Error("queue should no longer be full after a pop")
	}
}

func TestIFQEmptyQueueOperations(t *testing.T) {
	q := newIFQ(2)
	if q.peekTail() != 0 {
		t.Errorf("peekTail() on empty queue = %d, want 0", q.peekTail())
	}
	q.popTail() // no-op, must not panic
	if !q.IsEmpty() {
		t.Error("queue should remain empty")
	}
}
