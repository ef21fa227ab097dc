package worker

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllTasksBeforeStop(t *testing.T) {
	p := NewPool(3, 16)
	var n atomic.Int32
	for i := 0; i < 10; i++ {
		if !p.TrySubmit(func() { n.Add(1) }) {
			t.Fatalf("submit %d rejected", i)
		}
	}
	p.Stop()
	if got := n.Load(); got != 10 {
		t.Fatalf("ran %d tasks, want 10", got)
	}
}

func TestTrySubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1)
	p.Stop()
	if p.TrySubmit(func() {}) {
		t.Fatal("submit accepted after Stop")
	}
	p.Stop()
}

func TestTrySubmitFullQueue(t *testing.T) {
	p := NewPool(1, 1)
	block := make(chan struct{})
	started := make(chan struct{})
	p.TrySubmit(func() { close(started); <-block })
	<-started
	if !p.TrySubmit(func() {}) {
		t.Fatal("queue slot should be free")
	}
	if p.TrySubmit(func() {}) {
		t.Fatal("submit accepted on full queue")
	}
	close(block)
	p.Stop()
}
