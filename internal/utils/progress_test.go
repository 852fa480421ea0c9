package utils

import (
	"fmt"
	"sync"
	"testing"
)

func TestProgressDisabled(t *testing.T) {
	// A disabled bar swallows every call without branching at the caller.
	p := NewProgress(10, false)
	p.Update(1, "first")
	p.Update(2, "second")
	p.Finish()
}

func TestProgressDescriptionConcurrent(t *testing.T) {
	// The decorator reads the description on the render goroutine while
	// Update writes it, so the accessors must hold up under concurrency.
	p := &Progress{}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				p.setDescription(fmt.Sprintf("file-%d-%d", worker, j))
				_ = p.currentDescription()
			}
		}(i)
	}
	wg.Wait()

	if p.currentDescription() == "" {
		t.Error("description was never recorded")
	}
}
