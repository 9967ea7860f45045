package goroutineid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentIsStableWithinGoroutine(t *testing.T) {
	first := Current()
	second := Current()
	assert.Equal(t, first, second)
	assert.NotZero(t, first)
}

func TestCurrentDiffersAcrossGoroutines(t *testing.T) {
	ids := make(chan int64, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			ids <- Current()
		}()
	}
	wg.Wait()
	close(ids)

	a := <-ids
	b := <-ids
	assert.NotEqual(t, a, b)
}
