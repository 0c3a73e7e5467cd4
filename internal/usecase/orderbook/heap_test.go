package orderbook

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinPriceHeap(t *testing.T) {
	h := &minPriceHeap{}
	heap.Init(h)

	for _, price := range []float64{103.0, 99.0, 101.0, 100.0} {
		heap.Push(h, price)
	}

	assert.Equal(t, 99.0, h.Peek())

	var popped []float64
	for h.Len() > 0 {
		popped = append(popped, heap.Pop(h).(float64))
	}
	assert.Equal(t, []float64{99.0, 100.0, 101.0, 103.0}, popped)
}

func TestMaxPriceHeap(t *testing.T) {
	h := &maxPriceHeap{}
	heap.Init(h)

	for _, price := range []float64{100.0, 103.0, 99.0, 101.0} {
		heap.Push(h, price)
	}

	assert.Equal(t, 103.0, h.Peek())

	var popped []float64
	for h.Len() > 0 {
		popped = append(popped, heap.Pop(h).(float64))
	}
	assert.Equal(t, []float64{103.0, 101.0, 100.0, 99.0}, popped)
}

func TestPriceHeap_PeekEmpty(t *testing.T) {
	assert.Zero(t, (&minPriceHeap{}).Peek())
	assert.Zero(t, (&maxPriceHeap{}).Peek())
}
