// Copyright 2026 movierec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package heap

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

type Elem[E any, W constraints.Ordered] struct {
	Value  E
	Weight W
}

type entry[E any, W constraints.Ordered] struct {
	Elem[E, W]
	seq int
}

// _heap is a min-heap on weight. Among equal weights the latest pushed
// element is the minimum, so it is evicted first.
type _heap[E any, W constraints.Ordered] struct {
	elems []entry[E, W]
}

func (h *_heap[E, W]) Len() int {
	return len(h.elems)
}

func (h *_heap[E, W]) Less(i, j int) bool {
	if h.elems[i].Weight != h.elems[j].Weight {
		return h.elems[i].Weight < h.elems[j].Weight
	}
	return h.elems[i].seq > h.elems[j].seq
}

func (h *_heap[E, W]) Swap(i, j int) {
	h.elems[i], h.elems[j] = h.elems[j], h.elems[i]
}

func (h *_heap[E, W]) Push(x interface{}) {
	h.elems = append(h.elems, x.(entry[E, W]))
}

func (h *_heap[E, W]) Pop() interface{} {
	old := h.elems
	item := old[len(old)-1]
	h.elems = old[0 : len(old)-1]
	return item
}

// TopKFilter filters out top k items with maximum weights. Ties are broken
// in favor of the element pushed first, so results are reproducible.
type TopKFilter[E any, W constraints.Ordered] struct {
	_heap[E, W]
	k   int
	seq int
}

// NewTopKFilter creates a top k filter. A filter with k <= 0 keeps nothing.
func NewTopKFilter[E any, W constraints.Ordered](k int) *TopKFilter[E, W] {
	return &TopKFilter[E, W]{k: k}
}

// Push pushes the element x onto the heap.
// The complexity is O(log k).
func (filter *TopKFilter[E, W]) Push(item E, weight W) {
	if filter.k <= 0 {
		return
	}
	heap.Push(&filter._heap, entry[E, W]{Elem: Elem[E, W]{Value: item, Weight: weight}, seq: filter.seq})
	filter.seq++
	if filter.Len() > filter.k {
		heap.Pop(&filter._heap)
	}
}

// PopAll pops all items in the filter with decreasing order.
func (filter *TopKFilter[E, W]) PopAll() []Elem[E, W] {
	elems := make([]Elem[E, W], filter.Len())
	for i := len(elems) - 1; i >= 0; i-- {
		elems[i] = heap.Pop(&filter._heap).(entry[E, W]).Elem
	}
	return elems
}

// PopAllValues pops all values in the filter with decreasing order.
func (filter *TopKFilter[E, W]) PopAllValues() []E {
	elems := filter.PopAll()
	values := make([]E, len(elems))
	for i, elem := range elems {
		values[i] = elem.Value
	}
	return values
}
