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

package dataset

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Dict maps labels to dense indices in insertion order.
type Dict[K constraints.Ordered] struct {
	si map[K]int
	is []K
}

func NewDict[K constraints.Ordered]() *Dict[K] {
	return &Dict[K]{si: map[K]int{}}
}

// NewSortedDict creates a dictionary whose indices follow the ascending
// order of the distinct labels.
func NewSortedDict[K constraints.Ordered](labels []K) *Dict[K] {
	sorted := make([]K, len(labels))
	copy(sorted, labels)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	d := NewDict[K]()
	for _, label := range sorted {
		d.Add(label)
	}
	return d
}

func (d *Dict[K]) Count() int {
	return len(d.is)
}

// Add returns the index of a label, assigning the next one if it is new.
func (d *Dict[K]) Add(s K) int {
	if y, ok := d.si[s]; ok {
		return y
	}
	y := len(d.is)
	d.si[s] = y
	d.is = append(d.is, s)
	return y
}

// Lookup returns the index of a label without inserting it.
func (d *Dict[K]) Lookup(s K) (int, bool) {
	y, ok := d.si[s]
	return y, ok
}

func (d *Dict[K]) String(id int) (s K, ok bool) {
	if id < 0 || id >= len(d.is) {
		return s, false
	}
	return d.is[id], true
}

// Labels returns all labels in index order.
func (d *Dict[K]) Labels() []K {
	return d.is
}
