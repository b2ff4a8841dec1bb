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

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	v, err := ParseFloat[float64]("3.5")
	assert.NoError(t, err)
	assert.Equal(t, 3.5, v)
	f, err := ParseFloat[float32](" 4 ")
	assert.NoError(t, err)
	assert.Equal(t, float32(4), f)
	_, err = ParseFloat[float64]("x")
	assert.Error(t, err)
}

func TestParseInt(t *testing.T) {
	v, err := ParseInt[int]("196")
	assert.NoError(t, err)
	assert.Equal(t, 196, v)
	_, err = ParseInt[int8]("300")
	assert.Error(t, err)
	u, err := ParseUInt[uint8]("255")
	assert.NoError(t, err)
	assert.Equal(t, uint8(255), u)
}
