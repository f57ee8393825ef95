// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package longbitmap provides fixed-width relation bitsets for join order
// resolution. Bit i is set iff relation id i is covered. One query may
// reference at most MaxRelations relations in a single hint, which is an
// accepted scaling limit of the planner.
package longbitmap

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxRelations is the widest relation id a bitmap can hold.
const MaxRelations = 64

// Set returns bitmap with the bit for the given relation id set.
func Set(bitmap uint64, id int) uint64 {
	return bitmap | (1 << uint(id))
}

// Unset returns bitmap with the bit for the given relation id cleared.
func Unset(bitmap uint64, id int) uint64 {
	return bitmap &^ (1 << uint(id))
}

// Has reports whether the bit for the given relation id is set.
func Has(bitmap uint64, id int) bool {
	return bitmap&(1<<uint(id)) != 0
}

// Or returns the union of two bitmaps.
func Or(a, b uint64) uint64 {
	return a | b
}

// And returns the intersection of two bitmaps.
func And(a, b uint64) uint64 {
	return a & b
}

// IsSubset reports whether every relation in sub is also in super.
func IsSubset(sub, super uint64) bool {
	return sub&super == sub
}

// IsOverlap reports whether the two bitmaps share at least one relation.
func IsOverlap(a, b uint64) bool {
	return a&b != 0
}

// Count returns the number of relations in the bitmap.
func Count(bitmap uint64) int {
	return bits.OnesCount64(bitmap)
}

// New builds a bitmap covering the given relation ids.
func New(ids ...int) uint64 {
	var bitmap uint64
	for _, id := range ids {
		bitmap = Set(bitmap, id)
	}
	return bitmap
}

// String formats the bitmap as a sorted id list, e.g. "{0,2,5}".
// It is only used in diagnostics and log fields.
func String(bitmap uint64) string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for id := 0; bitmap != 0; id++ {
		if bitmap&1 != 0 {
			if !first {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(id))
			first = false
		}
		bitmap >>= 1
	}
	sb.WriteByte('}')
	return sb.String()
}
