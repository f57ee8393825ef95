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

package joinorder

import (
	"fmt"

	"github.com/GoGoWen/incubator-doris/pkg/planner/core/base"
	"github.com/GoGoWen/incubator-doris/pkg/util/longbitmap"
)

// JoinConstraint is one join relationship discovered by the join graph
// construction phase. LeftHand and RightHand are the exact relation sets the
// constraint was derived from; MinLeftHand and MinRightHand are the minimal
// sets that must appear on each side for the constraint to apply, which is
// how a constraint generalizes over larger joined groups.
type JoinConstraint struct {
	JoinType base.JoinType

	LeftHand  uint64
	RightHand uint64

	MinLeftHand  uint64
	MinRightHand uint64

	// LhsStrict means the left side must match exactly for the constraint
	// to license a left outer result.
	LhsStrict bool

	// reversed is set during matching when the physically assembled sides
	// are the opposite of the recorded ones.
	reversed bool
}

// NewJoinConstraint builds a constraint whose minimal hands equal its exact
// hands. Callers widen or shrink the minimal hands afterwards when the
// constraint generalizes over larger groups.
func NewJoinConstraint(joinType base.JoinType, leftHand, rightHand uint64, lhsStrict bool) *JoinConstraint {
	return &JoinConstraint{
		JoinType:     joinType,
		LeftHand:     leftHand,
		RightHand:    rightHand,
		MinLeftHand:  leftHand,
		MinRightHand: rightHand,
		LhsStrict:    lhsStrict,
	}
}

// SetReversed marks whether the assembled join order is the opposite of the
// recorded hands.
func (c *JoinConstraint) SetReversed(reversed bool) {
	c.reversed = reversed
}

// Reversed reports whether the matched join order was the opposite of the
// recorded hands.
func (c *JoinConstraint) Reversed() bool {
	return c.reversed
}

func (c *JoinConstraint) String() string {
	return fmt.Sprintf("%s[left=%s right=%s minLeft=%s minRight=%s strict=%v]",
		c.JoinType, longbitmap.String(c.LeftHand), longbitmap.String(c.RightHand),
		longbitmap.String(c.MinLeftHand), longbitmap.String(c.MinRightHand), c.LhsStrict)
}
