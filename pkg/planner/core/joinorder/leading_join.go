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

// Package joinorder resolves a leading hint against the join constraints
// discovered during join graph construction, turning the hinted order into
// a concrete join tree or deciding the hint cannot be honored.
package joinorder

import (
	"fmt"

	"github.com/GoGoWen/incubator-doris/pkg/expression"
	"github.com/GoGoWen/incubator-doris/pkg/planner/core/base"
	"github.com/GoGoWen/incubator-doris/pkg/util/hint"
	"github.com/GoGoWen/incubator-doris/pkg/util/longbitmap"
)

// matchJoinConstraint looks for the unique constraint applicable to a join
// of leftBitmap and rightBitmap. joinBitmap is their union. It returns the
// matched constraint (nil when the pair is a plain inner or cross join),
// whether the sides have to be treated as swapped, and whether the join is
// legal at all. Two independently matching constraints, or a violated outer
// join requirement, make the join illegal.
func matchJoinConstraint(constraints []*JoinConstraint, joinBitmap, leftBitmap, rightBitmap uint64) (
	matched *JoinConstraint, reversed bool, legal bool) {
	mustBeLeftJoin := false

	for _, constraint := range constraints {
		if constraint.JoinType.IsFullOuterJoin() {
			// Full outer constraints only apply by exact equality of both
			// hands, in either orientation.
			if leftBitmap == constraint.LeftHand && rightBitmap == constraint.RightHand {
				if matched != nil {
					return nil, false, false
				}
				matched = constraint
				reversed = false
				break
			}
			if rightBitmap == constraint.LeftHand && leftBitmap == constraint.RightHand {
				if matched != nil {
					return nil, false, false
				}
				matched = constraint
				reversed = true
				break
			}
			continue
		}

		// The constraint has nothing to do with this join.
		if !longbitmap.IsOverlap(constraint.MinRightHand, joinBitmap) {
			continue
		}

		// The join does not cover enough of the minimal right hand yet.
		if longbitmap.IsSubset(joinBitmap, constraint.MinRightHand) {
			continue
		}

		// Both minimal hands already sit inside one side, so the
		// relationship was satisfied by an earlier, smaller join.
		if longbitmap.IsSubset(constraint.MinLeftHand, leftBitmap) &&
			longbitmap.IsSubset(constraint.MinRightHand, leftBitmap) {
			continue
		}
		if longbitmap.IsSubset(constraint.MinLeftHand, rightBitmap) &&
			longbitmap.IsSubset(constraint.MinRightHand, rightBitmap) {
			continue
		}

		// A semi join right hand buried strictly inside one side cannot be
		// matched here anymore.
		if constraint.JoinType.IsSemiJoin() &&
			longbitmap.IsSubset(constraint.RightHand, rightBitmap) &&
			constraint.RightHand != rightBitmap {
			continue
		}

		if longbitmap.IsSubset(constraint.MinLeftHand, leftBitmap) &&
			longbitmap.IsSubset(constraint.MinRightHand, rightBitmap) {
			if matched != nil {
				return nil, false, false
			}
			matched = constraint
			reversed = false
		} else if longbitmap.IsSubset(constraint.MinLeftHand, rightBitmap) &&
			longbitmap.IsSubset(constraint.MinRightHand, leftBitmap) {
			if matched != nil {
				return nil, false, false
			}
			matched = constraint
			reversed = true
		} else if constraint.JoinType.IsSemiJoin() && constraint.RightHand == rightBitmap {
			if matched != nil {
				return nil, false, false
			}
			matched = constraint
			reversed = false
		} else if constraint.JoinType.IsSemiJoin() && constraint.RightHand == leftBitmap {
			// Reversed semi join: the driver side ended up on the left.
			if matched != nil {
				return nil, false, false
			}
			matched = constraint
			reversed = true
		} else {
			if longbitmap.IsOverlap(leftBitmap, constraint.MinRightHand) &&
				longbitmap.IsOverlap(rightBitmap, constraint.MinRightHand) {
				continue
			}

			// The minimal left hand of a left outer constraint is not in
			// this join yet: the join can only stay legal if it ends up as
			// a strict left join. Anything else is a violation.
			if !constraint.JoinType.IsLeftJoin() ||
				longbitmap.IsOverlap(joinBitmap, constraint.MinLeftHand) {
				return nil, false, false
			}
			mustBeLeftJoin = true
		}
	}

	if mustBeLeftJoin && (matched == nil || !matched.JoinType.IsLeftJoin() || !matched.LhsStrict) {
		return nil, false, false
	}
	// No constraint matched: the pair joins as plain inner or cross.
	if matched == nil {
		return nil, false, true
	}
	matched.SetReversed(reversed)
	return matched, reversed, true
}

// computeJoinType decides the join type for a candidate left/right pair. A
// failed match marks the hint unused; the caller must check the hint status
// before trusting the returned type.
func computeJoinType(h *hint.LeadingHint, constraints []*JoinConstraint,
	leftBitmap, rightBitmap uint64, conditions []expression.Expression) base.JoinType {
	matched, reversed, legal := matchJoinConstraint(
		constraints, longbitmap.Or(leftBitmap, rightBitmap), leftBitmap, rightBitmap)
	if !legal {
		h.SetStatus(hint.StatusUnused)
		h.SetErrorMessage(fmt.Sprintf("no unique join constraint for %s join %s",
			longbitmap.String(leftBitmap), longbitmap.String(rightBitmap)))
	} else if matched == nil {
		if len(conditions) == 0 {
			return base.CrossJoin
		}
		return base.InnerJoin
	} else {
		if reversed {
			return matched.JoinType.Swap()
		}
		return matched.JoinType
	}
	if len(conditions) == 0 {
		return base.CrossJoin
	}
	return base.InnerJoin
}

// splitJoinConditions separates the conditions usable for a hash join build
// from everything else. A condition qualifies when it is an equality over
// two columns coming from the two different sides.
func splitJoinConditions(h *hint.LeadingHint, leftBitmap, rightBitmap uint64,
	conditions []expression.Expression) (hashConds, otherConds []expression.Expression) {
	sideOf := func(col *expression.Column) (uint64, bool) {
		id, ok := h.FindRelationID(col.TblName)
		if !ok {
			return 0, false
		}
		bit := longbitmap.Set(0, id.AsInt())
		if longbitmap.IsOverlap(bit, leftBitmap) {
			return leftBitmap, true
		}
		if longbitmap.IsOverlap(bit, rightBitmap) {
			return rightBitmap, true
		}
		return 0, false
	}
	for _, cond := range conditions {
		eq, ok := cond.(*expression.ScalarFunction)
		if !ok || eq.FuncName != "eq" || len(eq.Args) != 2 {
			otherConds = append(otherConds, cond)
			continue
		}
		lhs, okL := eq.Args[0].(*expression.Column)
		rhs, okR := eq.Args[1].(*expression.Column)
		if !okL || !okR {
			otherConds = append(otherConds, cond)
			continue
		}
		lhsSide, okL := sideOf(lhs)
		rhsSide, okR := sideOf(rhs)
		if okL && okR && lhsSide != rhsSide {
			hashConds = append(hashConds, cond)
			continue
		}
		otherConds = append(otherConds, cond)
	}
	return hashConds, otherConds
}
