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

package base

// JoinType is the kind of a logical join, as discovered by the join graph
// construction phase or synthesized by hint resolution.
type JoinType int

const (
	// InnerJoin means inner join.
	InnerJoin JoinType = iota
	// CrossJoin means cartesian product without any join condition.
	CrossJoin
	// LeftOuterJoin means left outer join.
	LeftOuterJoin
	// RightOuterJoin means right outer join.
	RightOuterJoin
	// FullOuterJoin means full outer join.
	FullOuterJoin
	// LeftSemiJoin means left semi join.
	LeftSemiJoin
	// RightSemiJoin means right semi join.
	RightSemiJoin
	// LeftAntiJoin means left anti semi join.
	LeftAntiJoin
	// RightAntiJoin means right anti semi join.
	RightAntiJoin
)

// Swap returns the join type after the two join sides exchange positions.
// Semi and anti joins keep their kind but flip the driver side.
func (tp JoinType) Swap() JoinType {
	switch tp {
	case LeftOuterJoin:
		return RightOuterJoin
	case RightOuterJoin:
		return LeftOuterJoin
	case LeftSemiJoin:
		return RightSemiJoin
	case RightSemiJoin:
		return LeftSemiJoin
	case LeftAntiJoin:
		return RightAntiJoin
	case RightAntiJoin:
		return LeftAntiJoin
	default:
		return tp
	}
}

// IsInnerJoin reports whether tp is an inner join.
func (tp JoinType) IsInnerJoin() bool {
	return tp == InnerJoin
}

// IsCrossJoin reports whether tp is a cross join.
func (tp JoinType) IsCrossJoin() bool {
	return tp == CrossJoin
}

// IsLeftJoin reports whether tp is a left outer join.
func (tp JoinType) IsLeftJoin() bool {
	return tp == LeftOuterJoin
}

// IsFullOuterJoin reports whether tp is a full outer join.
func (tp JoinType) IsFullOuterJoin() bool {
	return tp == FullOuterJoin
}

// IsOneSideOuterJoin reports whether tp is a left or right outer join.
func (tp JoinType) IsOneSideOuterJoin() bool {
	return tp == LeftOuterJoin || tp == RightOuterJoin
}

// IsSemiJoin reports whether tp is a semi or anti semi join.
func (tp JoinType) IsSemiJoin() bool {
	switch tp {
	case LeftSemiJoin, RightSemiJoin, LeftAntiJoin, RightAntiJoin:
		return true
	default:
		return false
	}
}

// IsAntiJoin reports whether tp is an anti semi join.
func (tp JoinType) IsAntiJoin() bool {
	return tp == LeftAntiJoin || tp == RightAntiJoin
}

func (tp JoinType) String() string {
	switch tp {
	case InnerJoin:
		return "inner join"
	case CrossJoin:
		return "cross join"
	case LeftOuterJoin:
		return "left outer join"
	case RightOuterJoin:
		return "right outer join"
	case FullOuterJoin:
		return "full outer join"
	case LeftSemiJoin:
		return "left semi join"
	case RightSemiJoin:
		return "right semi join"
	case LeftAntiJoin:
		return "left anti semi join"
	case RightAntiJoin:
		return "right anti semi join"
	}
	return "unsupported join type"
}

// DistributeType is the physical data movement strategy requested for one
// join by a distribute hint.
type DistributeType int

const (
	// DistributeTypeNone means no distribute hint is attached.
	DistributeTypeNone DistributeType = iota
	// BroadcastRight means the right (build) side is broadcast.
	BroadcastRight
	// ShuffleRight means both sides are shuffled by the join key.
	ShuffleRight
)

func (tp DistributeType) String() string {
	switch tp {
	case BroadcastRight:
		return "broadcast"
	case ShuffleRight:
		return "shuffle"
	}
	return "none"
}
