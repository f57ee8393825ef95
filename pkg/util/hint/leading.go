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

package hint

import (
	"strings"

	"github.com/GoGoWen/incubator-doris/pkg/expression"
	"github.com/GoGoWen/incubator-doris/pkg/planner/core/base"
	"github.com/GoGoWen/incubator-doris/pkg/util/longbitmap"
)

// Tokens a leading hint is lexed into. Anything else is a relation name.
const (
	TokenGroupOpen  = "{"
	TokenGroupClose = "}"
	TokenShuffle    = "shuffle"
	TokenBroadcast  = "broadcast"
)

// LeadingHintName is the hint name of a leading hint.
const LeadingHintName = "leading"

// PendingFilter is a predicate that has not been attached to the join tree
// yet. It is consumed exactly once, at the smallest node whose relation
// bitmap covers Relations.
type PendingFilter struct {
	Relations uint64
	Conjunct  expression.Expression
}

type relationEntry struct {
	id   base.RelationID
	name string
}

// LeadingHint is a user supplied join order. The token list is parsed into
// an ordered (table, nesting level) sequence plus per-join distribute
// directives; hint resolution later replays that sequence into a join tree.
type LeadingHint struct {
	Hint
	originalString string
	parameters     []string

	tableList []string
	levelList []int

	// distributeHints is keyed by the count of relation names seen before
	// the directive, which ties it to the join combining the next relation
	// with its predecessor.
	distributeHints map[int]*DistributeHint

	// relationIDAndTableName keeps binding order; a table name may be
	// rebound to a new relation id after re-analysis, so both lookup
	// directions can update the list in place.
	relationIDAndTableName []relationEntry
	relationIDToScan       map[base.RelationID]base.LogicalPlan

	filters           []PendingFilter
	conditionJoinType map[expression.Expression]base.JoinType

	innerJoinBitmap uint64
	totalBitmap     uint64
}

// NewLeadingHint parses the lexed token list of a leading hint. Nesting is
// tracked with a running level counter plus a brace stack: entering a group
// raises the level by one, or by two when the group directly follows a
// closing brace, so that sibling groups like "{a b}{c d}" are told apart
// from a continued descent. Brace underflow is a syntax error.
func NewLeadingHint(parameters []string, originalString string) *LeadingHint {
	h := &LeadingHint{
		Hint:              NewHint(LeadingHintName),
		originalString:    originalString,
		parameters:        parameters,
		distributeHints:   make(map[int]*DistributeHint),
		relationIDToScan:  make(map[base.RelationID]base.LogicalPlan),
		conditionJoinType: make(map[expression.Expression]base.JoinType),
	}

	level := 0
	var brace []bool
	lastParameter := ""
	for _, parameter := range parameters {
		switch parameter {
		case TokenGroupOpen:
			if lastParameter == TokenGroupClose {
				level += 2
				brace = append(brace, true)
			} else {
				level++
				brace = append(brace, false)
			}
		case TokenGroupClose:
			if len(brace) == 0 {
				h.SetStatus(StatusSyntaxError)
				h.SetErrorMessage("leading hint braces are unbalanced")
				return h
			}
			adjacent := brace[len(brace)-1]
			brace = brace[:len(brace)-1]
			if adjacent {
				level -= 2
			} else {
				level--
			}
		case TokenShuffle:
			h.distributeHints[len(h.tableList)] = NewDistributeHint(base.ShuffleRight)
		case TokenBroadcast:
			h.distributeHints[len(h.tableList)] = NewDistributeHint(base.BroadcastRight)
		default:
			h.tableList = append(h.tableList, parameter)
			h.levelList = append(h.levelList, level)
		}
		lastParameter = parameter
	}
	if len(brace) != 0 || level != 0 {
		h.SetStatus(StatusSyntaxError)
		h.SetErrorMessage("leading hint braces are unbalanced")
	}
	return h
}

// TableList returns the hinted relation names in order.
func (h *LeadingHint) TableList() []string {
	return h.tableList
}

// LevelList returns the nesting level of each hinted relation.
func (h *LeadingHint) LevelList() []int {
	return h.levelList
}

// DistributeHints returns the parsed distribute directives keyed by the
// relation-name count at which they appeared. The caller owns registering
// them with its statement context.
func (h *LeadingHint) DistributeHints() map[int]*DistributeHint {
	return h.distributeHints
}

// DistributeHintAt returns the directive recorded for the given join index,
// marking it applied, or a fresh no-op directive when none was given.
func (h *LeadingHint) DistributeHintAt(index int) *DistributeHint {
	distributeHint, ok := h.distributeHints[index]
	if !ok {
		return NewDistributeHint(base.DistributeTypeNone)
	}
	distributeHint.SetSuccessInLeading(true)
	return distributeHint
}

// PutRelationIDAndTableName records a binding from relation id to table
// name. An existing id is rebound to the new name.
func (h *LeadingHint) PutRelationIDAndTableName(id base.RelationID, name string) {
	for i := range h.relationIDAndTableName {
		if h.relationIDAndTableName[i].id == id {
			h.relationIDAndTableName[i].name = name
			return
		}
	}
	h.relationIDAndTableName = append(h.relationIDAndTableName, relationEntry{id: id, name: name})
}

// UpdateRelationIDByTableName rebinds an existing table name to a new
// relation id, or records the binding when the name is unknown.
func (h *LeadingHint) UpdateRelationIDByTableName(id base.RelationID, name string) {
	for i := range h.relationIDAndTableName {
		if h.relationIDAndTableName[i].name == name {
			h.relationIDAndTableName[i].id = id
			return
		}
	}
	h.relationIDAndTableName = append(h.relationIDAndTableName, relationEntry{id: id, name: name})
}

// FindRelationID resolves a table name to its relation id. Relation ids are
// unique, table names may be rebound.
func (h *LeadingHint) FindRelationID(name string) (base.RelationID, bool) {
	for _, entry := range h.relationIDAndTableName {
		if entry.name == name {
			return entry.id, true
		}
	}
	return 0, false
}

// PutRelationScan records the bound subplan of a relation.
func (h *LeadingHint) PutRelationScan(id base.RelationID, plan base.LogicalPlan) {
	h.relationIDToScan[id] = plan
}

// LogicalPlanByName resolves a hinted table name to its bound subplan. A
// miss means the hint references a table the query does not have, which is
// terminal for the hint.
func (h *LeadingHint) LogicalPlanByName(name string) base.LogicalPlan {
	id, ok := h.FindRelationID(name)
	if !ok {
		h.SetStatus(StatusSyntaxError)
		h.SetErrorMessage("can not find table: " + name)
		return nil
	}
	plan, ok := h.relationIDToScan[id]
	if !ok {
		h.SetStatus(StatusSyntaxError)
		h.SetErrorMessage("can not find table: " + name)
		return nil
	}
	return plan
}

func (h *LeadingHint) hasSameName() bool {
	seen := make(map[string]struct{}, len(h.tableList))
	for _, table := range h.tableList {
		if _, ok := seen[table]; ok {
			return true
		}
		seen[table] = struct{}{}
	}
	return false
}

// LeadingTableBitmap computes the bitmap of all hinted relations. A
// duplicated or unknown table name fails the hint with a syntax error.
func (h *LeadingHint) LeadingTableBitmap() uint64 {
	var totalBitmap uint64
	if h.hasSameName() {
		h.SetStatus(StatusSyntaxError)
		h.SetErrorMessage("duplicated table")
		return totalBitmap
	}
	for _, table := range h.tableList {
		id, ok := h.FindRelationID(table)
		if !ok {
			h.SetStatus(StatusSyntaxError)
			h.SetErrorMessage("can not find table: " + table)
			return totalBitmap
		}
		totalBitmap = longbitmap.Set(totalBitmap, id.AsInt())
	}
	return totalBitmap
}

// SetTotalBitmap computes and caches the bitmap of all hinted relations.
func (h *LeadingHint) SetTotalBitmap() {
	h.totalBitmap = h.LeadingTableBitmap()
}

// TotalBitmap returns the cached bitmap of all hinted relations.
func (h *LeadingHint) TotalBitmap() uint64 {
	return h.totalBitmap
}

// InnerJoinBitmap returns the relations covered by plain inner joins.
func (h *LeadingHint) InnerJoinBitmap() uint64 {
	return h.innerJoinBitmap
}

// SetInnerJoinBitmap records the relations covered by plain inner joins.
func (h *LeadingHint) SetInnerJoinBitmap(bitmap uint64) {
	h.innerJoinBitmap = bitmap
}

// AddFilter queues a predicate that still needs a home in the join tree.
func (h *LeadingHint) AddFilter(relations uint64, conjunct expression.Expression) {
	h.filters = append(h.filters, PendingFilter{Relations: relations, Conjunct: conjunct})
}

// PendingFilterCount returns the number of predicates not yet attached.
func (h *LeadingHint) PendingFilterCount() int {
	return len(h.filters)
}

// ExtractCoveredFilters removes and returns every pending predicate whose
// required relations are fully covered by the bitmap. It is called once per
// leaf and once per completed join; a removed predicate is never seen again.
func (h *LeadingHint) ExtractCoveredFilters(bitmap uint64) []expression.Expression {
	var conjuncts []expression.Expression
	for i := len(h.filters) - 1; i >= 0; i-- {
		if longbitmap.IsSubset(h.filters[i].Relations, bitmap) {
			conjuncts = append(conjuncts, h.filters[i].Conjunct)
			h.filters = append(h.filters[:i], h.filters[i+1:]...)
		}
	}
	return conjuncts
}

// PutConditionJoinType records the join type the graph construction phase
// discovered for a predicate.
func (h *LeadingHint) PutConditionJoinType(cond expression.Expression, joinType base.JoinType) {
	h.conditionJoinType[cond] = joinType
}

// IsConditionJoinTypeMatched checks that every condition placed on a
// synthesized join came from a join of a compatible type. One-side outer
// joins match each other, as do semi joins and anti joins.
func (h *LeadingHint) IsConditionJoinTypeMatched(conditions []expression.Expression, joinType base.JoinType) bool {
	for _, condition := range conditions {
		original, ok := h.conditionJoinType[condition]
		if !ok {
			continue
		}
		if original == joinType ||
			(original.IsOneSideOuterJoin() && joinType.IsOneSideOuterJoin()) ||
			(original.IsSemiJoin() && joinType.IsSemiJoin() && !original.IsAntiJoin() && !joinType.IsAntiJoin()) ||
			(original.IsAntiJoin() && joinType.IsAntiJoin()) {
			continue
		}
		return false
	}
	return true
}

// Explain restores the hint text. For a failed hint the original string is
// echoed back; for an applied hint only the distribute directives that took
// effect are kept.
func (h *LeadingHint) Explain() string {
	if !h.IsSuccess() {
		return h.originalString
	}
	var out strings.Builder
	tableIndex := 0
	for _, parameter := range h.parameters {
		switch parameter {
		case TokenGroupOpen, TokenGroupClose:
			out.WriteString(parameter + " ")
		case TokenShuffle, TokenBroadcast:
			if distributeHint, ok := h.distributeHints[tableIndex]; ok && distributeHint.IsSuccessInLeading() {
				out.WriteString(parameter + " ")
			}
		default:
			out.WriteString(parameter + " ")
			tableIndex++
		}
	}
	return "leading(" + strings.TrimRight(out.String(), " ") + ")"
}

// CheckAndGenerateLeadingHint picks the single usable leading hint of a join
// group. One group may carry at most one; different leading hints cancel
// each other out and the second return value tells the caller to warn.
func CheckAndGenerateLeadingHint(hints []*LeadingHint) (*LeadingHint, bool) {
	if len(hints) == 0 {
		return nil, false
	}
	leadingHint := hints[0]
	for i := 1; i < len(hints); i++ {
		if hints[i] != hints[i-1] {
			return nil, true
		}
	}
	return leadingHint, false
}
