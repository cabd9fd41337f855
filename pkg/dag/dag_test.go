// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dag

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(pairs ...SimpleNode) []NamedNode {
	out := make([]NamedNode, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p)
	}
	return out
}

func TestNew_Acyclic(t *testing.T) {
	g, err := New(nodes(
		SimpleNode{Name: "a"},
		SimpleNode{Name: "b", Prev: []string{"a"}},
		SimpleNode{Name: "c", Prev: []string{"a", "b"}},
		SimpleNode{Name: "d", Prev: []string{"b", "c"}},
	))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 4)
	assert.ElementsMatch(t, []string{"b", "c"}, g.Nodes["a"].NextNodeNames())
	assert.Len(t, g.Nodes["d"].PrevNodes(), 2)
}

func TestNew_SelfCycle(t *testing.T) {
	err := Validate(nodes(SimpleNode{Name: "a", Prev: []string{"a"}}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycle))
}

func TestNew_Cycle(t *testing.T) {
	err := Validate(nodes(
		SimpleNode{Name: "a", Prev: []string{"c"}},
		SimpleNode{Name: "b", Prev: []string{"a"}},
		SimpleNode{Name: "c", Prev: []string{"b"}},
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycle))
	assert.Contains(t, err.Error(), "->")
}

func TestNew_DanglingEdges(t *testing.T) {
	input := nodes(
		SimpleNode{Name: "a", Prev: []string{"missing"}},
		SimpleNode{Name: "b", Prev: []string{"a"}},
	)

	err := Validate(input)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCycle))

	g, err := New(input, WithAllowDanglingEdges(true))
	require.NoError(t, err)
	assert.Empty(t, g.Nodes["a"].PrevNodes())
	assert.Equal(t, []string{"b"}, g.Nodes["a"].NextNodeNames())
}

func TestNew_DuplicateNode(t *testing.T) {
	err := Validate(nodes(SimpleNode{Name: "a"}, SimpleNode{Name: "a"}))
	assert.Error(t, err)
}

func TestNew_DuplicateEdgeIsCollapsed(t *testing.T) {
	g, err := New(nodes(
		SimpleNode{Name: "a"},
		SimpleNode{Name: "b", Prev: []string{"a", "a"}},
	))
	require.NoError(t, err)
	assert.Len(t, g.Nodes["b"].PrevNodes(), 1)
}
