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
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrCycle is the cause of every cycle error returned by New
	ErrCycle = errors.New("cycle detected")
)

// DAG represents a directed acyclic graph.
type DAG struct {
	// Nodes represents map of name to Node in DAG.
	Nodes map[string]*defaultNode
	// allowDanglingEdges skips edges that point to nodes outside the graph
	// instead of failing
	allowDanglingEdges bool
}

// NamedNode is a convenience interface for users, only used when creating a DAG
type NamedNode interface {
	// NodeName uniquely identifies a node
	NodeName() string
	// PrevNodeNames represents the immediately preceding nodes connected to the current node
	PrevNodeNames() []string
}

// Node represents a node in the DAG
type Node interface {
	NamedNode
	PrevNodes() []Node
	NextNodes() []Node
	NextNodeNames() []string
}

type Option func(*DAG)

// WithAllowDanglingEdges ignores prerequisites that are not part of the graph
func WithAllowDanglingEdges(allow bool) Option {
	return func(g *DAG) {
		g.allowDanglingEdges = allow
	}
}

// SimpleNode is a ready-made NamedNode
type SimpleNode struct {
	Name string
	Prev []string
}

func (n SimpleNode) NodeName() string        { return n.Name }
func (n SimpleNode) PrevNodeNames() []string { return n.Prev }

// New returns a DAG, or an error wrapping ErrCycle when the edges form a cycle
func New(nodes []NamedNode, ops ...Option) (*DAG, error) {
	g := DAG{
		Nodes: map[string]*defaultNode{},
	}

	for _, op := range ops {
		op(&g)
	}

	for _, n := range nodes {
		if err := g.addNode(n); err != nil {
			return nil, errors.Wrapf(err, "failed to add node %q to DAG", n.NodeName())
		}
	}

	// 按名字排序后建边，保证错误信息稳定
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n := g.Nodes[name]
		for _, prevNodeName := range n.PrevNodeNames() {
			if err := g.addLink(n, prevNodeName); err != nil {
				return nil, err
			}
		}
	}
	return &g, nil
}

// Validate reports whether the nodes form a DAG
func Validate(nodes []NamedNode, ops ...Option) error {
	_, err := New(nodes, ops...)
	return err
}

func (g *DAG) addNode(n NamedNode) error {
	if _, ok := g.Nodes[n.NodeName()]; ok {
		return errors.Errorf("duplicate node: %s", n.NodeName())
	}
	g.Nodes[n.NodeName()] = &defaultNode{name: n.NodeName(), prevNodeNames: n.PrevNodeNames()}
	return nil
}

func (g *DAG) addLink(n *defaultNode, prevNodeName string) error {
	prevNode, ok := g.Nodes[prevNodeName]
	if !ok {
		if g.allowDanglingEdges {
			return nil
		}
		return errors.Errorf("node %q depends on an nonexistent node %q", n.NodeName(), prevNodeName)
	}
	for _, existing := range n.prevNodes {
		if existing == prevNode {
			return nil
		}
	}
	if err := validateNodes(prevNode, n); err != nil {
		return err
	}
	n.prevNodes = append(n.prevNodes, prevNode)
	prevNode.nextNodes = append(prevNode.nextNodes, n)
	return nil
}

func validateNodes(from, to *defaultNode) error {
	if from.name == to.name {
		return errors.Wrapf(ErrCycle, "node %q depends on itself", from.name)
	}

	// 沿 from 的前驱回溯，若能到达 to 则新边成环
	path := []string{to.name, from.name}
	if found, cyclePath := visit(to, from.prevNodes, path, map[string]struct{}{}); found {
		return errors.Wrap(ErrCycle, getVisitedPath(cyclePath))
	}
	return nil
}

func visit(startNode *defaultNode, prev []*defaultNode, visitedPath []string, seen map[string]struct{}) (bool, []string) {
	for _, n := range prev {
		if _, ok := seen[n.name]; ok {
			continue
		}
		seen[n.name] = struct{}{}
		path := append(append([]string{}, visitedPath...), n.name)
		if n.name == startNode.name {
			return true, path
		}
		if found, p := visit(startNode, n.prevNodes, path, seen); found {
			return true, p
		}
	}
	return false, nil
}

func getVisitedPath(path []string) string {
	// reverse the path since we traversed the DAG using prev pointers.
	for i := len(path)/2 - 1; i >= 0; i-- {
		opp := len(path) - 1 - i
		path[i], path[opp] = path[opp], path[i]
	}
	return strings.Join(path, " -> ")
}

type defaultNode struct {
	name          string
	prevNodeNames []string

	prevNodes []*defaultNode
	nextNodes []*defaultNode
}

func (n *defaultNode) NodeName() string {
	return n.name
}

func (n *defaultNode) PrevNodeNames() []string {
	return n.prevNodeNames
}

func (n *defaultNode) PrevNodes() []Node {
	r := make([]Node, 0, len(n.prevNodes))
	for _, prev := range n.prevNodes {
		r = append(r, prev)
	}
	return r
}

func (n *defaultNode) NextNodeNames() []string {
	r := make([]string, 0, len(n.nextNodes))
	for _, next := range n.nextNodes {
		r = append(r, next.name)
	}
	return r
}

func (n *defaultNode) NextNodes() []Node {
	r := make([]Node, 0, len(n.nextNodes))
	for _, next := range n.nextNodes {
		r = append(r, next)
	}
	return r
}
