/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package metric models the hierarchical context tree that a structured log
// entry may carry: a nested composition of scalar metrics, heterogeneous
// metric sets, and homogeneous metric lists of sets. Node names and units
// are plain strings rather than compile-time constants, but the tree shape
// mirrors the source implementation's compile-time template hierarchy.
//
// The tree has no knowledge of how it will be rendered. Walk performs a
// depth-first traversal and drives a Visitor's callbacks; formatters are
// one kind of Visitor consumer but never touch the tree directly.
package metric

// Kind classifies a Metric's value for rendering purposes: numeric values
// are emitted bare, string values are quoted.
type Kind uint8

const (
	KindNumeric Kind = iota
	KindString
)

// Node is implemented by Metric, Set, and List.
type Node interface {
	NodeName() string
}

// Metric is a leaf node.
type Metric struct {
	Name  string
	Units string
	Value any
	Kind  Kind
}

func (m *Metric) NodeName() string { return m.Name }

// Set is a named, heterogeneous, ordered composition of child nodes.
type Set struct {
	Name     string
	Children []Node
}

func (s *Set) NodeName() string { return s.Name }

// Add appends a child node to the set, preserving declaration order.
func (s *Set) Add(n Node) *Set {
	s.Children = append(s.Children, n)
	return s
}

// NewSet constructs an empty, named Set.
func NewSet(name string) *Set { return &Set{Name: name} }

// List is a named, homogeneous sequence of metric sets. Its length is
// dynamic.
type List struct {
	Name     string
	Elements []*Set
}

func (l *List) NodeName() string { return l.Name }

// EmplaceBack appends a new element set to the list and returns it.
func (l *List) EmplaceBack(elementName string) *Set {
	s := NewSet(elementName)
	l.Elements = append(l.Elements, s)
	return s
}

// NewList constructs an empty, named List.
func NewList(name string) *List { return &List{Name: name} }

// Context is the root of a structured log entry: a named top-level Set
// along with the optional printf-style prelude rendered before (inline
// mode) or independently of (block mode) the tree itself.
type Context struct {
	Name     string
	Root     *Set
	Template string // empty means no prelude message
	Args     []any
}

// NewContext constructs an empty, named Context.
func NewContext(name string) *Context {
	return &Context{Name: name, Root: NewSet(name)}
}

// HasTemplate reports whether the context carries a prelude format
// template, which selects inline vs. block rendering in the text formatter.
func (c *Context) HasTemplate() bool { return c.Template != "" }
