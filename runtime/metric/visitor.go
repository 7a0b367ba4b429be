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

package metric

import "bytes"

// Visitor is the seven-callback contract a formatter implements to render a
// Context. The tree itself never calls these directly; Walk is the only
// caller, so the tree stays entirely formatter-agnostic.
type Visitor interface {
	ContextBegin(ctx *Context, buf *bytes.Buffer)
	MetricSetBegin(setName string, size, level int, buf *bytes.Buffer)
	MetricSetEnd(setName string, level int, buf *bytes.Buffer)
	ListBegin(listName string, size, level int, buf *bytes.Buffer)
	ListEnd(listName string, level int, buf *bytes.Buffer)
	Metric(name, valueString, units string, kind Kind, level int, buf *bytes.Buffer)
	ContextEnd(ctx *Context, buf *bytes.Buffer)
}

// Walk performs the depth-first traversal described in the context model:
// ContextBegin, then each top-level child of ctx.Root at level 1, then
// ContextEnd.
func Walk(ctx *Context, v Visitor, buf *bytes.Buffer) {
	v.ContextBegin(ctx, buf)
	walkChildren(ctx.Root.Children, v, 1, buf)
	v.ContextEnd(ctx, buf)
}

func walkChildren(children []Node, v Visitor, level int, buf *bytes.Buffer) {
	for _, child := range children {
		walkNode(child, v, level, buf)
	}
}

func walkNode(n Node, v Visitor, level int, buf *bytes.Buffer) {
	switch node := n.(type) {
	case *Metric:
		v.Metric(node.Name, stringifyValue(node.Value), node.Units, node.Kind, level, buf)
	case *Set:
		v.MetricSetBegin(node.Name, len(node.Children), level, buf)
		walkChildren(node.Children, v, level+1, buf)
		v.MetricSetEnd(node.Name, level, buf)
	case *List:
		v.ListBegin(node.Name, len(node.Elements), level, buf)
		for _, elem := range node.Elements {
			walkNode(elem, v, level+1, buf)
		}
		v.ListEnd(node.Name, level, buf)
	}
}
