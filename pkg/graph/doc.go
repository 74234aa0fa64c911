// Package graph computes face-adjacency between blocks: the connected
// component a selection grows to, and the structural checks a shape
// catalog must pass before its blocks enter a session.
package graph
