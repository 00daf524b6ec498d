// Package ontology implements the concept tree store and its semantic
// match expansion.
//
// A tree is an immutable value: every mutation function takes a tree and
// returns a new one, leaving the input untouched. Validation failures are
// detected before any copy is made, so a failed call is a no-op. The four
// structural invariants (child lists mirror parent references, root list
// mirrors parentless nodes, acyclic parent graph, unique ids) hold for
// every tree a mutation function returns; core.ValidateTree re-checks them
// on import.
//
// SemanticMatches implements hierarchy-aware tag search: a broad concept
// subsumes every narrower descendant, so searching "#AI" also matches
// notes tagged with "#MachineLearning" if that concept sits below it.
package ontology
