package ai

// Relation is a (subject, predicate, object) triple identified in text.
// It is a coarse relational-match signal, not a full semantic parse: the
// extractors are heuristic and low-value duplicates are acceptable.
type Relation struct {
	Subject   string
	Predicate string
	Object    string
}
