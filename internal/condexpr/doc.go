// Package condexpr converts two-way if statements whose branches are
// matching terminal actions into a single statement built on the
// conditional operator.
//
//	if (b) { x = 1; } else { x = 2; }      =>  x = b ? 1 : 2;
//	if (b) return 1; else throw new E();   =>  return b ? 1 : throw new E();
//	if (b) return 1;                       =>  return b ? 1 : 2;
//	return 2;
//
// Matching is a strict pipeline: unwrap single-statement blocks, classify
// both branches, reject two throws, check throw-expression and ref rules,
// check assignment targets or return kinds, then run the structural gate and
// the best-common-type query. Any failed step ends the analysis for that if
// statement with a Reason; nothing is ever partially rewritten.
//
// Matchers only read the tree. RewriteAssignment and RewriteReturn build new
// nodes and describe the edit as a Fix: the statement to replace, its
// replacement, and the sibling statements that become redundant. Fix.Apply
// produces a new block and leaves the input untouched.
package condexpr
