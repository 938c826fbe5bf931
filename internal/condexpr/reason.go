package condexpr

// Reason tells why an if statement was not matched. Matched means it was.
type Reason uint8

const (
	Matched Reason = iota

	// shape mismatches
	NotApplicable
	MissingFalseBranch
	BareThrow

	// semantic incompatibilities
	DoubleThrow
	ConditionalUnsupported
	ThrowUnsupported
	RefWithThrow
	RefMismatch
	RefConditionalUnsupported
	KindMismatch
	FallsThrough

	// structural non-equivalence
	TargetMismatch

	// structural gate
	HasComments
	SpansDirective
	NextNotRemovable

	// type resolution
	NoCommonType
	Canceled
)

var reasonText = [...]string{
	Matched:                   "matched",
	NotApplicable:             "branch is not an assignment, return, yield return or throw",
	MissingFalseBranch:        "if statement has no false branch",
	BareThrow:                 "a rethrow cannot become a throw expression",
	DoubleThrow:               "both branches throw",
	ConditionalUnsupported:    "conditional expressions are not supported",
	ThrowUnsupported:          "throw expressions are not supported",
	RefWithThrow:              "ref binding cannot be combined with a throw expression",
	RefMismatch:               "only one branch binds by reference",
	RefConditionalUnsupported: "ref conditional expressions are not supported",
	KindMismatch:              "return and yield return cannot be combined",
	FallsThrough:              "true branch does not leave the block",
	TargetMismatch:            "assignment targets differ",
	HasComments:               "branches carry comments that would be lost",
	SpansDirective:            "if statement spans a preprocessor directive",
	NextNotRemovable:          "following statement cannot be removed",
	NoCommonType:              "branch values have no common type",
	Canceled:                  "analysis canceled",
}

func (r Reason) String() string {
	if int(r) < len(reasonText) {
		return reasonText[r]
	}
	return "unknown"
}

// OK reports whether r is Matched.
func (r Reason) OK() bool { return r == Matched }
