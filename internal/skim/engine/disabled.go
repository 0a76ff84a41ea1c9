package engine

// Disabled returns the KindDisabled leaf: "every item scores a constant;
// positions empty" (§4.2), used for the empty query, for --disabled, in
// interactive mode, and in place of a regex that does not compile.
func Disabled() Tree {
	return Tree{Kind: KindDisabled}
}
