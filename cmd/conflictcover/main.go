// Command conflictcover builds the conflict graph of a table under its
// functional dependencies and reports vertex covers and inconsistency
// estimates over it.
//
//	conflictcover --config run.yaml cover --algorithm triangle
//	conflictcover --config run.yaml degree --epsilon 0.05 --predicate "zip < 5"
//	conflictcover --config run.yaml check --predicate "city = Kyiv"
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
