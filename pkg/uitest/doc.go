// Package uitest drives Bubble Tea models in tests.
//
// It wraps [github.com/charmbracelet/x/exp/teatest] with helpers that match
// on ANSI-stripped output, so assertions do not depend on the colour profile:
//
//	tm := uitest.NewTestModel(t, model, uitest.Compact)
//	uitest.SendKeys(tm, "j", "j", "n")
//	uitest.WaitForText(t, tm.Output(), "page 2 of")
package uitest
