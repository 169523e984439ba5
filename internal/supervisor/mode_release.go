//go:build !dev

package supervisor

// buildMode is fixed at compile time. Default builds supervise a packaged
// backend; `-tags dev` builds expect an operator-run backend instead.
const buildMode = ModeProduction
