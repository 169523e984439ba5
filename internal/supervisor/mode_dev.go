//go:build dev

package supervisor

const buildMode = ModeDevelopment
