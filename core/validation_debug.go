//go:build !release
// +build !release

package core

// validationDefault turns validation on for development builds.
const validationDefault = true
