//go:build release
// +build release

package core

const validationDefault = false
