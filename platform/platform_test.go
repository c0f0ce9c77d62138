// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package platform

import (
	"testing"

	"github.com/devblok/vkboot/core"
	"github.com/stretchr/testify/assert"
)

func TestClampSize(t *testing.T) {
	w, h := clampSize(800, 600)
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)

	w, h = clampSize(-1, 10)
	assert.Zero(t, w)
	assert.Equal(t, uint32(10), h)
}

func TestNewWindowUnknownBackend(t *testing.T) {
	_, err := NewWindow(core.WindowConfiguration{Backend: "x11"})
	assert.EqualError(t, err, `platform: unknown window backend "x11"`)
}

var (
	_ Window = (*SDLWindow)(nil)
	_ Window = (*GLFWWindow)(nil)
)
