// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package shaders holds the GLSL sources of the built-in triangle.
//
// The renderer loads the compiled .spv files, which are not checked in.
// Run `go generate ./shaders` with glslangValidator on PATH before
// building vkboot. Until then the built-in box and the default shader
// directory are empty and Initialise fails with ShaderCompileError.
package shaders

//go:generate glslangValidator -V triangle.vert -o triangle.vert.spv
//go:generate glslangValidator -V triangle.frag -o triangle.frag.spv
