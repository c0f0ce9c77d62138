// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"encoding/binary"
	"strings"

	vk "github.com/vulkan-go/vulkan"
)

// safeString terminates s for the C side, unless it already is.
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}

// goString reads a NUL terminated name out of a fixed size array.
func goString(b []byte) string {
	return vk.ToString(b)
}

const spirvMagic = 0x07230203

// spirvWords reslices SPIR-V code into the words vkCreateShaderModule
// expects. The byte order of the module is taken from its magic number.
func spirvWords(code []byte) []uint32 {
	var order binary.ByteOrder = binary.LittleEndian
	if len(code) >= 4 && binary.BigEndian.Uint32(code) == spirvMagic {
		order = binary.BigEndian
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = order.Uint32(code[4*i:])
	}
	return words
}
