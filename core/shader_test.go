package core_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/utility/kar"
)

func TestValidateSPIRV(t *testing.T) {
	c := qt.New(t)

	c.Assert(core.ValidateSPIRV(spirv(7, 8, 9)), qt.IsNil)
	c.Assert(core.ValidateSPIRV(nil), qt.ErrorMatches, "empty shader")
	c.Assert(core.ValidateSPIRV(spirv()[:6]), qt.ErrorMatches, "size 6 is not a multiple of 4")
	c.Assert(core.ValidateSPIRV([]byte("#version 450")), qt.ErrorMatches, "bad magic .*")

	swapped := spirv()
	for i := 0; i < len(swapped); i += 4 {
		swapped[i], swapped[i+1], swapped[i+2], swapped[i+3] = swapped[i+3], swapped[i+2], swapped[i+1], swapped[i]
	}
	c.Assert(core.ValidateSPIRV(swapped), qt.IsNil)
}

func TestShaderTypeOf(t *testing.T) {
	c := qt.New(t)
	tests := map[string]core.ShaderType{
		"triangle.vert.spv":         core.VertexShaderType,
		"shaders/triangle.frag.spv": core.FragmentShaderType,
		"triangle.geom.spv":         core.UnknownShaderType,
		"triangle.spv":              core.UnknownShaderType,
		"tri.angle.vert.spv":        core.UnknownShaderType,
	}
	for name, expect := range tests {
		c.Assert(core.ShaderTypeOf(name), qt.Equals, expect, qt.Commentf("%s", name))
	}
}

func TestFindShaders(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	for _, name := range []string{"triangle.vert.spv", "triangle.frag.spv", "triangle.vert", "notes.txt", "a.b.c.spv"} {
		c.Assert(ioutil.WriteFile(filepath.Join(dir, name), spirv(), os.ModePerm), qt.IsNil)
	}

	found, err := core.FindShaders(dir)
	c.Assert(err, qt.IsNil)
	sort.Strings(found)
	c.Assert(found, qt.DeepEquals, []string{
		filepath.Join(dir, "triangle.frag.spv"),
		filepath.Join(dir, "triangle.vert.spv"),
	})
}

func TestDirectoryShaderSource(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	c.Assert(ioutil.WriteFile(filepath.Join(dir, "triangle.vert.spv"), spirv(1), os.ModePerm), qt.IsNil)

	shader, err := core.LoadShader(core.DirectoryShaderSource(dir), "triangle.vert.spv")
	c.Assert(err, qt.IsNil)
	c.Assert(shader.Type, qt.Equals, core.VertexShaderType)
	c.Assert(shader.Code, qt.DeepEquals, spirv(1))

	_, err = core.LoadShader(core.DirectoryShaderSource(dir), "triangle.frag.spv")
	c.Assert(core.KindOf(err), qt.Equals, core.ShaderCompileError)
}

func TestArchiveShaderSource(t *testing.T) {
	c := qt.New(t)
	builder := kar.NewBuilder(kar.Header{Author: "vkboot", Version: 1})
	c.Assert(builder.Add("triangle.frag.spv", bytes.NewReader(spirv(2))), qt.IsNil)
	var buf bytes.Buffer
	_, err := builder.WriteTo(&buf)
	c.Assert(err, qt.IsNil)

	ar, err := kar.Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)

	shader, err := core.LoadShader(core.NewArchiveShaderSource(ar), "triangle.frag.spv")
	c.Assert(err, qt.IsNil)
	c.Assert(shader.Type, qt.Equals, core.FragmentShaderType)
	c.Assert(shader.Code, qt.DeepEquals, spirv(2))
}

func TestLoadShaderUnknownType(t *testing.T) {
	c := qt.New(t)
	_, err := core.LoadShader(core.FinderShaderSource{Finder: shaderBox(c)}, "triangle.comp.spv")
	c.Assert(core.KindOf(err), qt.Equals, core.ShaderCompileError)
}
