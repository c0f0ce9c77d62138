package core

import (
	"encoding/binary"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/devblok/vkboot/utility/kar"
	"github.com/gobuffalo/packd"
	"github.com/pkg/errors"
)

const shaderSuffix = ".spv"

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ShaderSource returns compiled shader blobs by name.
type ShaderSource interface {
	Load(name string) ([]byte, error)
}

// Shader is a loaded SPIR-V blob.
type Shader struct {
	Name string
	Type ShaderType
	Code []byte
}

// ShaderTypeOf derives the type of a shader from its file name,
// which has the form name.{vert,frag}.spv
func ShaderTypeOf(name string) ShaderType {
	base := strings.TrimSuffix(filepath.Base(name), shaderSuffix)
	nodes := strings.Split(base, ".")
	if len(nodes) != 2 {
		return UnknownShaderType
	}
	switch nodes[1] {
	case "vert":
		return VertexShaderType
	case "frag":
		return FragmentShaderType
	}
	return UnknownShaderType
}

// FindShaders walks dir and returns the paths of every compiled shader in it.
// A file counts when its name has exactly two dots, the first separating
// the shader name from its type and the second the .spv extension.
func FindShaders(dir string) ([]string, error) {
	var shaders []string
	if err := filepath.Walk(dir, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() || !strings.HasSuffix(f.Name(), shaderSuffix) {
			return nil
		}
		if ShaderTypeOf(f.Name()) != UnknownShaderType {
			shaders = append(shaders, path)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "walk %s", dir)
	}
	return shaders, nil
}

// ValidateSPIRV checks that code looks like a SPIR-V module: a non-empty
// sequence of 32 bit words starting with the magic number, in either byte order.
func ValidateSPIRV(code []byte) error {
	switch {
	case len(code) == 0:
		return errors.New("empty shader")
	case len(code)%4 != 0:
		return errors.Errorf("size %d is not a multiple of 4", len(code))
	}
	if binary.LittleEndian.Uint32(code) != spirvMagic && binary.BigEndian.Uint32(code) != spirvMagic {
		return errors.Errorf("bad magic %#08x", binary.LittleEndian.Uint32(code))
	}
	return nil
}

// LoadShader loads and validates the named shader from source.
func LoadShader(source ShaderSource, name string) (Shader, error) {
	const op = "core.LoadShader()"
	shaderType := ShaderTypeOf(name)
	if shaderType == UnknownShaderType {
		return Shader{}, newErrorf(ShaderCompileError, op, "%s: unknown shader type", name)
	}
	code, err := source.Load(name)
	if err != nil {
		return Shader{}, newError(ShaderCompileError, op, errors.Wrap(err, name))
	}
	if err := ValidateSPIRV(code); err != nil {
		return Shader{}, newError(ShaderCompileError, op, errors.Wrap(err, name))
	}
	return Shader{Name: name, Type: shaderType, Code: code}, nil
}

// DirectoryShaderSource reads shaders from files in a directory.
type DirectoryShaderSource string

// Load implements ShaderSource
func (d DirectoryShaderSource) Load(name string) ([]byte, error) {
	return ioutil.ReadFile(filepath.Join(string(d), name))
}

// NewArchiveShaderSource reads shaders from a kar archive.
func NewArchiveShaderSource(archive *kar.Archive) *ArchiveShaderSource {
	return &ArchiveShaderSource{archive: archive}
}

// ArchiveShaderSource reads shaders from a kar archive.
type ArchiveShaderSource struct {
	archive *kar.Archive
}

// Load implements ShaderSource
func (a *ArchiveShaderSource) Load(name string) ([]byte, error) {
	return a.archive.ReadAll(name)
}

// FinderShaderSource reads shaders from a packd.Finder, such as a packr box.
type FinderShaderSource struct {
	packd.Finder
}

// Load implements ShaderSource
func (f FinderShaderSource) Load(name string) ([]byte, error) {
	return f.Find(name)
}
