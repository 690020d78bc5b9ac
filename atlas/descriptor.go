package atlas

import (
	"errors"
	"os"
	"sort"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Descriptor identifies the font to load. Exactly one source is used, in
// this order: Data, Path, then Name as a builtin font.
type Descriptor struct {
	// Name labels the font. Without Data or Path it selects a builtin.
	Name string

	// Path is a TTF or OTF file on disk.
	Path string

	// Data is raw TTF or OTF content.
	Data []byte
}

// Builtin returns a descriptor for one of the embedded Go fonts.
func Builtin(name string) Descriptor { return Descriptor{Name: name} }

// File returns a descriptor for a font file.
func File(path string) Descriptor { return Descriptor{Name: path, Path: path} }

// Bytes returns a descriptor for in-memory font data.
func Bytes(name string, data []byte) Descriptor { return Descriptor{Name: name, Data: data} }

var builtinFonts = map[string][]byte{
	"gomono":     gomono.TTF,
	"gomonobold": gomonobold.TTF,
	"goregular":  goregular.TTF,
}

// BuiltinNames lists the fonts accepted by Builtin.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinFonts))
	for name := range builtinFonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var errNoSource = errors.New("descriptor has no data, path or known builtin name")

func (d Descriptor) isBuiltin() bool {
	if len(d.Data) > 0 || d.Path != "" {
		return false
	}
	_, ok := builtinFonts[d.Name]
	return ok
}

// load returns the font bytes named by d.
func (d Descriptor) load() ([]byte, error) {
	switch {
	case len(d.Data) > 0:
		return d.Data, nil
	case d.Path != "":
		return os.ReadFile(d.Path)
	}
	if data, ok := builtinFonts[d.Name]; ok {
		return data, nil
	}
	return nil, errNoSource
}
