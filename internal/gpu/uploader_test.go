//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gterm/atlas"
	"github.com/gogpu/gterm/frame"
	"github.com/gogpu/gterm/grid"
	"github.com/gogpu/gterm/palette"
)

func TestPipelineCreation(t *testing.T) {
	device, _ := newNoopDevice(t)

	p, err := NewPipeline(device, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("NewPipeline error = %v", err)
	}
	defer p.Destroy()

	if p.shader == nil || p.bindLayout == nil || p.pipeLayout == nil || p.sampler == nil || p.pipeline == nil {
		t.Errorf("incomplete pipeline: %+v", p)
	}
	if p.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v", p.Format())
	}
	if len(p.spirv) == 0 || p.spirv[0] != spirvMagic {
		t.Errorf("shader module not built from SPIR-V: %d words", len(p.spirv))
	}

	p.Destroy()
	if p.pipeline != nil || p.shader != nil {
		t.Error("Destroy left resources behind")
	}
	p.Destroy()
}

func TestNilDevice(t *testing.T) {
	if _, err := NewPipeline(nil, gputypes.TextureFormatRGBA8Unorm); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewPipeline(nil) error = %v", err)
	}
	if _, err := NewUploader(nil, nil, nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewUploader(nil) error = %v", err)
	}
	if _, err := NewTarget(nil, 1, 1, gputypes.TextureFormatRGBA8Unorm); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewTarget(nil) error = %v", err)
	}
}

type scene struct {
	tbl  *atlas.Table
	comp *frame.Compiler
	in   frame.Input
}

func newScene(t *testing.T) *scene {
	t.Helper()
	pal := palette.New()
	if err := pal.InitDefaults(); err != nil {
		t.Fatal(err)
	}
	defs, _ := pal.Defaults()
	tbl := atlas.NewTable()
	if _, err := tbl.LoadFont(atlas.Builtin("gomono"), 16); err != nil {
		t.Fatal(err)
	}
	g, err := grid.New(10, 3, grid.Cell{Rune: ' ', FG: defs.FG, BG: defs.BG})
	if err != nil {
		t.Fatal(err)
	}
	g.PutString(0, 0, "hi", defs.FG, defs.BG, grid.AttrNone)
	comp := frame.NewCompiler()
	if err := comp.Resize(10, 3); err != nil {
		t.Fatal(err)
	}
	return &scene{
		tbl:  tbl,
		comp: comp,
		in: frame.Input{
			Grid: g, Palette: pal, Atlas: tbl,
			Surface:  frame.Surface{Width: 200, Height: 100},
			Defaults: defs,
		},
	}
}

func TestUploaderFrame(t *testing.T) {
	device, queue := newNoopDevice(t)
	p, err := NewPipeline(device, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Destroy()
	u, err := NewUploader(device, queue, p)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Destroy()

	s := newScene(t)
	st, err := s.comp.Compile(s.in)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if st.Quads == 0 {
		t.Fatal("compiled frame is empty")
	}
	b := s.comp.Buffers()

	if err := u.Submit(b); !errors.Is(err, ErrNoBuffers) {
		t.Errorf("Submit before EnsureBuffers error = %v, want ErrNoBuffers", err)
	}
	if err := u.EnsureBuffers(b); err != nil {
		t.Fatalf("EnsureBuffers error = %v", err)
	}
	if u.Capacity() != b.Capacity {
		t.Errorf("Capacity() = %d, want %d", u.Capacity(), b.Capacity)
	}
	vb := u.vertexBuf
	if err := u.EnsureBuffers(b); err != nil || u.vertexBuf != vb {
		t.Errorf("EnsureBuffers with same capacity reallocated (err %v)", err)
	}

	if err := u.UploadFonts(s.tbl); err != nil {
		t.Fatalf("UploadFonts error = %v", err)
	}
	if len(s.tbl.Unbound()) != 0 {
		t.Errorf("Unbound() = %v after upload", s.tbl.Unbound())
	}
	if e, _ := s.tbl.Entry(0); e.Texture() == nil {
		t.Error("slot 0 has no texture")
	}

	if err := u.Submit(b); err != nil {
		t.Fatalf("Submit error = %v", err)
	}
	if u.indexCount != uint32(b.IndexCount()) {
		t.Errorf("indexCount = %d, want %d", u.indexCount, b.IndexCount())
	}

	target, err := NewTarget(device, 200, 100, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	defer target.Destroy()

	if err := u.Draw(target.View(), gputypes.Color{A: 1}, 0); err != nil {
		t.Fatalf("Draw error = %v", err)
	}
	if err := u.Draw(target.View(), gputypes.Color{}, 5); !errors.Is(err, ErrNoFontTexture) {
		t.Errorf("Draw with unloaded slot error = %v, want ErrNoFontTexture", err)
	}
}

func TestUploaderRejectsZeroCapacity(t *testing.T) {
	device, queue := newNoopDevice(t)
	p, err := NewPipeline(device, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Destroy()
	u, err := NewUploader(device, queue, p)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Destroy()

	if err := u.EnsureBuffers(&frame.Buffers{}); !errors.Is(err, ErrBufferAllocation) {
		t.Errorf("EnsureBuffers(empty) error = %v, want ErrBufferAllocation", err)
	}
	if err := u.Draw(nil, gputypes.Color{}, 0); !errors.Is(err, ErrNoBuffers) {
		t.Errorf("Draw before EnsureBuffers error = %v", err)
	}
}
