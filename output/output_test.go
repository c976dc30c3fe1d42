package output

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/genmterp/script"
)

// body is a handler that emits a fixed line to a sink.
type body struct {
	sink  script.Sink
	name  string
	text  string
	calls int
}

func (b *body) Name() string {
	return b.name
}

func (b *body) Call() error {
	b.calls++
	return b.sink.EmitLine(b.text)
}

func TestFileSink(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemFS()
	sink := NewFileSink(mem, "arm")
	assert.Equal("mterp_arm.S", sink.Name)

	nop := &body{sink: sink, name: "op_nop", text: "    nop"}

	assert.NoError(sink.EmitLine("header"))
	assert.NoError(sink.EmitOpcodeEntry(script.OpcodeEntry{Index: 0, Label: "op_nop", Handler: nop}))
	assert.NoError(sink.EmitOpcodeEntry(script.OpcodeEntry{Index: 0x1f, Label: "op_nop", Handler: nop, IsAlt: true}))
	assert.Equal(1, nop.calls)

	// Nothing is written until finalized.
	assert.Empty(mem.Names())

	assert.NoError(sink.Finalize())
	assert.Equal([]string{"mterp_arm.S"}, mem.Names())
	assert.Equal("header\nop_nop: /* 0x00 */\n    nop\nop_nop_alt: /* 0x1f */\n", mem.Files["mterp_arm.S"].String())

	assert.ErrorIs(sink.Finalize(), script.ErrFinalized)
	assert.ErrorIs(sink.EmitLine("late"), script.ErrFinalized)
	assert.ErrorIs(sink.EmitOpcodeEntry(script.OpcodeEntry{Label: "op_nop", Handler: nop}), script.ErrFinalized)
}

func TestFileSinkCreateError(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemFS()
	sink := &FileSink{FS: mem, Name: "missing/mterp_arm.S"}
	assert.ErrorIs(sink.Finalize(), fs.ErrNotExist)
}

func TestRecorder(t *testing.T) {
	assert := assert.New(t)

	rec := &Recorder{Expand: true}
	nop := &body{sink: rec, name: "op_nop", text: "    nop"}

	assert.NoError(rec.EmitOpcodeEntry(script.OpcodeEntry{Index: 0, Label: "op_nop", Handler: nop}))
	assert.NoError(rec.EmitOpcodeEntry(script.OpcodeEntry{Index: 0, Label: "op_nop", Handler: nop, IsAlt: true}))
	assert.NoError(rec.EmitLine("tail"))
	assert.NoError(rec.Finalize())

	assert.Equal([]Call{
		{Primitive: script.PRIMITIVE_OPCODE, Index: 0, Label: "op_nop"},
		{Primitive: script.PRIMITIVE_LINE, Text: "    nop"},
		{Primitive: script.PRIMITIVE_OPCODE, Index: 0, Label: "op_nop", IsAlt: true},
		{Primitive: script.PRIMITIVE_LINE, Text: "tail"},
		{Primitive: script.PRIMITIVE_FINALIZE},
	}, rec.Calls)
	assert.Equal([]string{"    nop", "tail"}, rec.Lines())

	var buf bytes.Buffer
	assert.NoError(rec.Dump(&buf))
	assert.Equal(`emit_opcode_entry(0, "op_nop", op_nop, false)
emit_line("    nop")
emit_opcode_entry(0, "op_nop", op_nop, true)
emit_line("tail")
finalize()
`, buf.String())
}

func TestMemFS(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemFS()

	_, err := mem.Sub("out")
	assert.ErrorIs(err, fs.ErrNotExist)

	sub, err := SubDir(mem, "out")
	assert.NoError(err)

	again, err := SubDir(mem, "out")
	assert.NoError(err)
	assert.NotNil(again)

	assert.ErrorIs(mem.Mkdir("out", 0755), fs.ErrExist)

	ouf, err := sub.Create("a.S")
	assert.NoError(err)
	_, err = ouf.Write([]byte("text"))
	assert.NoError(err)
	assert.NoError(ouf.Close())

	_, err = mem.Create("top.S")
	assert.NoError(err)

	assert.Equal([]string{"out/a.S", "top.S"}, mem.Names())
	assert.Equal([]string{"out/a.S"}, sub.(*MemFS).Names())
	assert.Equal("text", mem.Files["out/a.S"].String())
}

func TestDirFS(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	root := DirFS(dir)

	sub, err := SubDir(root, "out")
	assert.NoError(err)

	sink := NewFileSink(sub, "x86")
	assert.NoError(sink.EmitLine("    ret"))
	assert.NoError(sink.Finalize())

	data, err := os.ReadFile(filepath.Join(dir, "out", "mterp_x86.S"))
	assert.NoError(err)
	assert.Equal("    ret\n", string(data))

	_, err = root.Sub("out/mterp_x86.S")
	assert.True(errors.Is(err, fs.ErrInvalid))

	_, err = root.Sub("missing")
	assert.ErrorIs(err, fs.ErrNotExist)
}

func TestMemFSZero(t *testing.T) {
	assert := assert.New(t)

	var mem MemFS

	ouf, err := mem.Create("a.S")
	assert.NoError(err)
	assert.NoError(ouf.Close())

	sub, err := SubDir(&mem, "out")
	assert.NoError(err)
	_, err = sub.Create("b.S")
	assert.NoError(err)

	assert.Equal([]string{"a.S", "out/b.S"}, mem.Names())

	assert.NoError(sub.Remove("b.S"))
	assert.ErrorIs(sub.Remove("b.S"), fs.ErrNotExist)
	assert.Equal([]string{"a.S"}, mem.Names())
}

func TestFileSinkDiscard(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemFS()
	sink := NewFileSink(mem, "arm")

	assert.NoError(sink.EmitLine("partial"))
	assert.NoError(sink.Discard())
	assert.Empty(mem.Names())

	assert.NoError(sink.Finalize())
	assert.Equal([]string{"mterp_arm.S"}, mem.Names())
	assert.Empty(mem.Files["mterp_arm.S"].String())

	assert.NoError(sink.Discard())
	assert.Empty(mem.Names())
	assert.NoError(sink.Discard())

	dir := t.TempDir()
	disk := NewFileSink(DirFS(dir), "x86")
	assert.NoError(disk.Finalize())
	assert.NoError(disk.Discard())
	_, err := os.Stat(filepath.Join(dir, "mterp_x86.S"))
	assert.ErrorIs(err, fs.ErrNotExist)
}
