package catalog

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

// header builds an instruction list with count declarations.
func header(count int) string {
	var sb strings.Builder
	sb.WriteString("// Instruction list\n")
	sb.WriteString("#define DEX_INSTRUCTION_LIST(V) \\\n")
	for n := range count {
		var name string
		switch n {
		case 0:
			name = "NOP"
		case 1:
			name = "MOVE"
		case 0x100:
			name = "EXTRA"
		default:
			name = fmt.Sprintf("UNUSED_%02X", n)
		}
		// Values past 0xFF would not match the four character value of a
		// declaration, so extra entries repeat the last value.
		fmt.Fprintf(&sb, "  V(0x%02X, %s, \"%s\", k10x, kIndexNone, kContinue, 0, kVerifyNone) \\\n",
			min(n, 0xff), name, strings.ToLower(name))
	}
	sb.WriteString("  // END\n")
	return sb.String()
}

func TestExtract(t *testing.T) {
	assert := assert.New(t)

	cat, err := Extract(strings.NewReader(header(PACKED_OPCODES)))
	assert.NoError(err)
	assert.Equal(PACKED_OPCODES, cat.Len())

	assert.Equal("op_nop", cat[0])
	assert.Equal("op_move", cat[1])
	assert.Equal("op_unused_02", cat[2])
	assert.Equal("op_unused_ff", cat[0xff])

	for n, symbol := range cat.All() {
		assert.True(strings.HasPrefix(symbol, OPCODE_PREFIX))
		assert.Equal(strings.ToLower(symbol), symbol)
		assert.Equal(cat[n], symbol)
	}
}

func TestExtractMismatch(t *testing.T) {
	assert := assert.New(t)

	for _, count := range []int{0, PACKED_OPCODES - 1, PACKED_OPCODES + 1} {
		cat, err := Extract(strings.NewReader(header(count)))
		assert.Nil(cat, "count %d", count)
		assert.True(errors.Is(err, ErrCatalogSizeMismatch), "count %d", count)

		var size *ErrCatalogSize
		if assert.True(errors.As(err, &size)) {
			assert.Equal(PACKED_OPCODES, size.Expected)
			assert.Equal(count, size.Actual)
		}
	}
}

func TestExtractWideValue(t *testing.T) {
	assert := assert.New(t)

	// A five character value is not a declaration.
	text := header(PACKED_OPCODES) + "  V(0x100, WIDE, \"wide\", k10x, kIndexNone, kContinue, 0, kVerifyNone) \\\n"
	cat, err := Extract(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal(PACKED_OPCODES, cat.Len())
	assert.NotContains([]string(cat), "op_wide")
}

func TestExtractorOptions(t *testing.T) {
	assert := assert.New(t)

	ex := &Extractor{Count: 4, Prefix: "insn_"}
	cat, err := ex.Extract(strings.NewReader(header(4)))
	assert.NoError(err)
	assert.Equal(Catalog{"insn_nop", "insn_move", "insn_unused_02", "insn_unused_03"}, cat)

	ex = &Extractor{Count: 0}
	_, err = ex.Extract(strings.NewReader(header(4)))
	assert.ErrorIs(err, ErrCatalogCount)
}

func TestExtractIgnoresOtherLines(t *testing.T) {
	assert := assert.New(t)

	text := strings.Join([]string{
		"#define V(opcode, name) /* not a declaration */",
		"  V(0x0, SHORT, \"short\")",
		"  V(0x00, NOP, \"nop\", k10x)",
		"  X(0x01, MOVE, \"move\", k12x)",
		"V(0x01, MOVE_WIDE, \"move-wide\", k12x)",
	}, "\n")

	ex := &Extractor{Count: 2, Prefix: OPCODE_PREFIX}
	cat, err := ex.Extract(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal(Catalog{"op_nop", "op_move_wide"}, cat)
}

func TestExtractFile(t *testing.T) {
	assert := assert.New(t)

	fsys := fstest.MapFS{
		"dex_instruction_list.h": &fstest.MapFile{Data: []byte(header(PACKED_OPCODES))},
		"short.h":                &fstest.MapFile{Data: []byte(header(3))},
	}

	cat, err := NewExtractor().ExtractFile(fsys, "dex_instruction_list.h")
	assert.NoError(err)
	assert.Equal(PACKED_OPCODES, len(cat))

	_, err = NewExtractor().ExtractFile(fsys, "short.h")
	assert.ErrorIs(err, ErrCatalogSizeMismatch)
	assert.Contains(err.Error(), "short.h")

	_, err = NewExtractor().ExtractFile(fsys, "missing.h")
	assert.Error(err)
}
