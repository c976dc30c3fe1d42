package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Parse(`
catalog = "../../../libdexfile/dex/dex_instruction_list.h"
prelude = "common/gen_setup.star"
architectures = ["arm", "x86"]
dump = "out/scripts"
`)
	assert.NoError(err)
	assert.Equal("../../../libdexfile/dex/dex_instruction_list.h", cfg.Catalog)
	assert.Equal("common/gen_setup.star", cfg.Prelude)
	assert.Equal([]string{"arm", "x86"}, cfg.Architectures)
	assert.Equal(".", cfg.Templates)
	assert.Equal("out", cfg.Output)
	assert.Equal(256, cfg.Opcodes)
	assert.Equal("op_", cfg.Prefix)
	assert.Equal("out/scripts", cfg.Dump)
}

func TestParseDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Parse(`catalog = "list.h"`)
	assert.NoError(err)
	assert.Equal(DefaultArchitectures, cfg.Architectures)

	// The defaults are not shared.
	cfg.Architectures[0] = "riscv"
	assert.Equal("arm", DefaultArchitectures[0])
}

func TestParseInvalid(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(`catalog = `)
	assert.Error(err)

	_, err = Parse(`prelude = "x"`)
	assert.ErrorIs(err, ErrNoCatalog)

	_, err = Parse("catalog = \"list.h\"\nopcodes = -1\n")
	assert.ErrorIs(err, ErrOpcodeCount)

	_, err = Parse("catalog = \"list.h\"\narchitectures = [\"arm\", \"arm\"]\n")
	assert.ErrorIs(err, ErrArchDuplicate)

	cfg := &Config{Catalog: "list.h", Opcodes: 1}
	assert.ErrorIs(cfg.Validate(), ErrNoArch)
}

func TestSelect(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Parse(`catalog = "list.h"`)
	assert.NoError(err)

	assert.NoError(cfg.Select([]string{"x86", "arm"}))
	assert.Equal([]string{"x86", "arm"}, cfg.Architectures)

	assert.ErrorIs(cfg.Select([]string{"mips"}), ErrArchUnknown)
	assert.ErrorIs(cfg.Select([]string{"arm", "arm"}), ErrArchDuplicate)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, FILENAME), []byte("catalog = \"list.h\"\nprelude = \"/abs/setup.star\"\n"), 0644)
	assert.NoError(err)

	cfg, err := Load(dir)
	assert.NoError(err)
	assert.Equal(filepath.Join(cfg.Dir, "list.h"), cfg.Path(cfg.Catalog))
	assert.Equal("/abs/setup.star", cfg.Path(cfg.Prelude))
	assert.Equal("", cfg.Path(""))

	_, err = Load(filepath.Join(dir, "missing"))
	assert.Error(err)
}
