package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// rebuild renders segments back into template notation.
func rebuild(segs []Segment) string {
	var sb strings.Builder
	for _, seg := range segs {
		if seg.Variable {
			sb.WriteString("${" + seg.Text + "}")
		} else {
			sb.WriteString(strings.ReplaceAll(seg.Text, "$", "$$"))
		}
	}
	return sb.String()
}

func FuzzTranslateLine(f *testing.F) {
	for _, seed := range []string{
		"",
		"    nop",
		"%def op_nop():",
		"%  if x:",
		"$$",
		"$arch",
		"${arch}_suffix",
		"${unterminated",
		"$1",
		"a $ b $$ c $$$d",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, line string) {
		assert := assert.New(t)

		if strings.ContainsAny(line, "\r\n") {
			return
		}

		frag, err := TranslateLines("fuzz.S", []string{line, "after"})
		if err != nil {
			assert.True(errors.Is(err, ErrMalformedTemplateLine))
			return
		}

		assert.Equal(2, len(frag.Statements))

		emit, ok := frag.Statements[0].(*Emit)
		if !ok {
			return
		}

		again, err := TranslateLines("fuzz.S", []string{rebuild(emit.Segments)})
		assert.NoError(err)
		if err == nil {
			assert.Equal(emit.Segments, again.Statements[0].(*Emit).Segments)
		}
	})
}
