package codegen

import (
	_ "embed"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/ipcheck/ipcheck/component/filter"
)

//go:embed ipcheck.ts.tmpl
var tsTemplate string

type ipCheckContext struct {
	FilterV4 string
	FilterV6 string
}

// Render writes the self-contained TypeScript artifact for a compiled
// filter: both flattened arrays plus the matching algorithm, so the emitted
// file needs no runtime dependency. An empty family renders as a zero-length
// array, which the emitted matcher treats as "reject everything".
func Render(w io.Writer, f *filter.Filter) error {
	tmpl, err := template.New("ipcheck.ts").Parse(tsTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, &ipCheckContext{
		FilterV4: "[" + strings.Join(f.Records(true), ",") + "]",
		FilterV6: "[" + strings.Join(f.Records(false), ",") + "]",
	})
}

// RenderFile renders the artifact to path, replacing any existing file.
func RenderFile(path string, f *filter.Filter) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return Render(file, f)
}
