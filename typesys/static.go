package typesys

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"

	"github.com/wippyai/lang-concepts/console"
	"github.com/wippyai/lang-concepts/errors"
)

// ReassignSnippet declares an int and then assigns a string to it.
const ReassignSnippet = `package snippet

func f() {
	x := 5
	x = "Hello"
	_ = x
}
`

// StaticCheck type-checks src as a single Go file and returns every
// diagnostic the checker reports.
func StaticCheck(src string) ([]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "snippet.go", src, parser.AllErrors)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTypeCheck, errors.KindInvalidInput, err, "parse snippet")
	}

	var diags []string
	conf := types.Config{
		Importer: importer.Default(),
		Error: func(err error) {
			diags = append(diags, err.Error())
		},
	}
	_, _ = conf.Check(file.Name.Name, fset, []*ast.File{file}, nil)
	return diags, nil
}

// StaticDemo shows that reassigning a string to an int variable is
// rejected before the program ever runs.
func StaticDemo(p *console.Printer) error {
	p.Println("Reassigning a variable to another type:")
	p.Blank()
	for _, line := range console.Lines(ReassignSnippet) {
		if line == "" {
			p.Blank()
			continue
		}
		p.Println("    " + line)
	}
	p.Blank()

	diags, err := StaticCheck(ReassignSnippet)
	if err != nil {
		return err
	}
	if len(diags) == 0 {
		p.Println("Type checker accepted the snippet")
		return p.Err()
	}
	p.Println("Rejected at compile time:")
	for _, d := range diags {
		p.Println("  " + d)
	}
	return p.Err()
}
