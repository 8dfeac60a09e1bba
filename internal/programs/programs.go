// Package programs holds end-to-end guest programs. Each program has a native
// implementation written against the runtime API and an image
// implementation run by the register machine; both must print the same
// output.
package programs

import (
	"context"
	"fmt"
	"sort"

	"leanrt/internal/image"
	"leanrt/internal/prim"
	"leanrt/internal/rt"
)

// Program is a guest program with its expected behavior.
type Program struct {
	Name        string
	Description string

	Native func(r *rt.Runtime, world rt.Object) rt.Object
	Image  func() *image.Image

	Stdout   string
	Stderr   string
	ExitCode int
	// Unwinds marks programs that end in a runtime panic; objects live at
	// the panic are not released.
	Unwinds bool
}

var registry = map[string]*Program{}

func register(p *Program) {
	if _, dup := registry[p.Name]; dup {
		panic(fmt.Sprintf("programs: duplicate program %q", p.Name))
	}
	registry[p.Name] = p
}

func init() {
	register(&Program{
		Name:        "fold",
		Description: "sum the naturals below 10000 with a tail-calling loop",
		Native:      foldNative,
		Image:       foldImage,
		Stdout:      "49995000\n",
	})
	register(&Program{
		Name:        "closures",
		Description: "partial application over functions and primitives",
		Native:      closuresNative,
		Image:       closuresImage,
		Stdout:      "6\n42\n16\n",
	})
	register(&Program{
		Name:        "strings",
		Description: "append, push, length and case mapping",
		Native:      stringsNative,
		Image:       stringsImage,
		Stdout:      "hello, world!\n13\nHELLO, WORLD!\n",
	})
	register(&Program{
		Name:        "numbers",
		Description: "big naturals and the Int division family",
		Native:      numbersNative,
		Image:       numbersImage,
		Stdout:      "1267650600228229401496703205376\n15511210043330985984000000\n4194304\n-3\n-1\n-4\n1\n",
	})
	register(&Program{
		Name:        "thunks",
		Description: "lazy values forced twice and mapped",
		Native:      thunksNative,
		Image:       thunksImage,
		Stdout:      "4950\n4950\n9900\n",
	})
	register(&Program{
		Name:        "refs",
		Description: "a counter kept in an IO reference",
		Native:      refsNative,
		Image:       refsImage,
		Stdout:      "10\n",
	})
	register(&Program{
		Name:        "uncaught",
		Description: "an IO error escaping main",
		Native:      uncaughtNative,
		Image:       uncaughtImage,
		Stdout:      "before\n",
		Stderr:      "uncaught exception: boom\n",
		ExitCode:    1,
	})
	register(&Program{
		Name:        "bounds",
		Description: "Array.get! past the end",
		Native:      boundsNative,
		Image:       boundsImage,
		Stderr:      "Array.get!: index 5 out of bounds (size 0)\n",
		ExitCode:    1,
		Unwinds:     true,
	})
}

// Lookup finds a program by name.
func Lookup(name string) (*Program, bool) {
	p, ok := registry[name]
	return p, ok
}

// All returns every program sorted by name.
func All() []*Program {
	out := make([]*Program, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted program names.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

// RunNative runs the native implementation and returns the exit code.
func (p *Program) RunNative(r *rt.Runtime) (int, error) {
	return r.Run(p.Native)
}

// Machine builds a machine for the image implementation.
func (p *Program) Machine(prims *prim.Registry) (*image.Machine, error) {
	return image.NewMachine(p.Image(), prims)
}

// RunImage runs the image implementation and returns the exit code.
func (p *Program) RunImage(ctx context.Context, r *rt.Runtime, prims *prim.Registry) (int, error) {
	m, err := p.Machine(prims)
	if err != nil {
		return 1, err
	}
	return m.Run(ctx, r)
}
