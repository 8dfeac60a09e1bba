package programs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"leanrt/internal/prim"
	"leanrt/internal/rt"
)

// Outcome is the observable result of one run.
type Outcome struct {
	Path     string
	Code     int
	Err      error
	Stdout   string
	Stderr   string
	Duration time.Duration
	Steps    uint64
	// Leaks is set when a run that should release everything left live
	// objects behind.
	Leaks error
}

// Comparison holds the native and image outcomes of a program.
type Comparison struct {
	Program *Program
	Native  Outcome
	Image   Outcome
}

// Mismatches lists every difference between the two runs and the golden
// output. It is empty when both runs behave as expected.
func (c *Comparison) Mismatches() []string {
	var out []string
	p := c.Program
	for _, o := range []*Outcome{&c.Native, &c.Image} {
		if o.Code != p.ExitCode {
			out = append(out, fmt.Sprintf("%s: exit code %d, want %d", o.Path, o.Code, p.ExitCode))
		}
		if o.Stdout != p.Stdout {
			out = append(out, fmt.Sprintf("%s: stdout %q, want %q", o.Path, o.Stdout, p.Stdout))
		}
		if o.Stderr != p.Stderr {
			out = append(out, fmt.Sprintf("%s: stderr %q, want %q", o.Path, o.Stderr, p.Stderr))
		}
		if (o.Err != nil) != p.Unwinds {
			out = append(out, fmt.Sprintf("%s: error %v", o.Path, o.Err))
		}
		if o.Leaks != nil {
			out = append(out, fmt.Sprintf("%s: %v", o.Path, o.Leaks))
		}
	}
	return out
}

// OK reports whether both runs matched the golden output.
func (c *Comparison) OK() bool { return len(c.Mismatches()) == 0 }

func (c *Comparison) String() string {
	if c.OK() {
		return c.Program.Name + ": ok"
	}
	return c.Program.Name + ":\n  " + strings.Join(c.Mismatches(), "\n  ")
}

// Compare runs both implementations of p concurrently, each on its own
// runtime built from opts with a capturing host.
func Compare(ctx context.Context, p *Program, opts rt.Options, prims *prim.Registry) (*Comparison, error) {
	cmp := &Comparison{Program: p}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cmp.Native = capture("native", opts, p, func(r *rt.Runtime) (int, uint64, error) {
			code, err := p.RunNative(r)
			return code, 0, err
		})
		return nil
	})
	g.Go(func() error {
		m, err := p.Machine(prims)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		cmp.Image = capture("image", opts, p, func(r *rt.Runtime) (int, uint64, error) {
			code, err := m.Run(ctx, r)
			return code, m.Steps(), err
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cmp, nil
}

func capture(path string, opts rt.Options, p *Program, run func(r *rt.Runtime) (int, uint64, error)) Outcome {
	host := rt.NewTestHost(nil, nil)
	opts.Host = host
	r := rt.New(opts)
	start := time.Now()
	code, steps, err := run(r)
	o := Outcome{
		Path:     path,
		Code:     code,
		Err:      err,
		Stdout:   host.Out.String(),
		Stderr:   host.Err.String(),
		Duration: time.Since(start),
		Steps:    steps,
	}
	if !p.Unwinds {
		o.Leaks = r.CheckLeaks()
	}
	return o
}

// CompareAll compares every program, at most limit at a time. done is called
// after each comparison finishes and may run concurrently.
func CompareAll(ctx context.Context, opts rt.Options, prims *prim.Registry, limit int, done func(*Comparison)) ([]*Comparison, error) {
	all := All()
	out := make([]*Comparison, len(all))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, p := range all {
		g.Go(func() error {
			cmp, err := Compare(ctx, p, opts, prims)
			if err != nil {
				return err
			}
			out[i] = cmp
			if done != nil {
				done(cmp)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
