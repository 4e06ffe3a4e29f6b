// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/thirukguru/yolo-workbench/service/runner"
)

// Call records one invocation.
type Call struct {
	Name   string
	Args   []string
	Stream bool
}

// Line renders the call as a command line.
func (c Call) Line() string {
	return runner.FormatCommand(c.Name, c.Args...)
}

// Response is what a matched invocation returns.
type Response struct {
	Result runner.Result
	Err    error
	// Hook runs before returning, e.g. to create files a real tool would write.
	Hook func(args []string)
	// Func, when set, computes the result from the arguments instead.
	Func func(args []string) (runner.Result, error)
}

// Fake is a runner.Runner whose behavior is scripted by command-line prefix.
type Fake struct {
	mu        sync.Mutex
	Missing   map[string]bool
	responses []scripted
	Calls     []Call
}

type scripted struct {
	prefix string
	resp   Response
}

// New returns an empty Fake. Unscripted commands exit 0 with no output.
func New() *Fake {
	return &Fake{Missing: map[string]bool{}}
}

// On registers resp for every command line starting with prefix.
// Later registrations win over earlier ones.
func (f *Fake) On(prefix string, resp Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, scripted{prefix: prefix, resp: resp})
	return f
}

func (f *Fake) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

func (f *Fake) Run(_ context.Context, name string, args ...string) (runner.Result, error) {
	resp := f.record(Call{Name: name, Args: args})
	return resp.Result, resp.Err
}

func (f *Fake) Stream(_ context.Context, name string, args ...string) (int, error) {
	resp := f.record(Call{Name: name, Args: args, Stream: true})
	if resp.Err != nil {
		return -1, resp.Err
	}
	return resp.Result.ExitCode, nil
}

func (f *Fake) record(c Call) Response {
	f.mu.Lock()
	f.Calls = append(f.Calls, c)
	line := c.Line()
	var resp Response
	for i := len(f.responses) - 1; i >= 0; i-- {
		if strings.HasPrefix(line, f.responses[i].prefix) {
			resp = f.responses[i].resp
			break
		}
	}
	f.mu.Unlock()

	if resp.Hook != nil {
		resp.Hook(c.Args)
	}
	if resp.Func != nil {
		resp.Result, resp.Err = resp.Func(c.Args)
	}
	return resp
}

// Streamed returns the command lines that went through Stream.
func (f *Fake) Streamed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.Calls {
		if c.Stream {
			out = append(out, c.Line())
		}
	}
	return out
}
