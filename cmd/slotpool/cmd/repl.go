package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/onflow/flow-slotpool/model/slot"
	"github.com/onflow/flow-slotpool/module/irrecoverable"
	"github.com/onflow/flow-slotpool/module/slotpool"
)

// Repl is a line oriented shell over a slot pool backend. Each input line holds one command;
// results are written to the output, one per line, and failed commands print "error: <reason>".
type Repl struct {
	backend *slotpool.Backend
	in      io.Reader
	out     io.Writer
	log     zerolog.Logger
	dump    *spew.ConfigState
}

type command struct {
	name  string
	args  string
	help  string
	arity []int // accepted numbers of arguments
	run   func(r *Repl, args []string) error
}

// commands in the order help lists them.
var commands = []command{
	{name: "insert", args: "<key> <value>", help: "append a payload after the newest one", arity: []int{2}, run: (*Repl).insert},
	{name: "remove", args: "[key]", help: "remove the oldest payload, or the oldest one carrying key", arity: []int{0, 1}, run: (*Repl).remove},
	{name: "traverse", help: "list the payloads from the oldest to the newest", run: (*Repl).traverse},
	{name: "size", help: "print the number of live payloads", run: (*Repl).size},
	{name: "reset", help: "discard every payload", run: (*Repl).reset},
	{name: "check", help: "validate the links of the pool", run: (*Repl).check},
	{name: "debug", help: "dump the slots of the pool", run: (*Repl).debug},
	{name: "save", args: "<file>", help: "write the payloads to file", arity: []int{1}, run: (*Repl).save},
	{name: "load", args: "<file>", help: "replace the payloads with the ones saved in file", arity: []int{1}, run: (*Repl).load},
	{name: "help", help: "print this list"},
	{name: "exit", help: "leave the shell"},
}

func NewRepl(backend *slotpool.Backend, in io.Reader, out io.Writer, logger zerolog.Logger) *Repl {
	return &Repl{
		backend: backend,
		in:      in,
		out:     out,
		log:     logger.With().Str("component", "repl").Logger(),
		dump: &spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

// Run reads and executes commands until the input ends, an exit command is read or ctx is done.
// Exceptions raised by the pool are thrown through ctx; every other error is printed and the shell
// carries on.
func (r *Repl) Run(ctx irrecoverable.SignalerContext) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			r.log.Warn().Err(err).Msg("could not read shell input")
		}
	}()

	r.printf("slot pool ready with %d slots, type help for the list of commands\n", r.backend.Capacity())
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			exit, err := r.execute(line)
			if err != nil {
				if irrecoverable.IsException(err) {
					irrecoverable.Throw(ctx, err)
				}
				r.printf("error: %v\n", err)
			}
			if exit {
				return nil
			}
		}
	}
}

// execute runs a single input line and reports whether the shell must exit.
func (r *Repl) execute(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	if name == "quit" {
		name = "exit"
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}
		if !c.accepts(len(args)) {
			return false, fmt.Errorf("usage: %s", c.usage())
		}
		switch c.name {
		case "exit":
			return true, nil
		case "help":
			r.help()
			return false, nil
		}
		return false, c.run(r, args)
	}

	r.printf("unknown command %q, type help for the list of commands\n", name)
	return false, nil
}

func (c command) accepts(n int) bool {
	if len(c.arity) == 0 {
		return n == 0
	}
	for _, a := range c.arity {
		if a == n {
			return true
		}
	}
	return false
}

func (c command) usage() string {
	if c.args == "" {
		return c.name
	}
	return c.name + " " + c.args
}

func (r *Repl) insert(args []string) error {
	key, err := parseInt("key", args[0])
	if err != nil {
		return err
	}
	value, err := parseInt("value", args[1])
	if err != nil {
		return err
	}

	payload := slot.Payload{Key: key, Value: value}
	if err := r.backend.Insert(payload); err != nil {
		return err
	}
	r.printf("inserted %v\n", payload)
	return nil
}

func (r *Repl) remove(args []string) error {
	var (
		payload slot.Payload
		err     error
	)
	if len(args) == 0 {
		payload, err = r.backend.RemoveHead()
	} else {
		var key int
		key, err = parseInt("key", args[0])
		if err != nil {
			return err
		}
		payload, err = r.backend.RemoveByKey(key)
	}
	if err != nil {
		return err
	}
	r.printf("removed %v\n", payload)
	return nil
}

func (r *Repl) traverse(_ []string) error {
	payloads, err := r.backend.Traverse()
	if err != nil {
		return err
	}
	for _, p := range payloads {
		r.printf("%v\n", p)
	}
	return nil
}

func (r *Repl) size(_ []string) error {
	r.printf("%d of %d slots live (%s)\n", r.backend.Size(), r.backend.Capacity(), r.backend.State())
	return nil
}

func (r *Repl) reset(_ []string) error {
	r.backend.Reset()
	r.printf("pool reset, %d slots free\n", r.backend.Capacity())
	return nil
}

func (r *Repl) check(_ []string) error {
	if err := r.backend.Check(); err != nil {
		return err
	}
	r.printf("pool is consistent\n")
	return nil
}

func (r *Repl) debug(_ []string) error {
	r.dump.Fdump(r.out, r.backend.Debug())
	return nil
}

func (r *Repl) save(args []string) error {
	data, err := r.backend.Snapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return fmt.Errorf("could not write snapshot: %w", err)
	}
	r.printf("saved %d payloads to %s\n", r.backend.Size(), args[0])
	return nil
}

func (r *Repl) load(args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("could not read snapshot: %w", err)
	}
	if err := r.backend.Restore(data); err != nil {
		return err
	}
	r.printf("loaded %d payloads from %s\n", r.backend.Size(), args[0])
	return nil
}

func (r *Repl) help() {
	for _, c := range commands {
		r.printf("  %-22s %s\n", c.usage(), c.help)
	}
}

func (r *Repl) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func parseInt(name string, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: not an integer", name, s)
	}
	return v, nil
}
