package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"regexp"
	"slices"
	"syscall"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/creachadair/mds/slice"
	"github.com/danderson/markup"
	"github.com/danderson/markup/attr"
	"github.com/kr/pretty"
)

var globalArgs struct {
	Debug bool `flag:"debug,Trace conversion decisions to stderr"`
}

// helpers returns the conversion pipeline for a command.
func helpers(opts ...markup.Option) *markup.Helpers {
	if globalArgs.Debug {
		opts = append(opts, markup.WithLogger(log.New(os.Stderr, "markup: ", log.Lmicroseconds)))
	}
	if len(opts) == 0 {
		return markup.Default()
	}
	return markup.NewHelpers(opts...)
}

func main() {
	root := &command.C{
		Name:     "markup",
		Usage:    "command args...",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Commands: []*command.C{
			{
				Name:  "tokenize",
				Usage: "tokenize text",
				Help:  "Split attribute text into its top-level tokens.",
				Run:   command.Adapt(runTokenize),
			},
			{
				Name:  "ext",
				Usage: "ext text",
				Help:  "Parse a markup extension reference.",
				Run:   command.Adapt(runExt),
			},
			{
				Name:  "decode",
				Usage: "decode --type name text",
				Help: `Convert attribute text to a typed value.

The type is given by its registered name, e.g. wf:Point, wf:Size,
wf:SynchronizationHandles or sys:Int32. Use the types command to list
all names.`,
				SetFlags: command.Flags(flax.MustBind, &decodeArgs),
				Run:      command.Adapt(runDecode),
			},
			{
				Name:  "encode",
				Usage: "encode --type name [arg...]",
				Help: `Construct a value and print its attribute text.

Each arg is assigned to the type's next property, or is a Name=Value
assignment. For list types, each arg is one element.`,
				SetFlags: command.Flags(flax.MustBind, &encodeArgs),
				Run:      runEncode,
			},
			{
				Name:  "handles",
				Usage: "handles text",
				Help:  "Normalize a synchronization handle list.",
				Run:   command.Adapt(runHandles),
			},
			{
				Name:  "types",
				Usage: "types",
				Help:  "List the registered type names.",
				Run:   command.Adapt(runTypes),
			},
			{
				Name:  "check",
				Usage: "check [--strict] [--yaml] [--match regexp] file",
				Help: `Convert all the properties of a workflow document.

The document is a YAML file:

  activities: [seq1, delay1]
  properties:
    - path: seq1.Location
      type: wf:Point
      value: "10, 20"
    - path: delay1.Parent
      type: sys:Object
      value: "{wf:ActivityBind seq1, Path=Children}"

References to activities with {wf:ActivityBind Name[, Path=P]} are
resolved against the document's activities. All conversion errors are
reported, and the command fails if there are any.`,
				SetFlags: command.Flags(flax.MustBind, &checkArgs),
				Run:      command.Adapt(runCheck),
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := root.NewEnv(nil).SetContext(ctx)
	command.RunOrFail(env, os.Args[1:])
}

func runTokenize(env *command.Env, text string) error {
	for _, tok := range attr.Tokenize(text) {
		fmt.Printf("%q\n", tok)
	}
	return nil
}

func runExt(env *command.Env, text string) error {
	ext, ok, err := attr.ParseExtension(text)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("not an extension")
		return nil
	}
	fmt.Printf("%# v\n", pretty.Formatter(ext))
	return nil
}

var decodeArgs struct {
	Type string `flag:"type,default=sys:String,Registered name of the type to decode"`
}

func runDecode(env *command.Env, text string) error {
	h := helpers()
	t, ok := h.Types().Lookup(decodeArgs.Type)
	if !ok {
		return env.Usagef("unknown type %q", decodeArgs.Type)
	}
	v, err := h.Deserialize(env.Context(), t, text)
	if err != nil {
		return err
	}
	fmt.Printf("%# v\n", pretty.Formatter(v))
	return nil
}

var encodeArgs struct {
	Type string `flag:"type,default=wf:Point,Registered name of the type to encode"`
}

func runEncode(env *command.Env) error {
	h := helpers()
	t, ok := h.Types().Lookup(encodeArgs.Type)
	if !ok {
		return env.Usagef("unknown type %q", encodeArgs.Type)
	}
	text, err := compactText(encodeArgs.Type, env.Args)
	if err != nil {
		return err
	}
	v, err := h.Deserialize(env.Context(), t, text)
	if err != nil {
		return fmt.Errorf("constructing %s: %w", encodeArgs.Type, err)
	}
	out, err := h.Serialize(v)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", encodeArgs.Type, err)
	}
	fmt.Println(out)
	return nil
}

func runHandles(env *command.Env, text string) error {
	fmt.Println(markup.Stringify(markup.Unstringify(text)))
	return nil
}

func runTypes(env *command.Env) error {
	h := helpers()
	for _, name := range h.Types().Names() {
		t, _ := h.Types().Lookup(name)
		fmt.Printf("%s\t%s\n", name, t)
	}
	return nil
}

var checkArgs struct {
	Strict bool   `flag:"strict,Stop at the first conversion error"`
	Match  string `flag:"match,Only check properties whose path matches this regexp"`
	YAML   bool   `flag:"yaml,Print the result as a YAML report"`
}

func runCheck(env *command.Env, file string) error {
	doc, err := readDocument(file)
	if err != nil {
		return err
	}
	pf, err := regexp.Compile(checkArgs.Match)
	if err != nil {
		return env.Usagef("invalid --match: %v", err)
	}
	props := slices.Collect(slice.Select(doc.Properties, func(p property) bool {
		return pf.MatchString(p.Path)
	}))

	h := helpers()
	ctx := markup.WithResolver(env.Context(), doc.resolver())

	var (
		out  indenter
		errs markup.ErrorList
	)
	if checkArgs.YAML {
		out.out = io.Discard
	}
	out.v(file)
	out.indent(1)
	for _, p := range props {
		t, ok := h.Types().Lookup(p.Type)
		if !ok {
			errs.Add(atPath(&markup.SerializationError{
				Kind:    markup.NoConverterAvailable,
				Message: fmt.Sprintf("unknown type %q", p.Type),
			}, p.Path))
		} else {
			v, err := h.Deserialize(ctx, t, p.Value)
			if errs.Add(atPath(err, p.Path)) {
				out.f("%s: error", p.Path)
			} else {
				out.f("%s: %# v", p.Path, pretty.Formatter(v))
			}
		}
		if checkArgs.Strict && len(errs) > 0 {
			break
		}
	}
	out.indent(0)
	out.s("")
	out.f("%d properties, %d errors", len(props), len(errs))

	if checkArgs.YAML {
		bs, err := report(props, errs)
		if err != nil {
			return err
		}
		os.Stdout.Write(bs)
	}
	return errs.Err()
}

// compactText returns the compact value that constructs the
// registered type name from args.
func compactText(name string, args []string) (string, error) {
	ext, ok, err := attr.ParseExtension("{" + name + "}")
	if err != nil || !ok {
		return "", fmt.Errorf("invalid type name %q", name)
	}
	for _, arg := range args {
		if n, v, ok := attr.SplitAssignment(arg); ok {
			arg = n + "=" + quoted(v)
		} else {
			arg = quoted(arg)
		}
		ext.Args = append(ext.Args, arg)
	}
	return ext.String(), nil
}

// quoted quotes a command line argument for use in a compact value,
// unless it is itself a compact value.
func quoted(arg string) string {
	if markup.IsCompactFormat(arg) {
		return arg
	}
	return attr.Quote(arg)
}

// atPath returns err with the property path prefixed by path.
func atPath(err error, path string) error {
	var se *markup.SerializationError
	if !errors.As(err, &se) {
		return err
	}
	return se.WithPath(path)
}
