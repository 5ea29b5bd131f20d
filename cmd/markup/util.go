package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// indenter writes lines to an output, prefixed with the current
// indentation.
type indenter struct {
	out     io.Writer // nil means os.Stdout
	prefix  string
	midLine bool
}

func (i *indenter) v(v any) {
	fmt.Fprintf(i, "%v\n", v)
}

func (i *indenter) s(msg string) {
	io.WriteString(i, msg+"\n")
}

func (i *indenter) f(msg string, args ...any) {
	fmt.Fprintf(i, msg+"\n", args...)
}

func (i *indenter) Write(bs []byte) (int, error) {
	out := i.out
	if out == nil {
		out = os.Stdout
	}
	ret := 0
	for len(bs) > 0 {
		if !i.midLine {
			if _, err := io.WriteString(out, i.prefix); err != nil {
				return ret, err
			}
		}

		wr := bs
		if idx := bytes.IndexByte(bs, '\n'); idx >= 0 {
			wr, bs = bs[:idx+1], bs[idx+1:]
			i.midLine = false
		} else {
			bs = nil
			i.midLine = true
		}

		n, err := out.Write(wr)
		ret += n
		if err != nil {
			return ret, err
		}
	}
	return ret, nil
}

func (i *indenter) indent(n int) {
	i.prefix = strings.Repeat("  ", n)
}
