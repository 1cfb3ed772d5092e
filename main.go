//go:build !desktop

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
)

func main() {
	project := flag.String("project", "", "project YAML file (required)")
	bind := flag.String("bind", "", "preview bindings for a reference edge, e.g. top.x")
	set := flag.String("set", "", "set a variable and resize its edges, e.g. inner=#W-40")
	eval := flag.String("eval", "", "evaluate an expression against the project")
	normalize := flag.Bool("normalize", false, "snap near-full-size boards to the enclosing size")
	out := flag.String("o", "", "write the resulting project to this file")
	asJSON := flag.Bool("json", false, "print the project state as JSON")
	flag.Parse()

	if *project == "" {
		fmt.Fprintln(os.Stderr, "usage: carcass -project FILE [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	app := NewApp()
	state := app.LoadProject(*project)
	if len(state.Boards) == 0 {
		fatalErrors(state.Errors)
	}

	if *bind != "" {
		board, axis, ok := strings.Cut(*bind, ".")
		if !ok {
			log.Fatalf("-bind %q: expected BOARD.AXIS", *bind)
		}
		res := app.BindEdge(board, axis)
		fatalErrors(res.Errors)
		for _, b := range res.Bindings {
			fmt.Printf("%s.%s\t%g\n", b.MeshName, b.Axis, b.InitialValue)
		}
	}

	if *set != "" {
		name, value, ok := strings.Cut(*set, "=")
		if !ok {
			log.Fatalf("-set %q: expected NAME=EXPR", *set)
		}
		state = app.SetVariable(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if *normalize {
		state = app.Normalize()
	}

	if *eval != "" {
		res := app.Evaluate(*eval)
		fatalErrors(res.Errors)
		fmt.Printf("%s = %g\n", *eval, res.Value)
	}

	if *out != "" {
		if err := app.SaveProject(*out); err != nil {
			log.Fatalf("save: %v", err)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}
	printState(state)
}

func fatalErrors(errs []EvalErrorData) {
	if len(errs) == 0 {
		return
	}
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Message)
	}
	os.Exit(1)
}

func printState(state ProjectState) {
	for _, w := range state.Warnings {
		fmt.Fprintln(os.Stderr, w.Message)
	}
	for _, e := range state.Errors {
		fmt.Fprintln(os.Stderr, e.Message)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BOARD\tSCALE X\tSCALE Y\tSCALE Z\tPOS X\tPOS Y\tPOS Z")
	for _, b := range state.Boards {
		f := b.Formula
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Name, f.Scale.X, f.Scale.Y, f.Scale.Z, f.Position.X, f.Position.Y, f.Position.Z)
	}
	tw.Flush()

	if len(state.Variables) > 0 {
		fmt.Println()
		tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VARIABLE\tVALUE\tEDGES")
		for _, v := range state.Variables {
			edges := make([]string, len(v.Bindings))
			for i, b := range v.Bindings {
				edges[i] = b.Edge().String()
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Name, v.Value, strings.Join(edges, " "))
		}
		tw.Flush()
	}

	for _, c := range state.Conflicts {
		fmt.Printf("conflict: %s driven by %s\n", c.Edge, strings.Join(c.Variables, ", "))
	}
}
