/*
Package arbor is a deferred-construction configuration system. Instead of
calling your constructors directly, you describe the calls as a graph of
nodes, mutate and share that graph freely, and only then build it into the
real objects.

# Concept

Arbor treats configuration as data. A Node records "call this target with
these arguments"; arguments may themselves be nodes, so a whole object tree
is assembled lazily. Because the graph is plain data until built, experiments
can copy a baseline, flip a few fields, diff the two variants, serialize them
and build them independently.

# Key Features

  - Deferred construction: targets are invoked only at build time, with
    memoized sharing (one node, one instance).
  - Tags: name a value once, set it everywhere it appears.
  - Serialization: stable YAML/JSON documents that survive round trips and
    preserve sharing.
  - Tooling: flattened printing, structural diffs, Mermaid rendering, an HTTP
    API and an MCP server over stored graphs.

# Usage

A target is a constructor of the shape func(Args) R, where Args is a struct
whose fields are the parameters, or a struct type itself. Describe the graph
with New, mutate it through Set and selectors, then Build:

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/arbor"
	)

	type Dense struct {
		Units      int
		Activation string
	}

	type DenseArgs struct {
		Units      int
		Activation string `default:"relu"`
	}

	func NewDense(a DenseArgs) *Dense {
		return &Dense{Units: a.Units, Activation: a.Activation}
	}

	func main() {
		cfg, err := arbor.New(NewDense, 16)
		if err != nil {
			log.Fatal(err)
		}

		// Tweak the graph before building.
		if err := cfg.Set("units", 32); err != nil {
			log.Fatal(err)
		}

		out, err := arbor.Build(cfg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(out.(*Dense).Units) // 32
	}
*/
package arbor
