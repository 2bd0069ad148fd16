package arbor_test

import (
	"fmt"
	"log"

	"github.com/aretw0/arbor"
)

type optimizer struct {
	LearningRate float64
	Momentum     float64
}

type optimizerArgs struct {
	LearningRate float64 `arbor:"learning_rate"`
	Momentum     float64 `default:"0.9"`
}

func newOptimizer(a optimizerArgs) *optimizer {
	return &optimizer{LearningRate: a.LearningRate, Momentum: a.Momentum}
}

type dense struct {
	Units      int
	Activation string
}

type denseArgs struct {
	Units      int
	Activation string `default:"relu"`
}

func newDense(a denseArgs) *dense {
	return &dense{Units: a.Units, Activation: a.Activation}
}

type model struct {
	Head *dense
	Opt  *optimizer
}

type modelArgs struct {
	Head *dense
	Opt  *optimizer
}

func newModel(a modelArgs) *model {
	return &model{Head: a.Head, Opt: a.Opt}
}

func Example() {
	head, err := arbor.New(newDense, 16)
	if err != nil {
		log.Fatal(err)
	}
	opt, err := arbor.New(newOptimizer, 0.1)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := arbor.New(newModel, head, opt)
	if err != nil {
		log.Fatal(err)
	}

	// Configuration stays mutable until built.
	if err := head.Set("units", 32); err != nil {
		log.Fatal(err)
	}

	out, err := arbor.Build(cfg)
	if err != nil {
		log.Fatal(err)
	}
	m := out.(*model)
	fmt.Println(m.Head.Units, m.Head.Activation, m.Opt.LearningRate)
	// Output: 32 relu 0.1
}

func ExampleSelect() {
	small, _ := arbor.New(newDense, 16)
	big, _ := arbor.New(newDense, 64, "gelu")
	root, _ := arbor.New(newModel, small)
	_ = root.Set("opt", big)

	for n := range arbor.Select(root, newDense).Nodes() {
		units, _ := n.Get("units")
		fmt.Println(units)
	}
	// Output:
	// 16
	// 64
}

func ExampleTagged() {
	activation := arbor.NewTag("activation", "Activation function name.")

	cfg, _ := arbor.New(newDense, 16, arbor.TaggedWithDefault("relu", activation))

	if err := arbor.SelectTag(cfg, activation).Set(map[string]any{"value": "tanh"}); err != nil {
		log.Fatal(err)
	}

	out, _ := arbor.Build(cfg)
	fmt.Println(out.(*dense).Activation)
	// Output: tanh
}
