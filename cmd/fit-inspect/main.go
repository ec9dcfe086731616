package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/muktihari/fit/decoder"

	"github.com/ripixel/fitglue-importer/pkg/domain/file_generators"
)

func main() {
	inputPath := flag.String("input", "", "Path to FIT workout file")
	verbose := flag.Bool("detailed-dump", false, "Print every message field")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Please provide input file with -input")
		os.Exit(1)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		fmt.Printf("Failed to read file: %v\n", err)
		os.Exit(1)
	}

	summary, err := file_generators.DecodeWorkoutFile(data)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Printf("Workout: %s (%s)\n", summary.Name, summary.Sport)
	fmt.Printf("Steps:   %d\n\n", len(summary.Steps))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tExercise\tCategory\tReps\tNotes")
	fmt.Fprintln(w, "-\t--------\t--------\t----\t-----")
	for i, s := range summary.Steps {
		reps := "open"
		if s.Reps > 0 {
			reps = fmt.Sprint(s.Reps)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, s.Name, s.Category, reps, s.Notes)
	}
	w.Flush()

	if !*verbose {
		return
	}

	fitData, err := decoder.New(bytes.NewReader(data)).Decode()
	if err != nil {
		fmt.Printf("Failed to decode FIT file: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	for i, msg := range fitData.Messages {
		for _, field := range msg.Fields {
			fmt.Printf("Message %d (%s): %q (Num: %d) = %v\n", i, msg.Num, field.Name, field.Num, field.Value)
		}
	}
}
