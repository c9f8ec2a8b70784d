package main

import (
	"flag"
	"fmt"
	"os"

	"scene-rasterizer/internal/imageio"
	"scene-rasterizer/internal/imgdiff"
)

func main() {
	diffOut := flag.String("diff", "", "Write the absolute RGB difference image here")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-diff out.png] <image1> <image2>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	a, err := imageio.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	b, err := imageio.Load(flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rep, err := imgdiff.Compare(a, b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, d := range rep.Samples {
		fmt.Printf("Diff at %s\n", d)
	}
	fmt.Printf("\nTotal differences: %d out of %d pixels (%.2f%%)\n", rep.Differing, rep.Total(), rep.Percent())

	if *diffOut != "" {
		img, err := imgdiff.DiffImage(a, b)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := imageio.Save(*diffOut, img); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved difference image to %s\n", *diffOut)
	}

	if !rep.Identical() {
		os.Exit(1)
	}
}
