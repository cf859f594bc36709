// rigtool is a CLI utility for working with rig and clip documents.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/rigcore/internal/assets"
	"github.com/Faultbox/rigcore/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "bones":
		cmdBones(args)
	case "clips":
		cmdClips(args)
	case "validate", "check":
		cmdValidate(args)
	case "pack":
		cmdPack(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rigtool - rig and clip document utility

Usage:
  rigtool <command> [options]

Commands:
  info <file>              Show document summary
  bones <file.rig>         Print the bone hierarchy
  clips <file.clip>        Print per-track keyframe counts
  validate <file>          Parse and validate a rig or clip document
  pack [-d] <in> <out>     Gzip a document (-d to decompress)

Examples:
  rigtool info hero.rig.yaml
  rigtool bones hero.rig.yaml
  rigtool clips wave.clip.yaml
  rigtool validate wave.clip.json
  rigtool pack hero.rig.yaml hero.rig.gz`)
}

// parseAny tries the rig parser first and falls back to the clip
// parser, returning whichever succeeds.
func parseAny(data []byte) (*formats.RigDoc, *formats.ClipDoc, error) {
	rigDoc, rigErr := formats.ParseRig(data)
	if rigErr == nil {
		return rigDoc, nil, nil
	}
	clipDoc, clipErr := formats.ParseClip(data)
	if clipErr == nil {
		return nil, clipDoc, nil
	}
	return nil, nil, fmt.Errorf("not a rig (%v) or clip (%v)", rigErr, clipErr)
}

func readDocument(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return data
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rigtool info <file>")
		os.Exit(1)
	}
	data := readDocument(args[0])
	rigDoc, clipDoc, err := parseAny(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:    %s\n", args[0])
	switch {
	case rigDoc != nil:
		fmt.Printf("Type:    rig (version %d)\n", rigDoc.Version)
		fmt.Printf("Name:    %s\n", rigDoc.Name)
		fmt.Printf("Bones:   %d\n", len(rigDoc.Bones))
		if rigDoc.Mesh != nil {
			fmt.Printf("Mesh:    %d vertices, %d triangles\n",
				len(rigDoc.Mesh.Vertices), len(rigDoc.Mesh.Triangles)/3)
		} else {
			fmt.Println("Mesh:    none")
		}
	case clipDoc != nil:
		fmt.Printf("Type:    clip (version %d)\n", clipDoc.Version)
		fmt.Printf("Name:    %s\n", clipDoc.Name)
		fmt.Printf("Length:  %.3fs (loop: %v)\n", clipDoc.Duration, clipDoc.Loop)
		fmt.Printf("Tracks:  %d\n", len(clipDoc.Tracks))
		keys := 0
		for _, tr := range clipDoc.Tracks {
			keys += len(tr.Position) + len(tr.Rotation) + len(tr.Scale)
		}
		fmt.Printf("Keys:    %d\n", keys)
	}
}

func cmdBones(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rigtool bones <file.rig>")
		os.Exit(1)
	}
	data := readDocument(args[0])
	doc, err := formats.ParseRig(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	skel, err := assets.BuildSkeleton(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var walk func(idx, depth int)
	walk = func(idx, depth int) {
		b := skel.Bone(idx)
		fmt.Printf("%s%s  (%.1f, %.1f) len=%.1f\n",
			strings.Repeat("  ", depth), b.Name, b.Position.X, b.Position.Y, b.Length)
		for _, child := range b.Children {
			walk(child, depth+1)
		}
	}
	walk(skel.Root(), 0)
}

func cmdClips(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rigtool clips <file.clip>")
		os.Exit(1)
	}
	data := readDocument(args[0])
	doc, err := formats.ParseClip(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clip %q  %.3fs  loop=%v\n", doc.Name, doc.Duration, doc.Loop)
	for _, tr := range doc.Tracks {
		fmt.Printf("  %-20s pos=%-3d rot=%-3d scale=%d\n",
			tr.Bone, len(tr.Position), len(tr.Rotation), len(tr.Scale))
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rigtool validate <file>")
		os.Exit(1)
	}
	data := readDocument(args[0])
	rigDoc, clipDoc, err := parseAny(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
		os.Exit(1)
	}
	if rigDoc != nil {
		// A structurally valid rig must also build.
		if _, err := assets.BuildSkeleton(rigDoc); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK: rig %q, %d bones\n", rigDoc.Name, len(rigDoc.Bones))
		return
	}
	fmt.Printf("OK: clip %q, %d tracks\n", clipDoc.Name, len(clipDoc.Tracks))
}

func cmdPack(args []string) {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	decompressFlag := fs.Bool("d", false, "Decompress instead of compress")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: rigtool pack [-d] <in> <out>")
		os.Exit(1)
	}
	data := readDocument(fs.Arg(0))
	rigDoc, clipDoc, err := parseAny(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var out []byte
	switch {
	case rigDoc != nil:
		out, err = formats.EncodeRig(rigDoc, !*decompressFlag)
	case clipDoc != nil:
		out, err = formats.EncodeClip(clipDoc, !*decompressFlag)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(fs.Arg(1), out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", fs.Arg(1), len(out))
}
