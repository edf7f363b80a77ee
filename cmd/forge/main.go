// Command forge drives the asset pipeline from the shell: list generators,
// print templates, export artifacts to a directory and print assembly trees.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"assetforge/internal/export"
	"assetforge/internal/forge"
	artifactrepo "assetforge/internal/gateway/repository/artifact"
	"assetforge/internal/generators"
	"assetforge/internal/param"
	"assetforge/internal/scene"
)

var errUsage = errors.New("usage: forge <list|template|export|assemble> [flags]")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, errUsage)
		os.Exit(2)
	}
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	category := fs.String("category", "", "filter by category (list)")
	id := fs.String("id", "", "generator id")
	cfgJSON := fs.String("config", "{}", "generator config as JSON")
	outDir := fs.String("out", "exports", "export directory (export)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := forge.Options{Sources: generators.Builtin(), Scene: scene.NewGraph()}
	// Only export touches the disk.
	var store *artifactrepo.DirStore
	if cmd == "export" {
		var err error
		if store, err = artifactrepo.NewDirStore(*outDir); err != nil {
			return err
		}
		if opts.Exporter, err = export.New(store, 0); err != nil {
			return err
		}
	}
	svc := forge.New(opts)
	if err := svc.Init(); err != nil {
		return err
	}

	switch cmd {
	case "list":
		for _, d := range svc.ListGenerators(*category) {
			fmt.Fprintf(out, "%-34s %-14s %s\n", d.ID, d.Category, d.Description)
		}
		return nil
	case "template":
		if err := requireID(*id); err != nil {
			return err
		}
		tmpl, err := svc.GetTemplate(*id)
		if err != nil {
			return err
		}
		return writeJSON(out, tmpl)
	case "export":
		if err := requireID(*id); err != nil {
			return err
		}
		raw, err := parseConfig(*cfgJSON)
		if err != nil {
			return err
		}
		ref, err := svc.Export(ctx, *id, raw)
		if err != nil {
			return err
		}
		log.Printf("exported %s to %s", ref.Key, store.Root())
		return writeJSON(out, ref)
	case "assemble":
		if err := requireID(*id); err != nil {
			return err
		}
		raw, err := parseConfig(*cfgJSON)
		if err != nil {
			return err
		}
		inst, err := svc.Assemble(ctx, *id, raw)
		if err != nil {
			return err
		}
		writeTree(out, opts.Scene.(*scene.Graph), inst.Root.ID(), 0)
		log.Printf("%d nodes, %d generations", len(inst.Children), svc.Metrics().Artifacts.Generations)
		return nil
	default:
		return errUsage
	}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("--id is required")
	}
	return nil
}

func parseConfig(s string) (param.Raw, error) {
	var raw param.Raw
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid --config: %w", err)
	}
	return raw, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTree(w io.Writer, g *scene.Graph, id string, depth int) {
	n, ok := g.Node(id)
	if !ok {
		return
	}
	label := n.Name
	switch {
	case n.Mesh != nil:
		label += fmt.Sprintf(" mesh(%d tris)", len(n.Mesh.Triangles))
	case n.Model != "":
		label += " " + n.Model
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label)
	for _, child := range g.Children(id) {
		writeTree(w, g, child, depth+1)
	}
}
