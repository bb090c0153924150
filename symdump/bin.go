package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ZenLiuCN/fn"
	"github.com/davecgh/go-spew/spew"
	"github.com/jtang613/gopdb/pkg/pdb"
	"github.com/pkujhd/goloader"
	"github.com/urfave/cli/v2"

	"github.com/ZenLiuCN/detour"
	"github.com/ZenLiuCN/detour/loader"
	"github.com/ZenLiuCN/detour/symtab"
)

func main() {
	app := cli.NewApp()
	app.Usage = "debug-symbol table inspector"
	app.Name = "symdump"
	app.Description = "inspect debug-symbol files and resolve function addresses the way the injector does"
	app.Args = true
	app.Commands = []*cli.Command{
		{
			Name:   "info",
			Action: info,
			Usage:  "display container information of a symbol file",
			Args:   true,
		},
		{
			Name:   "symbols",
			Action: symbols,
			Usage:  "list function name to RVA mappings of a symbol file",
			Args:   true,
		},
		{
			Name:   "resolve",
			Action: resolve,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "base",
					Aliases: []string{"b"},
					Value:   "0x140000000",
					Usage:   "module base address to add to each RVA",
				},
			},
			Usage: "compute absolute addresses: resolve -b <base> <file> <name>...",
			Args:  true,
		},
		{
			Name:   "object",
			Action: object,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "pkg",
					Aliases: []string{"p"},
					Usage:   "package path or default main",
				},
				&cli.BoolFlag{
					Name:    "missing",
					Aliases: []string{"m"},
					Usage:   "list only symbols the running process cannot resolve",
				},
			},
			Usage: "display symbols of a Go object plugin",
			Args:  true,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func info(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("required argument: symbol file")
	}
	p, err := pdb.Open(ctx.Args().First())
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(p)
	spew.Dump(p.Info())
	return nil
}

func symbols(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("required argument: symbol file")
	}
	t, err := symtab.Build(ctx.Args().First())
	if err != nil {
		return err
	}
	for _, name := range t.Names() {
		rva, _ := t.RVA(name)
		fmt.Printf("%08x %s\n", rva, name)
	}
	fmt.Printf("%d functions, %d duplicate records overwritten\n", t.Len(), t.Dups())
	return nil
}

func resolve(ctx *cli.Context) error {
	if ctx.Args().Len() < 2 {
		return fmt.Errorf("required arguments: symbol file and at least one name")
	}
	base, err := strconv.ParseUint(ctx.String("base"), 0, 64)
	if err != nil {
		return fmt.Errorf("parse base address: %w", err)
	}
	t, err := symtab.Build(ctx.Args().First())
	if err != nil {
		return err
	}
	cache := detour.FixedCache(t, base)
	for _, name := range ctx.Args().Tail() {
		addr, ok := cache.Get(name)
		if !ok {
			return fmt.Errorf("failed to find %s address", name)
		}
		fmt.Printf("%s address: %#x\n", name, addr)
	}
	return nil
}

func object(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("required argument: object file")
	}
	pkg := ctx.String("pkg")
	if pkg == "" {
		pkg = "main"
	}
	if ctx.Bool("missing") {
		g, err := loader.NewGoObject(pkg)
		if err != nil {
			return err
		}
		missing, err := g.Missing(ctx.Args().First())
		if err != nil {
			return err
		}
		for _, s := range missing {
			fmt.Println(s)
		}
		fmt.Printf("%d unresolved symbols\n", len(missing))
		return nil
	}
	syms, err := goloader.Parse(ctx.Args().First(), pkg)
	if err != nil {
		return err
	}
	for _, s := range syms {
		fmt.Println(s)
	}
	return nil
}
