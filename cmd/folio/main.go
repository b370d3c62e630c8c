package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kush-Singh-26/folio/builder/run"
	"github.com/Kush-Singh-26/folio/internal/clean"
	"github.com/Kush-Singh-26/folio/internal/new"
	"github.com/Kush-Singh-26/folio/internal/scaffold"
	"github.com/Kush-Singh-26/folio/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "build":
		err = run.Run(ctx, args)
	case "serve":
		err = server.Run(ctx, args)
	case "init":
		err = scaffold.Run()
	case "new":
		err = new.Run(args)
	case "clean":
		err = clean.Run(args)
	case "cache":
		err = handleCacheCommand(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: folio <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  init           Create a starter project in the current directory")
	fmt.Println("  build          Build the site into the output directory")
	fmt.Println("  serve          Build, serve and rebuild on changes")
	fmt.Println("  new <title>    Create a new dated blog post")
	fmt.Println("  clean          Remove the output directory (-cache: also the cache)")
	fmt.Println("  cache <cmd>    Inspect or clear the math cache (stats, clear)")
	fmt.Println("  help           Show this help message")
	fmt.Println("\nFlags for build and serve:")
	fmt.Println("  -config <path> Build config file (default folio.yaml)")
	fmt.Println("  -baseurl <url> Override the site's base URL")
	fmt.Println("  -content <dir> Content directory")
	fmt.Println("  -output <dir>  Output directory")
	fmt.Println("  -katex <path>  katex.min.js for server-side math")
	fmt.Println("  -compress      Convert images to webp")
	fmt.Println("  -no-cache      Disable the math cache")
	fmt.Println("  -verbose       Debug logging")
	fmt.Println("  -host, -port   Dev server address (serve)")
}
