// Command alps-mcp serves ALPS profile tools over the Model Context Protocol
// on stdin/stdout, and offers one-shot subcommands for the same operations.
//
// Usage:
//
//	alps-mcp [serve]              run the MCP server (default)
//	alps-mcp validate <file>      validate a profile, print the report
//	alps-mcp dot [-t] <file>      render a profile to Graphviz DOT
//	alps-mcp guide                print the ALPS best-practices guide
//
// Exit codes for the one-shot commands: 0 on success, 1 on any usage, file,
// validation, or conversion error.
package main

import (
	"fmt"
	"os"

	"github.com/alpsio/alps-mcp/alps"
	"github.com/alpsio/alps-mcp/logx"
	"github.com/alpsio/alps-mcp/server"
)

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe()
	case "validate":
		err = runValidate(args)
	case "dot":
		err = runDot(args)
	case "guide":
		fmt.Println(alps.Guide())
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage(w *os.File) {
	fmt.Fprintln(w, "usage: alps-mcp [serve | validate <file> | dot [-t] <file> | guide]")
}

func runServe() error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}

	logger := logx.NewDiscard()
	if cfg.LogFile != "" {
		fileLogger, err := logx.NewFile(cfg.LogFile)
		if err != nil {
			// A broken log destination must not keep the server down;
			// fall back to the discarding logger it returned.
			fmt.Fprintln(os.Stderr, err)
		}
		logger = fileLogger
	}

	srv := server.New(cfg.ServerName,
		server.WithLogger(logger),
		server.WithInstructions("Tools for validating ALPS profiles and rendering them as application state diagrams."),
	)
	if err := server.RegisterALPSTools(srv); err != nil {
		return err
	}

	return server.ServeStdio(srv,
		server.WithStdioLogger(logger),
		server.WithKeepaliveInterval(cfg.KeepaliveInterval),
	)
}

func runValidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: alps-mcp validate <file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	result := alps.Validate(string(data))
	if !result.Valid {
		return fmt.Errorf("%s", result.Message)
	}
	fmt.Printf("%s\nDescriptors: %d\nLinks: %d\n", result.Message, result.Descriptors, result.Links)
	return nil
}

func runDot(args []string) error {
	useTitle := false
	var file string
	for _, arg := range args {
		switch arg {
		case "-t", "--use-title":
			useTitle = true
		default:
			if file != "" {
				return fmt.Errorf("usage: alps-mcp dot [-t] <file>")
			}
			file = arg
		}
	}
	if file == "" {
		return fmt.Errorf("usage: alps-mcp dot [-t] <file>")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	doc, err := alps.RenderDot(string(data), useTitle)
	if err != nil {
		return err
	}
	fmt.Print(doc)
	return nil
}
