// Command tsls-bridge runs the TypeScript/JavaScript analyzer bridge
// language server. Stdio is the default transport; -listen switches to
// a WebSocket listener for editing clients that connect over a network.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple" // required backend for glsp

	"github.com/kelsorion/tsls-bridge/internal/langserver"
	"github.com/kelsorion/tsls-bridge/internal/transport"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "tsls-bridge: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("tsls-bridge", flag.ContinueOnError)

	var (
		verbosity = fs.Int("verbosity", 1, "log verbosity (0=errors only, higher is noisier)")
		logFile   = fs.String("log-file", "", "log file path (empty logs to stderr)")
		listen    = fs.String("listen", "", "run over WebSocket at this address instead of stdio, e.g. :7777")
		showVer   = fs.Bool("version", false, "print version and exit")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVer {
		fmt.Printf("tsls-bridge %s\n", version)
		return nil
	}

	var logPath *string
	if *logFile != "" {
		logPath = logFile
	}
	commonlog.Configure(*verbosity, logPath)
	log := commonlog.GetLogger("tsls-bridge")

	langServer := langserver.NewServer(log)
	handler := langServer.Handler()
	t := transport.New(&handler, "tsls-bridge", *verbosity >= 2)

	if *listen != "" {
		return t.RunWebSocket(*listen)
	}
	return t.RunStdio()
}
