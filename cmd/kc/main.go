// Command kc is the Klar compiler driver. It lexes, parses, checks and
// translates Klar programs to Java, and can compile and run the result
// with the installed JDK.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
)

// Version is the kc release.
const Version = "0.1.0-dev"

func main() {
	log.SetFlags(0)
	log.SetPrefix("kc: ")
	os.Exit(run(os.Args[1:]))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "lex":
		return cmdLex(rest)
	case "parse":
		return cmdParse(rest)
	case "check":
		return cmdCheck(rest)
	case "build":
		return cmdBuild(rest)
	case "run":
		return cmdRun(rest)
	case "clean":
		return cmdClean(rest)
	case "shell":
		return cmdShell(rest)
	case "doctor":
		return runDoctor()
	case "version":
		fmt.Printf("kc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		return 0
	case "help", "-h", "-help", "--help":
		usage()
		return 0
	}
	fmt.Fprintf(os.Stderr, "kc: unknown command %q\n", cmd)
	usage()
	return 2
}

func usage() {
	fmt.Fprintf(os.Stderr, `Klar Compiler %s

Usage:
  kc lex [options] <file.kl>              Print the token stream
  kc parse [-json] [options] <file.kl>    Print the syntax tree
  kc check [-verify] [options] <file.kl>...
                                          Type-check and translate without writing output
  kc build [options] <file.kl>...         Translate to Java and compile with javac
  kc run [options] <file.kl>              Build and run a program
  kc clean [-o dir]                       Remove the output directory
  kc shell [options]                      Interactive Klar shell
  kc doctor                               Check the Java toolchain
  kc version                              Print version information

Source files must end in .kl or .klar. Output goes to $KLAR_OUT or ./out.
Run "kc <command> -h" for the options of a command.
`, Version)
}
