package main

import (
	"fmt"
	"os/exec"
	"strings"
)

// runDoctor checks the Java toolchain and returns an exit code.
func runDoctor() int {
	fmt.Println("Klar Toolchain Doctor")
	fmt.Println("=====================")
	fmt.Println()

	allOk := true
	for _, tool := range []struct {
		name string
		args []string
	}{
		{"java", []string{"--version"}},
		{"javac", []string{"-version"}},
	} {
		version, ok := checkTool(tool.name, tool.args...)
		fmt.Printf("%-7s %s", tool.name+":", version)
		if ok {
			fmt.Println(" ✓")
		} else {
			fmt.Println(" ✗ (not found)")
			allOk = false
		}
	}

	fmt.Println()
	if allOk {
		fmt.Println("All required tools available!")
		return 0
	}
	fmt.Println("Some required tools are missing.")
	fmt.Println("Install a JDK (17 or newer) and make sure java and javac are on PATH.")
	return 1
}

// checkTool runs a tool with the given arguments and returns the first line
// of its output. Older javac releases print their version on stderr.
func checkTool(name string, args ...string) (string, bool) {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return "", false
	}
	line, _, _ := strings.Cut(string(out), "\n")
	line = strings.TrimSpace(line)
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line, true
}
