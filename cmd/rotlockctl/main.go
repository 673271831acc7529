// Command rotlockctl is an illustrative client for package rotlock: a
// small line-oriented REPL that drives an in-process Manager so the
// admission rules can be poked at interactively. It is not part of
// the core library (spec's "example client programs that consume the
// API are illustrative"); a real host would wire rotlock.Manager into
// whatever dispatch mechanism it already has (syscalls, RPC handlers,
// a test harness) instead of a REPL.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dijkstracula/rotlock/rotlock"
)

func main() {
	verbose := flag.BoolP("verbose", "v", false, "log admission engine activity to stderr")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to build logger:", err)
			os.Exit(1)
		}
		logger = l
	}
	defer logger.Sync() //nolint:errcheck

	m := rotlock.New(rotlock.WithLogger(logger))
	owner := rotlock.CurrentProcessID()

	fmt.Println("rotlockctl: orient <degree> | lock <low> <high> read|write | unlock <id> | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if err := dispatch(m, owner, scanner.Text()); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

func dispatch(m *rotlock.Manager, owner rotlock.ProcessId, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "quit", "exit":
		os.Exit(0)
		return nil

	case "orient":
		if len(fields) != 2 {
			return fmt.Errorf("usage: orient <degree>")
		}
		degree, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		if err := m.SetOrientation(degree); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil

	case "lock":
		if len(fields) != 4 {
			return fmt.Errorf("usage: lock <low> <high> read|write")
		}
		low, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		high, err := strconv.Atoi(fields[2])
		if err != nil {
			return err
		}
		var mode rotlock.Mode
		switch fields[3] {
		case "read":
			mode = rotlock.Read
		case "write":
			mode = rotlock.Write
		default:
			return fmt.Errorf("mode must be read or write, got %q", fields[3])
		}
		id, err := m.Lock(context.Background(), owner, low, high, mode)
		if err != nil {
			return err
		}
		fmt.Println("granted id", id)
		return nil

	case "unlock":
		if len(fields) != 2 {
			return fmt.Errorf("usage: unlock <id>")
		}
		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		if err := m.Unlock(owner, rotlock.LockId(n)); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}
