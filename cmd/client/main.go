// Command client is an interactive REPL for exercising a running ring's
// PUT/GET operations from outside the cluster.
package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/peterh/liner"

	"chorddht/internal/client"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "address of any node in the ring (entry point)")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	cl := client.New(*timeout)
	currentAddr := *addr
	fmt.Printf("chorddht interactive client. Entry point %s\n", currentAddr)
	fmt.Println("Available commands: put/get/use/exit")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt(fmt.Sprintf("chorddht[%s]> ", currentAddr))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println("Aborted")
				continue
			}
			break
		}
		line.AppendHistory(input)

		args := strings.Fields(strings.TrimSpace(input))
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "put":
			if len(args) < 3 {
				fmt.Println("Usage: put <key> <value>")
				continue
			}
			start := time.Now()
			err := cl.Put(currentAddr, args[1], args[2])
			if err != nil {
				fmt.Printf("put failed (%v) | latency=%s\n", err, time.Since(start))
				continue
			}
			fmt.Printf("put succeeded (key=%s value=%s) | latency=%s\n", args[1], args[2], time.Since(start))

		case "get":
			if len(args) < 2 {
				fmt.Println("Usage: get <key>")
				continue
			}
			start := time.Now()
			val, found, err := cl.Get(currentAddr, args[1])
			if err != nil {
				fmt.Printf("get failed: %v | latency=%s\n", err, time.Since(start))
				continue
			}
			if !found {
				fmt.Printf("key not found: %s | latency=%s\n", args[1], time.Since(start))
				continue
			}
			fmt.Printf("get succeeded (key=%s value=%s) | latency=%s\n", args[1], val, time.Since(start))

		case "use":
			if len(args) < 2 {
				fmt.Println("Usage: use <addr>")
				continue
			}
			currentAddr = args[1]
			fmt.Printf("switched entry point to %s\n", currentAddr)

		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Printf("unknown command: %s\n", args[0])
		}
	}
}
