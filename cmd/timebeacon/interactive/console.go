// Package interactive provides the interactive command-line interface
// for the timebeacon device.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/timebeacon/timebeacon-go/pkg/device"
)

// Console handles interactive mode for timebeacon.
type Console struct {
	svc *device.DeviceService
	rl  *readline.Instance
}

// New creates a new interactive console.
func New(svc *device.DeviceService) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "beacon> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := &Console{
		svc: svc,
		rl:  rl,
	}

	// Display conflicts and re-announcements as they happen.
	svc.OnEvent(c.handleEvent)

	return c, nil
}

// Stdout returns a writer that properly coordinates with the readline
// input. Use this for log output to avoid interfering with the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "status", "s":
			c.cmdStatus()

		case "name", "n":
			c.cmdName()

		case "time", "t":
			c.cmdTime()

		case "announce", "a":
			c.cmdAnnounce()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Time Beacon Commands:
  status    - Show device status
  name      - Show the negotiated instance name
  time      - Show the current clock value
  announce  - Re-announce the service with a fresh clock value

  help      - Show this help
  quit      - Exit beacon`)
}

// cmdStatus shows the device status.
func (c *Console) cmdStatus() {
	fmt.Fprintln(c.rl.Stdout(), "\nDevice Status")
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(c.rl.Stdout(), "  Run ID:         %s\n", c.svc.RunID())
	fmt.Fprintf(c.rl.Stdout(), "  Service State:  %s\n", c.svc.State())
	fmt.Fprintf(c.rl.Stdout(), "  Instance Name:  %s\n", nameOrPending(c.svc.Name()))
	if ip := c.svc.IP(); ip != nil {
		fmt.Fprintf(c.rl.Stdout(), "  Address:        %s\n", ip)
	}

	ts := c.svc.TimeStatus()
	fmt.Fprintf(c.rl.Stdout(), "  Clock Phase:    %s\n", ts.Phase)
	fmt.Fprintf(c.rl.Stdout(), "  Clock Offset:   %v\n", ts.Offset)
	if !ts.SyncedAt.IsZero() {
		fmt.Fprintf(c.rl.Stdout(), "  Last Sync:      %s\n", ts.SyncedAt.Format("15:04:05"))
	}
	fmt.Fprintln(c.rl.Stdout())
}

// cmdName shows the negotiated instance name.
func (c *Console) cmdName() {
	fmt.Fprintf(c.rl.Stdout(), "%s\n", nameOrPending(c.svc.Name()))
}

// cmdTime shows the current clock value.
func (c *Console) cmdTime() {
	fmt.Fprintf(c.rl.Stdout(), "%s\n", c.svc.Timestamp())
}

// cmdAnnounce re-announces the service.
func (c *Console) cmdAnnounce() {
	if err := c.svc.Announce(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Announce failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "OK")
}

// handleEvent displays service events without disturbing the prompt.
func (c *Console) handleEvent(event device.Event) {
	stamp := time.Now().Format("15:04:05")

	switch event.Type {
	case device.EventNameConflict:
		fmt.Fprintf(c.rl.Stdout(), "\n[%s] Name conflict: %s is taken\n", stamp, event.Name)
	case device.EventNameConfirmed:
		fmt.Fprintf(c.rl.Stdout(), "\n[%s] Name confirmed: %s\n", stamp, event.Name)
	case device.EventAnnounce:
		fmt.Fprintf(c.rl.Stdout(), "\n[%s] Announced %s (time: %s)\n", stamp, event.Name, event.Detail)
	default:
		return
	}
	c.rl.Refresh()
}

func nameOrPending(name string) string {
	if name == "" {
		return "(negotiating)"
	}
	return name
}
