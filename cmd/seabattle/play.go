package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"seabattle/internal/netx"
	"seabattle/internal/protocol"
)

func playCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a game from the terminal",
		Long: `Join a game from the terminal.

The address is a WebSocket URL (ws://host:1234/ws) or a host:port of the
server's raw TCP listener.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dialServer(cmd.Context(), addr)
			if err != nil {
				return err
			}
			defer conn.Close()
			return play(cmd.Context(), conn, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&addr, "server", "s", "ws://localhost:1234/ws", "server address")
	return cmd
}

func dialServer(ctx context.Context, addr string) (netx.Conn, error) {
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return netx.DialWebSocket(ctx, addr)
	}
	return netx.DialTCP(ctx, addr)
}

// play runs the interactive loop until the session ends, the user quits or
// the connection drops.
func play(ctx context.Context, conn netx.Conn, in io.Reader, out io.Writer) error {
	c := newClient(out)
	if err := conn.Send(protocol.Envelope{Type: protocol.EvReady}); err != nil {
		return fmt.Errorf("send ready: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		for {
			env, err := conn.Recv()
			if err != nil {
				if netx.IsNormalClose(err) {
					err = nil
				}
				done <- err
				return
			}
			finished, err := c.handle(env)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
			}
			if finished {
				done <- nil
				return
			}
		}
	}()

	lines := make(chan string)
	go func() {
		s := bufio.NewScanner(in)
		for s.Scan() {
			lines <- s.Text()
		}
		close(lines)
	}()

	fmt.Fprintln(out, "connected; type 'help' for commands")
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-done:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			args := strings.Fields(line)
			if len(args) == 0 {
				continue
			}
			switch strings.ToLower(args[0]) {
			case "help":
				printHelp(out)
			case "board":
				c.show()
			case "attack", "fire":
				target, err := parseTarget(args[1:])
				if err != nil {
					fmt.Fprintln(out, "error:", err)
					break
				}
				if !c.myTurn() {
					fmt.Fprintln(out, "not your turn")
					break
				}
				env := protocol.MustEnvelope(protocol.EvAttackRequest, protocol.AttackRequest{X: target.X, Y: target.Y})
				if err := conn.Send(env); err != nil {
					if errors.Is(err, netx.ErrClosed) {
						return nil
					}
					return fmt.Errorf("send attack: %w", err)
				}
			case "quit", "exit":
				fmt.Fprintln(out, "bye")
				return nil
			default:
				fmt.Fprintln(out, "unknown command; type 'help'")
			}
		}
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `commands:
  attack <x> <y>   fire at a cell, zero-based column and row
  fire <cell>      fire at a named cell, e.g. B7
  board            show both boards
  quit`)
}
