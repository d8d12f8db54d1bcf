package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/websocket"
)

// Interactive client for the relay's websocket endpoint. Stdin lines go up as
// text frames; received payloads are printed verbatim, so the server's
// "Enter a command: " prompt stays on the open line.
func main() {
	if err := run(); err != nil {
		log.Printf("client: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	go func() {
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
					log.Printf("read: %v", err)
				}
				cancel()
				return
			}
			fmt.Print(string(data))
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		if err := conn.Write(ctx, websocket.MessageText, scanner.Bytes()); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			return fmt.Errorf("write: %w", err)
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stdin: %w", err)
	}
	return nil
}
