// Command mdns-browse discovers services on the local network by sending
// the DNS-SD service-enumeration query and printing whatever responds
// within a fixed collection window.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cybergarage/go-mdns/client"
	"github.com/cybergarage/go-mdns/query"
)

const collectWindow = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := client.New(client.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdns-browse: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), collectWindow)
	defer cancel()

	if err := c.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mdns-browse: %v\n", err)
		return 1
	}
	defer func() { _ = c.Stop() }()

	if err := c.Search(ctx, query.ServiceEnumeration); err != nil {
		fmt.Fprintf(os.Stderr, "mdns-browse: %v\n", err)
		return 1
	}

	<-ctx.Done()

	if err := c.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "mdns-browse: %v\n", err)
		return 1
	}

	for _, svc := range c.Services() {
		fmt.Printf("%s.%s\thost=%s\tport=%d\taddrs=%v\tattrs=%v\n",
			svc.Name, svc.Domain, svc.Host, svc.Port, svc.IPAddrs, svc.Attrs)
	}

	return 0
}
