// Command neontime shows the database time served by the server on a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"neon-time/backend/internal/view"
)

func main() {
	url := flag.String("url", "http://localhost:8080/api/neon", "time endpoint")
	timeout := flag.Duration("timeout", 30*time.Second, "give up waiting after this long")
	flag.Parse()

	d := view.New(*url, func(text string) {
		fmt.Printf("Database time: %s\n", text)
	})
	d.Client = &http.Client{Timeout: *timeout}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	d.Show(ctx)
	if err := d.Wait(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "neontime:", err)
		os.Exit(1)
	}
}
