package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/use-agent/bingdict/bing"
	"github.com/use-agent/bingdict/config"
	"github.com/use-agent/bingdict/engine"
)

// CLI flags
var (
	market  = flag.String("market", "zh-cn", "Bing market (mkt parameter)")
	host    = flag.String("host", "www.bing.com", "Bing host serving /dict/search")
	proxy   = flag.String("proxy", "", "HTTP proxy URL")
	timeout = flag.Duration("timeout", 10*time.Second, "Lookup timeout")
	verbose = flag.Bool("v", false, "Log debug output to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: bdict [flags] <word...>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	client := bing.NewClient(engine.NewHTTPEngine(*proxy, *timeout), config.DictionaryConfig{
		Host:    *host,
		Market:  *market,
		Timeout: *timeout,
	})

	query := strings.Join(flag.Args(), " ")
	res, err := client.Translate(context.Background(), query, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bdict: %v\n", err)
		os.Exit(1)
	}
	if res.Paraphrase == nil {
		fmt.Fprintf(os.Stderr, "bdict: no result for %q\n", query)
		os.Exit(1)
	}
	fmt.Println(res.Paraphrase.String())
}
