package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/authmobile/authserver/internal/authctl"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: authctl [-s server] register|login|me <token>\n")
	os.Exit(2)
}

func main() {

	server := flag.String("s", "http://localhost:8080", "server base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}

	app := authctl.NewApp(authctl.NewClient(*server), bufio.NewReader(os.Stdin), os.Stdout)
	ctx := context.Background()

	var err error
	switch flag.Arg(0) {
	case "register":
		err = app.Register(ctx)
	case "login":
		err = app.Login(ctx)
	case "me":
		if flag.NArg() < 2 {
			usage()
		}
		err = app.Me(ctx, flag.Arg(1))
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
