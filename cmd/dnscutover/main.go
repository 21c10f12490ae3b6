package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	utillog "github.com/Azure/dns-cutover-poc/pkg/util/log"
)

var (
	gitCommit = "unknown"

	force = flag.Bool("force", false, "skip interactive confirmation for destructive operations")
)

func usage() {
	fmt.Fprint(flag.CommandLine.Output(), "usage:\n")
	fmt.Fprintf(flag.CommandLine.Output(), "       %s plan\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "       %s deploy [zone]\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "       %s verify [zone]\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "       %s rollback {zone}\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "       %s teardown\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	ctx := context.Background()
	log := utillog.GetLogger()

	log.Printf("starting, git commit %s", gitCommit)

	var err error
	switch strings.ToLower(flag.Arg(0)) {
	case "plan":
		checkArgs(1)
		err = plan(ctx, log)
	case "deploy":
		checkMinArgs(1)
		err = deploy(ctx, log, flag.Arg(1))
	case "verify":
		checkMinArgs(1)
		err = runVerify(ctx, log, flag.Arg(1))
	case "rollback":
		checkArgs(2)
		err = rollback(ctx, log, flag.Arg(1))
	case "teardown":
		checkArgs(1)
		err = teardown(ctx, log)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func checkArgs(required int) {
	if len(flag.Args()) != required {
		usage()
		os.Exit(2)
	}
}

func checkMinArgs(required int) {
	if len(flag.Args()) < required {
		usage()
		os.Exit(2)
	}
}
