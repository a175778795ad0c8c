// Command voik is a minimal example of wiring up a commit log: it appends
// every line read from stdin and prints back the global position each
// line was assigned to, then replays the whole log. It exists to give the
// module a runnable entrypoint; real CLI parsing, config loading, and
// networking live in layers this package doesn't attempt to be.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	voiklog "github.com/marceloboeira/voik/internal/log"
)

func main() {
	dir := flag.String("dir", "", "directory to store the commit log segments in")
	maxStoreBytes := flag.Uint64("max-store-bytes", 1024*1024, "maximum size in bytes of a segment's log file")
	maxIndexBytes := flag.Uint64("max-index-bytes", 20*1024, "maximum size in bytes of a segment's index file")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: voik -dir <path> [-max-store-bytes N] [-max-index-bytes N]")
		os.Exit(2)
	}

	var config voiklog.Config
	config.Segment.MaxStoreBytes = *maxStoreBytes
	config.Segment.MaxIndexBytes = *maxIndexBytes

	commitLog, err := voiklog.NewLog(*dir, config)
	if err != nil {
		log.Fatalf("opening commit log: %v", err)
	}
	defer commitLog.Close()

	var count uint64
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		pos, err := commitLog.Append(scanner.Bytes())
		if err != nil {
			log.Fatalf("appending record: %v", err)
		}
		fmt.Printf("%d\n", pos)
		count = pos + 1
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading stdin: %v", err)
	}

	if err := commitLog.Flush(); err != nil {
		log.Fatalf("flushing commit log: %v", err)
	}

	for pos := uint64(0); pos < count; pos++ {
		record, err := commitLog.Read(pos)
		if err != nil {
			log.Fatalf("reading record %d: %v", pos, err)
		}
		fmt.Printf("%d\t%s\n", pos, record)
	}
}
