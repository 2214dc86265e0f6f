package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/facewatch/attendance/internal/index"
)

func main() {
	vectorPath := flag.String("vectors", "", "path to the index's vector file")
	slotPath := flag.String("slots", "", "path to the index's slot metadata file")
	inspect := flag.Bool("inspect", false, "load the index and print its slot count")
	compact := flag.Bool("compact", false, "load the index and re-persist it (removed slots are already compacted away in memory)")
	flag.Parse()

	if *vectorPath == "" || *slotPath == "" {
		fmt.Fprintln(os.Stderr, "usage: indexctl -vectors <path> -slots <path> [-inspect] [-compact]")
		os.Exit(2)
	}

	idx := index.New()
	if err := idx.Load(*vectorPath, *slotPath); err != nil {
		log.Fatalf("indexctl: load: %v", err)
	}

	if *inspect {
		fmt.Printf("slots: %d\n", idx.Size())
	}

	if *compact {
		if err := idx.Persist(*vectorPath, *slotPath); err != nil {
			log.Fatalf("indexctl: persist: %v", err)
		}
		fmt.Println("indexctl: compacted")
	}

	if !*inspect && !*compact {
		fmt.Printf("slots: %d (pass -inspect or -compact to act on this index)\n", idx.Size())
	}
}
