package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/CK6170/GazeCal-go/internal/server"
	"github.com/CK6170/GazeCal-go/models"
	"github.com/CK6170/GazeCal-go/modern"
)

func main() {
	var (
		addr   = flag.String("addr", "", "http listen address (overrides ADDR in config)")
		config = flag.String("config", "", "path to parameters JSON (optional)")
	)
	flag.Parse()

	p := models.DefaultParameters()
	if *config != "" {
		loaded, err := modern.LoadParameters(*config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
		p = loaded
	}
	if *addr != "" {
		p.ADDR = *addr
	}

	s := server.New(p)
	log.Printf("Serving on http://%s", p.ADDR)
	log.Printf("Events:    ws://%s/ws/calibration", p.ADDR)
	if err := s.ListenAndServe(p.ADDR); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
